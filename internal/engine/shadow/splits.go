// Package shadow implements cascaded shadow maps for a single directional
// light. Each frame the cascades are refit to the view frustum; nothing
// persists across frames except the depth render targets.
package shadow

import gomath "math"

// CascadeCount is fixed: three depth slices tile the view frustum.
const CascadeCount = 3

// DefaultLambda blends uniform and logarithmic split placement. Higher
// values pack cascades tighter near the camera.
const DefaultLambda = 0.6

// DefaultOverlap is the fraction of a cascade's span shared with its
// predecessor, hiding the seam where the shading stage switches maps.
const DefaultOverlap = 0.1

// ComputeSplits returns the far boundary of each cascade, strictly
// increasing, with the last equal to far. For split k of count,
// p = k/count, and the boundary is lerp(uniform, logarithmic, lambda):
//
//	uniform = near + (far-near)*p
//	log     = near * (far/near)^p
//
// Degenerate ranges (far <= near) are clamped to a minimum positive span.
func ComputeSplits(near, far float32, count int, lambda float32) []float32 {
	if count < 1 {
		count = 1
	}
	near, far = clampSpan(near, far)
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}

	splits := make([]float32, count)
	ratio := float64(far) / float64(near)
	for k := 1; k <= count; k++ {
		p := float64(k) / float64(count)
		uniform := float64(near) + (float64(far)-float64(near))*p
		logarithmic := float64(near) * gomath.Pow(ratio, p)
		splits[k-1] = float32(uniform + (logarithmic-uniform)*float64(lambda))
	}
	splits[count-1] = far
	return splits
}

// Range is one cascade's depth slice of the camera frustum.
type Range struct {
	Near float32
	Far  float32
}

// SplitRanges expands split boundaries into per-cascade near/far ranges.
// Each cascade past the first starts early by overlap of its own span, so
// adjacent maps cover a shared band. Range[0].Near == near and
// Range[last].Far == far always hold; the full depth range has no gap.
func SplitRanges(near, far float32, splits []float32, overlap float32) []Range {
	if overlap < 0 {
		overlap = 0
	}
	if overlap > 0.5 {
		overlap = 0.5
	}

	ranges := make([]Range, len(splits))
	prev := near
	for i, split := range splits {
		r := Range{Near: prev, Far: split}
		if i > 0 {
			r.Near = prev - (split-prev)*overlap
			if r.Near < near {
				r.Near = near
			}
		}
		ranges[i] = r
		prev = split
	}
	return ranges
}

// minSpan is the smallest depth or extent span the fitter will produce.
// Degenerate configuration clamps here instead of yielding inverted or
// NaN matrices.
const minSpan = 0.01

func clampSpan(near, far float32) (float32, float32) {
	if near <= 0 {
		near = minSpan
	}
	if far <= near {
		far = near + minSpan
	}
	return near, far
}
