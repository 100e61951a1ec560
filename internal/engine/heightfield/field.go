// Package heightfield generates and queries procedural elevation grids.
package heightfield

import (
	gomath "math"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// MaxSample is the saturation ceiling for elevation samples.
// Octave accumulation clamps into [0, MaxSample], never wraps.
const MaxSample = 255.0

// Default generation parameters.
const (
	DefaultOctaves      = 4
	DefaultOctaveGrowth = 5.0
	DefaultSmoothing    = 0.15
)

// Params controls field generation.
type Params struct {
	Resolution   int     // samples per side, grid is Resolution x Resolution
	Seed         int64   // noise seed, same seed always yields the same grid
	Octaves      int     // ridged octave count (default 4)
	OctaveGrowth float64 // per-octave frequency/amplitude multiplier (default 5)
	Smoothing    float32 // row-blend weight of the directional low-pass (default 0.15)
	Gain         float32 // world-space vertical scale applied to samples
	Island       bool    // radial falloff toward the grid border
}

// withDefaults fills zero-valued parameters.
func (p Params) withDefaults() Params {
	if p.Resolution < 2 {
		p.Resolution = 256
	}
	if p.Octaves <= 0 {
		p.Octaves = DefaultOctaves
	}
	if p.OctaveGrowth <= 1 {
		p.OctaveGrowth = DefaultOctaveGrowth
	}
	if p.Smoothing <= 0 {
		p.Smoothing = DefaultSmoothing
	}
	if p.Gain == 0 {
		p.Gain = 1
	}
	return p
}

// Field is an immutable square elevation grid with mirrored-repeat wrapping.
// Regeneration builds a new Field; the grid is never mutated in place.
type Field struct {
	res  int
	gain float32
	seed int64
	data []float32 // row-major, res*res samples in [0, MaxSample]
}

// Generate bakes a new elevation grid from seeded multi-octave noise.
//
// Each octave adds |noise(x/q, y/q, z)| * q per cell, then q grows by
// OctaveGrowth. The absolute value keeps every octave positive, giving
// ridged fractal terrain instead of signed fbm. A low-frequency perlin
// layer modulates the result so ranges cluster into continents rather
// than uniform roughness.
func Generate(p Params) *Field {
	p = p.withDefaults()
	n := p.Resolution

	f := &Field{
		res:  n,
		gain: p.Gain,
		seed: p.Seed,
		data: make([]float32, n*n),
	}

	noise := opensimplex.New(p.Seed)
	continental := perlin.NewPerlin(2, 2, 3, p.Seed)

	// Fixed z-slice derived from the seed so 3D noise stays deterministic
	// per field but decorrelates fields with different seeds.
	z := float64(uint64(p.Seed)%1024) / 37.0

	acc := make([]float64, n*n)
	quality := 1.0
	for oct := 0; oct < p.Octaves; oct++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				v := noise.Eval3(float64(i)/quality, float64(j)/quality, z)
				acc[j*n+i] += gomath.Abs(v) * quality
			}
		}
		quality *= p.OctaveGrowth
	}

	// Continental modulation: two-frequency layering after mk48's land
	// generator. Low-frequency perlin in [-1,1] scales local relief.
	contFreq := 1.5 / float64(n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			c := continental.Noise2D(float64(i)*contFreq, float64(j)*contFreq)
			acc[j*n+i] *= 0.65 + 0.35*c
		}
	}

	if p.Island {
		applyIslandFalloff(acc, n)
	}

	for i, v := range acc {
		f.data[i] = saturate(float32(v))
	}

	smoothRows(f.data, n, p.Smoothing)

	return f
}

// smoothRows runs the directional low-pass: each row is blended toward the
// previous row with a fixed weight. The pass is deliberately asymmetric
// (row-major, top to bottom), which biases ridgelines along one axis.
func smoothRows(data []float32, n int, weight float32) {
	if weight <= 0 {
		return
	}
	if weight > 0.5 {
		weight = 0.5
	}
	for j := 1; j < n; j++ {
		prev := (j - 1) * n
		row := j * n
		for i := 0; i < n; i++ {
			data[row+i] = data[row+i]*(1-weight) + data[prev+i]*weight
		}
	}
}

// applyIslandFalloff attenuates elevation radially toward the border.
func applyIslandFalloff(acc []float64, n int) {
	cx := float64(n-1) / 2
	cy := float64(n-1) / 2
	maxDist := gomath.Sqrt(cx*cx + cy*cy)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			dx := float64(i) - cx
			dy := float64(j) - cy
			d := gomath.Sqrt(dx*dx+dy*dy) / maxDist
			falloff := 1.0 - d*d
			if falloff < 0 {
				falloff = 0
			}
			acc[j*n+i] *= falloff
		}
	}
}

// Resolution returns the number of samples per side.
func (f *Field) Resolution() int {
	return f.res
}

// Gain returns the vertical world scale applied by HeightAt.
func (f *Field) Gain() float32 {
	return f.gain
}

// Seed returns the seed the field was generated from.
func (f *Field) Seed() int64 {
	return f.seed
}

// Grid returns the raw sample grid for GPU upload. Row-major, res*res
// values in [0, MaxSample]. Callers must not mutate it.
func (f *Field) Grid() []float32 {
	return f.data
}

// HeightAt returns the gain-scaled elevation at (x, y) in cell coordinates,
// bilinearly interpolated with mirrored-repeat wrapping. Degenerate inputs
// return 0 rather than propagating a fault.
func (f *Field) HeightAt(x, y float32) float32 {
	if isBad(x) || isBad(y) {
		return 0
	}

	x0 := floor32(x)
	y0 := floor32(y)
	fx := x - x0
	fy := y - y0

	ix := int(x0)
	iy := int(y0)

	h00 := f.sample(ix, iy)
	h10 := f.sample(ix+1, iy)
	h01 := f.sample(ix, iy+1)
	h11 := f.sample(ix+1, iy+1)

	top := h00*(1-fx) + h10*fx
	bottom := h01*(1-fx) + h11*fx
	h := (top*(1-fy) + bottom*fy) * f.gain

	if isBad(h) {
		return 0
	}
	return h
}

// NormalAt derives a unit surface normal at (x, y) via central differences.
// Any sampling fault falls back to straight up.
func (f *Field) NormalAt(x, y float32) [3]float32 {
	const d = 0.5 // sampling offset in cells

	hl := f.HeightAt(x-d, y)
	hr := f.HeightAt(x+d, y)
	hd := f.HeightAt(x, y-d)
	hu := f.HeightAt(x, y+d)

	nx := hl - hr
	ny := float32(2 * d)
	nz := hd - hu

	length := float32(gomath.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if length < 1e-6 || isBad(length) {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{nx / length, ny / length, nz / length}
}

// sample reads one raw grid sample with mirrored-repeat wrapping.
func (f *Field) sample(i, j int) float32 {
	return f.data[mirror(j, f.res)*f.res+mirror(i, f.res)]
}

// mirror maps an arbitrary integer coordinate into [0, n) by reflecting
// at the grid edges (mirrored-repeat, period 2n).
func mirror(i, n int) int {
	period := 2 * n
	m := i % period
	if m < 0 {
		m += period
	}
	if m >= n {
		m = period - 1 - m
	}
	return m
}

func saturate(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > MaxSample {
		return MaxSample
	}
	return v
}

func floor32(v float32) float32 {
	return float32(gomath.Floor(float64(v)))
}

func isBad(v float32) bool {
	f := float64(v)
	return gomath.IsNaN(f) || gomath.IsInf(f, 0)
}
