package heightfield

import (
	gomath "math"
	"math/rand"
)

// Hydraulic erosion tuning. Values follow the usual particle model:
// capacity scales with slope and speed, speed grows with height dropped.
const (
	hydraulicCapacityK = 4.0
	hydraulicErodeRate = 0.3
	hydraulicDeposit   = 0.3
	hydraulicGravity   = 4.0
	hydraulicEvap      = 0.02
	hydraulicInertia   = 0.05
)

// Thermal returns an eroded copy of the field. The original is untouched.
//
// Each iteration moves material from every cell whose slope to its steepest
// downhill 4-neighbor exceeds the talus threshold, transferring half of the
// excess. Deltas accumulate per pass and apply afterwards so the result does
// not depend on traversal order.
func (f *Field) Thermal(iterations int, talus float32) *Field {
	if iterations <= 0 {
		return f.clone()
	}
	if talus <= 0 {
		talus = 0.01
	}

	out := f.clone()
	n := out.res
	deltas := make([]float32, n*n)

	for iter := 0; iter < iterations; iter++ {
		for i := range deltas {
			deltas[i] = 0
		}

		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				h := out.data[j*n+i]

				// Steepest downhill 4-neighbor.
				bestDrop := float32(0)
				bestIdx := -1
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					ni := mirror(i+d[0], n)
					nj := mirror(j+d[1], n)
					drop := h - out.data[nj*n+ni]
					if drop > bestDrop {
						bestDrop = drop
						bestIdx = nj*n + ni
					}
				}

				if bestIdx >= 0 && bestDrop > talus {
					move := (bestDrop - talus) * 0.5
					deltas[j*n+i] -= move
					deltas[bestIdx] += move
				}
			}
		}

		for i := range out.data {
			out.data[i] = saturate(out.data[i] + deltas[i])
		}
	}

	return out
}

// Hydraulic returns an eroded copy of the field. The original is untouched.
//
// Simulates drops particles, each following the local gradient downhill for
// at most steps steps. A particle erodes where its sediment capacity exceeds
// its load and deposits otherwise. Speed integrates the height dropped:
// speed = sqrt(speed^2 + dh*gravity). Particle placement is seeded from the
// field seed, so the same field erodes identically every time.
func (f *Field) Hydraulic(drops, steps int) *Field {
	out := f.clone()
	if drops <= 0 || steps <= 0 {
		return out
	}

	n := out.res
	rng := rand.New(rand.NewSource(out.seed ^ 0x9e3779b9))

	for drop := 0; drop < drops; drop++ {
		px := rng.Float32() * float32(n-1)
		py := rng.Float32() * float32(n-1)
		dirX, dirY := float32(0), float32(0)
		speed := float32(1)
		water := float32(1)
		sediment := float32(0)

		for step := 0; step < steps; step++ {
			gx, gy := out.gradient(px, py)

			// Blend direction with the gradient; inertia keeps particles
			// from oscillating in pits.
			dirX = dirX*hydraulicInertia - gx*(1-hydraulicInertia)
			dirY = dirY*hydraulicInertia - gy*(1-hydraulicInertia)

			dirLen := float32(gomath.Sqrt(float64(dirX*dirX + dirY*dirY)))
			if dirLen < 1e-6 {
				break
			}
			dirX /= dirLen
			dirY /= dirLen

			oldH := out.rawHeightAt(px, py)
			px += dirX
			py += dirY
			newH := out.rawHeightAt(px, py)
			dh := newH - oldH

			capacity := maxf(-dh, 0.01) * speed * water * hydraulicCapacityK

			if sediment > capacity || dh > 0 {
				// Deposit: fill to the capacity line, or plug the uphill
				// step entirely.
				amount := (sediment - capacity) * hydraulicDeposit
				if dh > 0 {
					amount = minf(dh, sediment)
				}
				sediment -= amount
				out.deposit(px-dirX, py-dirY, amount)
			} else {
				amount := minf((capacity-sediment)*hydraulicErodeRate, -dh)
				sediment += amount
				out.deposit(px-dirX, py-dirY, -amount)
			}

			speed = float32(gomath.Sqrt(gomath.Abs(float64(speed*speed + dh*hydraulicGravity))))
			water *= 1 - hydraulicEvap
		}
	}

	return out
}

// gradient returns the raw-height slope at a fractional position.
func (f *Field) gradient(x, y float32) (gx, gy float32) {
	const d = 1.0
	gx = (f.rawHeightAt(x+d, y) - f.rawHeightAt(x-d, y)) * 0.5
	gy = (f.rawHeightAt(x, y+d) - f.rawHeightAt(x, y-d)) * 0.5
	return gx, gy
}

// rawHeightAt is HeightAt without the gain scale, in sample units.
func (f *Field) rawHeightAt(x, y float32) float32 {
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
	return top*(1-fy) + bottom*fy
}

// deposit distributes amount bilinearly over the four cells around (x, y).
// Negative amounts erode.
func (f *Field) deposit(x, y, amount float32) {
	x0 := floor32(x)
	y0 := floor32(y)
	fx := x - x0
	fy := y - y0
	ix := int(x0)
	iy := int(y0)

	f.addSample(ix, iy, amount*(1-fx)*(1-fy))
	f.addSample(ix+1, iy, amount*fx*(1-fy))
	f.addSample(ix, iy+1, amount*(1-fx)*fy)
	f.addSample(ix+1, iy+1, amount*fx*fy)
}

func (f *Field) addSample(i, j int, v float32) {
	idx := mirror(j, f.res)*f.res + mirror(i, f.res)
	f.data[idx] = saturate(f.data[idx] + v)
}

func (f *Field) clone() *Field {
	out := &Field{
		res:  f.res,
		gain: f.gain,
		seed: f.seed,
		data: make([]float32, len(f.data)),
	}
	copy(out.data, f.data)
	return out
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
