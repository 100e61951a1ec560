// Package terrain renders an unbounded level-of-detail surface as
// concentric rings of instanced tiles recentred over the observer.
package terrain

// EdgeMask flags which edges of a tile border the next coarser ring.
// The vertex shader morphs elevations toward the coarser grid inside a
// configurable band along flagged edges, which is what hides LOD seams
// without stitching geometry.
type EdgeMask uint8

const (
	EdgeTop EdgeMask = 1 << iota
	EdgeLeft
	EdgeBottom
	EdgeRight
)

// Tile is one square patch of the ring layout. All tiles share the same
// unit grid mesh; a tile is nothing but an offset, a scale and its edge
// mask, uploaded as per-instance attributes.
type Tile struct {
	I, J  int // ring-relative integer offset, world offset is (I, J) * Scale
	Scale float32
	Edges EdgeMask
}

// Valid configuration bounds. Reconfiguration requests clamp here before
// any GPU allocation happens.
const (
	MinLevels     = 1
	MaxLevels     = 16
	MinResolution = 8
	MaxResolution = 1024
)

// ClampLevels clamps a ring count into the valid range.
func ClampLevels(levels int) int {
	if levels < MinLevels {
		return MinLevels
	}
	if levels > MaxLevels {
		return MaxLevels
	}
	return levels
}

// ClampResolution clamps a per-tile grid density into the valid range.
func ClampResolution(resolution int) int {
	if resolution < MinResolution {
		return MinResolution
	}
	if resolution > MaxResolution {
		return MaxResolution
	}
	return resolution
}

// TileCount returns the number of tiles a layout with the given ring
// count produces: a 2x2 core plus 12 tiles per concentric ring.
func TileCount(levels int) int {
	return 4 + 12*(levels-1)
}

// BuildLayout places the tile set for a terrain of the given world width
// and ring count. The finest four tiles sit in a 2x2 block around the
// origin at scale worldWidth/2^levels; every ring around them doubles the
// scale and contributes 12 tiles (a 4x4 block minus the 2x2 hole the
// finer level fills).
func BuildLayout(worldWidth float32, levels int) []Tile {
	levels = ClampLevels(levels)
	s0 := worldWidth / float32(uint(1)<<uint(levels))

	tiles := make([]Tile, 0, TileCount(levels))

	for _, o := range [4][2]int{{-1, -1}, {-1, 0}, {0, -1}, {0, 0}} {
		tiles = append(tiles, Tile{I: o[0], J: o[1], Scale: s0})
	}

	for level := 0; level <= levels-2; level++ {
		scale := s0 * float32(uint(1)<<uint(level))
		for j := -2; j < 2; j++ {
			for i := -2; i < 2; i++ {
				if i >= -1 && i <= 0 && j >= -1 && j <= 0 {
					continue // hole covered by the finer level
				}
				tiles = append(tiles, Tile{
					I:     i,
					J:     j,
					Scale: scale,
					Edges: edgeMaskFor(i, j),
				})
			}
		}
	}

	return tiles
}

// edgeMaskFor derives the coarser-neighbor mask from a tile's position in
// its ring. Only the ring's outer boundary touches the next coarser
// level; corners touch it on two sides.
func edgeMaskFor(i, j int) EdgeMask {
	var mask EdgeMask
	if i == -2 {
		mask |= EdgeLeft
	}
	if i == 1 {
		mask |= EdgeRight
	}
	if j == -2 {
		mask |= EdgeBottom
	}
	if j == 1 {
		mask |= EdgeTop
	}
	return mask
}
