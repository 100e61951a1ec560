package terrain

import "testing"

func TestTileCount(t *testing.T) {
	cases := []struct {
		levels int
		want   int
	}{
		{1, 4},
		{2, 16},
		{3, 28},
		{4, 40},
		{12, 136},
	}
	for _, c := range cases {
		if got := TileCount(c.levels); got != c.want {
			t.Errorf("TileCount(%d) = %d, want %d", c.levels, got, c.want)
		}
		tiles := BuildLayout(8192, c.levels)
		if len(tiles) != c.want {
			t.Errorf("BuildLayout levels=%d produced %d tiles, want %d", c.levels, len(tiles), c.want)
		}
	}
}

func TestCoreTilesUnmorphed(t *testing.T) {
	tiles := BuildLayout(8192, 3)
	for _, tile := range tiles[:4] {
		if tile.Edges != 0 {
			t.Errorf("core tile (%d,%d) has edge mask %d, want 0", tile.I, tile.J, tile.Edges)
		}
	}
}

func TestRingScalesDouble(t *testing.T) {
	const worldWidth = 8192.0
	const levels = 12
	tiles := BuildLayout(worldWidth, levels)

	s0 := float32(worldWidth) / float32(int(1)<<levels)
	if tiles[0].Scale != s0 {
		t.Fatalf("innermost scale = %f, want %f", tiles[0].Scale, s0)
	}

	// The first ring matches the core scale; every ring after doubles it.
	// The outermost ring tile spans a quarter of the world width.
	want := s0
	for ring := 0; ring < levels-1; ring++ {
		base := 4 + ring*12
		for _, tile := range tiles[base : base+12] {
			if tile.Scale != want {
				t.Fatalf("ring %d tile scale = %f, want %f", ring, tile.Scale, want)
			}
		}
		want *= 2
	}
	if want/2 != worldWidth/4 {
		t.Errorf("outermost scale = %f, want %f", want/2, float32(worldWidth)/4)
	}
	if tiles[0].Scale != 2 {
		t.Errorf("innermost span = %f, want 2 for worldWidth=8192 levels=12", tiles[0].Scale)
	}
}

func TestRingHoleExcluded(t *testing.T) {
	tiles := BuildLayout(4096, 4)
	for _, tile := range tiles[4:] {
		if tile.I >= -1 && tile.I <= 0 && tile.J >= -1 && tile.J <= 0 {
			t.Errorf("ring tile (%d,%d) overlaps the inner hole", tile.I, tile.J)
		}
		if tile.I < -2 || tile.I > 1 || tile.J < -2 || tile.J > 1 {
			t.Errorf("ring tile (%d,%d) outside [-2,2)^2", tile.I, tile.J)
		}
	}
}

func TestEdgeMasks(t *testing.T) {
	tiles := BuildLayout(4096, 2)
	masks := map[[2]int]EdgeMask{}
	for _, tile := range tiles[4:] {
		masks[[2]int{tile.I, tile.J}] = tile.Edges
	}

	cases := []struct {
		i, j int
		want EdgeMask
	}{
		{-2, 0, EdgeLeft},
		{1, 0, EdgeRight},
		{0, -2, EdgeBottom},
		{0, 1, EdgeTop},
		{-2, -2, EdgeLeft | EdgeBottom},
		{1, 1, EdgeRight | EdgeTop},
		{-2, 1, EdgeLeft | EdgeTop},
		{1, -2, EdgeRight | EdgeBottom},
	}
	for _, c := range cases {
		got, ok := masks[[2]int{c.i, c.j}]
		if !ok {
			t.Errorf("no ring tile at (%d,%d)", c.i, c.j)
			continue
		}
		if got != c.want {
			t.Errorf("edge mask at (%d,%d) = %d, want %d", c.i, c.j, got, c.want)
		}
	}
}

func TestClamping(t *testing.T) {
	if got := ClampLevels(0); got != MinLevels {
		t.Errorf("ClampLevels(0) = %d, want %d", got, MinLevels)
	}
	if got := ClampLevels(99); got != MaxLevels {
		t.Errorf("ClampLevels(99) = %d, want %d", got, MaxLevels)
	}
	if got := ClampResolution(1); got != MinResolution {
		t.Errorf("ClampResolution(1) = %d, want %d", got, MinResolution)
	}
	if got := ClampResolution(4096); got != MaxResolution {
		t.Errorf("ClampResolution(4096) = %d, want %d", got, MaxResolution)
	}
	if got := ClampResolution(256); got != 256 {
		t.Errorf("ClampResolution(256) = %d, want 256", got)
	}
}

func TestLayoutCoversWorld(t *testing.T) {
	const worldWidth = 8192.0
	tiles := BuildLayout(worldWidth, 5)

	var minX, maxX float32
	for _, tile := range tiles {
		x0 := float32(tile.I) * tile.Scale
		x1 := x0 + tile.Scale
		if x0 < minX {
			minX = x0
		}
		if x1 > maxX {
			maxX = x1
		}
	}
	if minX != -worldWidth/2 || maxX != worldWidth/2 {
		t.Errorf("layout spans [%f, %f], want [-%f, %f]",
			minX, maxX, float32(worldWidth)/2, float32(worldWidth)/2)
	}
}
