package mapgen

import (
	"errors"
	"math/rand"
	"testing"

	"deepforge-server/internal/domain"
)

func TestWFCPatternMirrors(t *testing.T) {
	p := wfcPattern{size: 2, tiles: []domain.TileType{
		domain.TileWall, domain.TileFloor,
		domain.TileFloor, domain.TileFloor,
	}}

	h := p.mirrorHorizontal()
	if h.at(0, 0) != domain.TileFloor || h.at(1, 0) != domain.TileWall {
		t.Errorf("horizontal mirror wrong: %v", h.tiles)
	}
	v := p.mirrorVertical()
	if v.at(0, 0) != domain.TileFloor || v.at(0, 1) != domain.TileWall {
		t.Errorf("vertical mirror wrong: %v", v.tiles)
	}
}

func TestSamplePatternsDeduplicates(t *testing.T) {
	// Карта из одинаковых стен: все чанки схлопываются в один паттерн
	m := domain.NewMap(12, 12, 1, "test")
	patterns, weights := samplePatterns(m, 4, false)
	if len(patterns) != 1 {
		t.Fatalf("expected 1 unique pattern, got %d", len(patterns))
	}
	if weights[0] != 9 {
		t.Errorf("expected weight 9 for 3x3 chunks, got %d", weights[0])
	}
}

func TestEdgesCompatible(t *testing.T) {
	wall := []domain.TileType{domain.TileWall, domain.TileWall}
	door := []domain.TileType{domain.TileWall, domain.TileFloor}
	grass := []domain.TileType{domain.TileWall, domain.TileGrass}

	if !edgesCompatible(wall, wall) {
		t.Error("identical walls should be compatible")
	}
	if edgesCompatible(wall, door) {
		t.Error("exit against a blank wall should not be compatible")
	}
	// Совпадать обязана проходимость, не тип тайла
	if !edgesCompatible(door, grass) {
		t.Error("floor exit against grass exit should be compatible")
	}
}

// injectedSolver строит солвер на синтетической таблице соседства,
// минуя сэмплирование карты.
func injectedSolver(adjacency [][4][]int, weights []int, w, h int) *wfcSolver {
	return newWFCSolver(len(weights), weights, adjacency, w, h)
}

func TestSolverUnsatisfiableAdjacency(t *testing.T) {
	// Два паттерна, ни один ни с кем не совместим по горизонтали:
	// любая сетка шире одной ячейки противоречива.
	adjacency := [][4][]int{
		{{0, 1}, {0, 1}, nil, nil},
		{{0, 1}, {0, 1}, nil, nil},
	}
	s := injectedSolver(adjacency, []int{1, 1}, 3, 3)
	_, err := s.run(rand.New(rand.NewSource(1)))
	if !errors.Is(err, errWFCContradiction) {
		t.Fatalf("expected contradiction, got %v", err)
	}
}

func TestSolverRespectsAdjacency(t *testing.T) {
	// Шахматка: паттерн 0 допускает рядом только 1 и наоборот
	adjacency := [][4][]int{
		{{1}, {1}, {1}, {1}},
		{{0}, {0}, {0}, {0}},
	}
	s := injectedSolver(adjacency, []int{1, 1}, 4, 4)
	grid, err := s.run(rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("solver failed: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x > 0 && grid[y*4+x] == grid[y*4+x-1] {
				t.Fatalf("adjacent equal patterns at (%d,%d)", x, y)
			}
			if y > 0 && grid[y*4+x] == grid[(y-1)*4+x] {
				t.Fatalf("adjacent equal patterns at (%d,%d)", x, y)
			}
		}
	}
}

func TestSolverSinglePattern(t *testing.T) {
	adjacency := [][4][]int{{{0}, {0}, {0}, {0}}}
	s := injectedSolver(adjacency, []int{1}, 5, 5)
	grid, err := s.run(rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("solver failed: %v", err)
	}
	for _, p := range grid {
		if p != 0 {
			t.Fatal("single-pattern grid must collapse to pattern 0 everywhere")
		}
	}
}

func TestWFCBuilderRebuildsMap(t *testing.T) {
	// Сплошной пол дает единственный паттерн: пересборка обязана
	// сойтись с первой попытки и дать проходимый интерьер.
	build := NewBuilderMap(62, 38, 1, "test")
	for i := range build.Map.Tiles {
		build.Map.Tiles[i] = domain.TileFloor
	}
	build.Rooms = []domain.Rect{domain.NewRect(1, 1, 5, 5)}
	build.AddSpawn(build.Map.Idx(3, 3), "Goblin")

	b := NewWFCBuilder()
	if err := b.BuildMetaMap(rand.New(rand.NewSource(4)), build); err != nil {
		t.Fatalf("BuildMetaMap: %v", err)
	}

	if build.Rooms != nil {
		t.Error("rooms must be invalidated after the rebuild")
	}
	if len(build.SpawnList) != 0 {
		t.Error("spawn list must be cleared after the rebuild")
	}
	if build.StartingPosition != nil {
		t.Error("starting position must be invalidated after the rebuild")
	}
	interior := build.Map.CountTiles(domain.TileFloor)
	if interior == 0 {
		t.Fatal("rebuilt map has no floor")
	}
	// Рамка по периметру остается стеной
	for x := 0; x < build.Map.Width; x++ {
		if build.Map.Tiles[build.Map.Idx(x, 0)] != domain.TileWall {
			t.Fatal("perimeter must stay walled")
		}
	}
}

func TestWFCBuilderTooSmallMap(t *testing.T) {
	build := NewBuilderMap(4, 4, 1, "test")
	b := NewWFCBuilder()
	if err := b.BuildMetaMap(rand.New(rand.NewSource(1)), build); err == nil {
		t.Fatal("expected error for a map smaller than the chunk size")
	}
}
