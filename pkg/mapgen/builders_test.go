package mapgen

import (
	"math/rand"
	"testing"

	"deepforge-server/internal/domain"
)

// runChain собирает и прогоняет цепочку с одним initial-билдером.
func runChain(t *testing.T, seed int64, width, height int, starter InitialBuilder, metas ...MetaBuilder) *BuilderChain {
	t.Helper()
	chain := NewBuilderChain(width, height, 1, "test")
	chain.StartWith(starter)
	for _, m := range metas {
		chain.With(m)
	}
	if err := chain.BuildMap(rand.New(rand.NewSource(seed))); err != nil {
		t.Fatalf("BuildMap(%s): %v", starter.Name(), err)
	}
	return chain
}

func TestSimpleMapBuilderDeterminism(t *testing.T) {
	a := runChain(t, 42, 80, 50, NewSimpleMapBuilder())
	b := runChain(t, 42, 80, 50, NewSimpleMapBuilder())

	for i := range a.BuildData.Map.Tiles {
		if a.BuildData.Map.Tiles[i] != b.BuildData.Map.Tiles[i] {
			x, y := a.BuildData.Map.XY(i)
			t.Fatalf("same seed produced different tiles at (%d,%d)", x, y)
		}
	}
	if *a.BuildData.StartingPosition != *b.BuildData.StartingPosition {
		t.Errorf("same seed produced different starts: %v vs %v",
			*a.BuildData.StartingPosition, *b.BuildData.StartingPosition)
	}
}

func TestSimpleMapBuilderProducesPlayableLevel(t *testing.T) {
	chain := runChain(t, 7, 80, 50, NewSimpleMapBuilder())
	m := chain.BuildData.Map

	if len(chain.BuildData.Rooms) == 0 {
		t.Fatal("expected rooms")
	}
	if m.CountTiles(domain.TileDownStairs) != 1 {
		t.Fatalf("expected exactly one stairway, got %d", m.CountTiles(domain.TileDownStairs))
	}
	start := chainStart(t, chain)
	if !m.IsWalkable(start.X, start.Y) {
		t.Fatalf("start %v is not walkable", start)
	}
	requireConnected(t, m, start)
}

func TestCellularAutomataConnectivity(t *testing.T) {
	chain := runChain(t, 42, 64, 64, NewCellularAutomataBuilder())
	m := chain.BuildData.Map

	floors := m.CountTiles(domain.TileFloor)
	total := m.Width * m.Height
	if floors*100/total <= 30 {
		t.Fatalf("cave too sparse: %d floor of %d tiles", floors, total)
	}
	requireConnected(t, m, chainStart(t, chain))
}

func TestMazeHasPathToExit(t *testing.T) {
	chain := runChain(t, 3, 60, 40, NewMazeBuilder())
	m := chain.BuildData.Map
	start := chainStart(t, chain)

	field := DistanceField(m, m.Idx(start.X, start.Y))
	exit := -1
	for idx, tile := range m.Tiles {
		if tile == domain.TileDownStairs {
			exit = idx
		}
	}
	if exit < 0 {
		t.Fatal("maze has no exit stairway")
	}
	if field[exit] == Unreachable {
		t.Fatal("exit stairway unreachable from start")
	}
}

func TestDrunkardsWalkVariants(t *testing.T) {
	tests := []struct {
		name    string
		builder InitialBuilder
	}{
		{"open area", DrunkardsWalkOpenArea()},
		{"open halls", DrunkardsWalkOpenHalls()},
		{"winding passages", DrunkardsWalkWindingPassages()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := runChain(t, 11, 60, 40, tt.builder,
				NewAreaStartingPosition(XCenter, YCenter),
				NewCullUnreachable(),
				NewDistantExit(),
			)
			requireConnected(t, chain.BuildData.Map, chainStart(t, chain))
		})
	}
}

func TestDrunkardsWalkTinyMapTerminates(t *testing.T) {
	// Внутренность 3x3 меньше целевой доли пола: бюджет землекопов
	// должен остановить цикл, а не крутить его вечно
	chain := NewBuilderChain(5, 5, 1, "test")
	chain.StartWith(DrunkardsWalkOpenArea())
	if err := chain.BuildMap(rand.New(rand.NewSource(2))); err != nil {
		t.Fatalf("BuildMap: %v", err)
	}
	if chain.BuildData.Map.CountTiles(domain.TileFloor) == 0 {
		t.Fatal("expected at least some carved floor")
	}
}

func TestBSPDungeonRoomsDoNotOverlap(t *testing.T) {
	chain := runChain(t, 5, 80, 50, NewBSPDungeonBuilder(),
		NewRoomDrawer(),
		NewNearestCorridors(),
	)
	rooms := chain.BuildData.Rooms
	if len(rooms) < 2 {
		t.Fatalf("expected several rooms, got %d", len(rooms))
	}
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[i].Intersect(rooms[j]) {
				t.Fatalf("rooms %d and %d overlap: %+v vs %+v", i, j, rooms[i], rooms[j])
			}
		}
	}
	if len(chain.BuildData.Corridors) == 0 {
		t.Fatal("expected corridors between rooms")
	}
}

func TestVoronoiBuilderCarvesFloor(t *testing.T) {
	metrics := []DistanceMetric{DistanceEuclidean, DistanceManhattan, DistanceChebyshev}
	for _, metric := range metrics {
		vb := NewVoronoiCellBuilder()
		vb.Metric = metric
		chain := runChain(t, 9, 64, 48, vb,
			NewAreaStartingPosition(XCenter, YCenter),
			NewCullUnreachable(),
			NewDistantExit(),
		)
		if chain.BuildData.Map.CountTiles(domain.TileFloor) == 0 {
			t.Fatalf("metric %d produced no floor", metric)
		}
	}
}

func TestVoronoiSeedsClampedToInterior(t *testing.T) {
	// Семян по умолчанию 64, внутренних клеток на карте 6x6 всего 16:
	// без клампа подбор уникальных семян не завершился бы
	m := domain.NewMap(6, 6, 1, "test")
	membership := voronoiMembership(rand.New(rand.NewSource(4)), m, 64, DistanceEuclidean)
	if len(membership) != len(m.Tiles) {
		t.Fatalf("expected membership for all %d tiles, got %d", len(m.Tiles), len(membership))
	}
	seen := map[int]bool{}
	for _, s := range membership {
		seen[s] = true
	}
	if len(seen) > 16 {
		t.Fatalf("expected at most 16 distinct seeds, got %d", len(seen))
	}
}

func TestCullUnreachableRemovesIslands(t *testing.T) {
	chain := NewBuilderChain(20, 10, 1, "test")
	chain.StartWith(NewSimpleMapBuilder())
	if err := chain.BuildMap(rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("BuildMap: %v", err)
	}
	build := chain.BuildData
	m := build.Map

	// Врезаем изолированный карман в угол
	m.Tiles[m.Idx(1, 1)] = domain.TileFloor
	cull := NewCullUnreachable()
	if err := cull.BuildMetaMap(rand.New(rand.NewSource(1)), build); err != nil {
		t.Fatalf("CullUnreachable: %v", err)
	}

	start := chainStart(t, chain)
	field := DistanceField(m, m.Idx(start.X, start.Y))
	for idx, tile := range m.Tiles {
		if tile.IsWalkable() && field[idx] == Unreachable {
			t.Fatalf("unreachable walkable tile survived culling at %d", idx)
		}
	}
}

func TestCullUnreachableRequiresStart(t *testing.T) {
	build := NewBuilderMap(10, 10, 1, "test")
	cull := NewCullUnreachable()
	if err := cull.BuildMetaMap(rand.New(rand.NewSource(1)), build); err == nil {
		t.Fatal("expected error without starting position")
	}
}

func TestNoiseOverlayPreservesReachability(t *testing.T) {
	chain := runChain(t, 13, 80, 50, NewSimpleMapBuilder(), NewNoiseOverlay())
	requireConnected(t, chain.BuildData.Map, chainStart(t, chain))
}

func TestRoomSorterOrders(t *testing.T) {
	chain := NewBuilderChain(80, 50, 1, "test")
	chain.StartWith(NewBSPDungeonBuilder())
	chain.With(NewRoomSorter(SortLeftmost))
	chain.With(NewRoomDrawer())
	chain.With(NewDoglegCorridors())
	if err := chain.BuildMap(rand.New(rand.NewSource(2))); err != nil {
		t.Fatalf("BuildMap: %v", err)
	}
	rooms := chain.BuildData.Rooms
	for i := 1; i < len(rooms); i++ {
		if rooms[i-1].X1 > rooms[i].X1 {
			t.Fatalf("rooms not sorted by X at %d: %d > %d", i, rooms[i-1].X1, rooms[i].X1)
		}
	}
}
