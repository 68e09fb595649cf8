package spatial

import (
	"os"
	"sync"
	"testing"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()
	os.Exit(m.Run())
}

// Helper: карта 10x10, весь пол
func floorMap() *domain.Map {
	m := domain.NewMap(10, 10, 1, "test")
	for i := range m.Tiles {
		m.Tiles[i] = domain.TileFloor
	}
	return m
}

func blocker(index uint64) *domain.Entity {
	return &domain.Entity{
		ID:      domain.PackEntityID(1, index),
		Physics: &domain.PhysicsComponent{BlocksTile: true},
		Stats:   &domain.StatsComponent{HP: 10, MaxHP: 10},
	}
}

func TestSetTerrainBlocked(t *testing.T) {
	m := floorMap()
	m.Tiles[m.Idx(3, 3)] = domain.TileWall
	m.Tiles[m.Idx(4, 4)] = domain.TileDeepWater

	idx := NewIndex(len(m.Tiles))
	idx.SetTerrainBlocked(m)

	if !idx.IsBlocked(m.Idx(3, 3)) {
		t.Error("wall cell must be blocked")
	}
	if !idx.IsBlocked(m.Idx(4, 4)) {
		t.Error("deep water cell must be blocked")
	}
	if idx.IsBlocked(m.Idx(5, 5)) {
		t.Error("floor cell must not be blocked")
	}
}

// Сценарий спеки: смерть освобождает клетку немедленно.
func TestDeathFreesCell(t *testing.T) {
	m := floorMap()
	e := blocker(1)
	e.Pos = domain.Position{X: 0, Y: 9}

	idx := NewIndex(len(m.Tiles))
	idx.Rebuild(m, []*domain.Entity{e})

	cell := m.Idx(0, 9)
	if !idx.IsBlocked(cell) {
		t.Fatal("cell with a live blocker must be blocked")
	}

	idx.RemoveEntity(e.ID, cell)
	if idx.IsBlocked(cell) {
		t.Error("cell must be free right after RemoveEntity")
	}
}

func TestRebuildSkipsDead(t *testing.T) {
	m := floorMap()
	e := blocker(1)
	e.Pos = domain.Position{X: 2, Y: 2}
	e.Stats.IsDead = true

	idx := NewIndex(len(m.Tiles))
	idx.Rebuild(m, []*domain.Entity{e})

	if idx.IsBlocked(m.Idx(2, 2)) {
		t.Error("dead entity must not block its cell after rebuild")
	}
}

// Инвариант: IsBlocked == terrain || OR(blocks) после любой цепочки мутаций.
func TestBlockingInvariant(t *testing.T) {
	m := floorMap()
	idx := NewIndex(len(m.Tiles))
	idx.SetTerrainBlocked(m)

	a := domain.PackEntityID(1, 1)
	b := domain.PackEntityID(1, 2)
	cell := m.Idx(5, 5)

	// Две блокирующие сущности в одной клетке
	idx.IndexEntity(a, cell, true)
	idx.IndexEntity(b, cell, true)
	if !idx.IsBlocked(cell) {
		t.Fatal("cell with two blockers must be blocked")
	}

	// Уходит одна - клетка все еще занята второй.
	// Наивное "снять флаг у источника" дало бы здесь неверный ответ.
	other := m.Idx(6, 5)
	idx.MoveEntity(a, cell, other)
	if !idx.IsBlocked(cell) {
		t.Error("cell must stay blocked: second blocker remains")
	}
	if !idx.IsBlocked(other) {
		t.Error("destination cell must be blocked")
	}

	// Уходит вторая - клетка освобождается
	idx.MoveEntity(b, cell, m.Idx(7, 5))
	if idx.IsBlocked(cell) {
		t.Error("cell must be free after both blockers left")
	}
}

// Идемпотентность: A->B, затем B->A восстанавливает исходное состояние флагов.
func TestMoveIdempotence(t *testing.T) {
	m := floorMap()
	idx := NewIndex(len(m.Tiles))
	idx.SetTerrainBlocked(m)

	e := domain.PackEntityID(1, 7)
	cellA := m.Idx(1, 1)
	cellB := m.Idx(2, 1)
	idx.IndexEntity(e, cellA, true)

	idx.MoveEntity(e, cellA, cellB)
	idx.MoveEntity(e, cellB, cellA)

	if !idx.IsBlocked(cellA) {
		t.Error("cell A must be blocked again after round trip")
	}
	if idx.IsBlocked(cellB) {
		t.Error("cell B must be free after round trip")
	}
}

// Неблокирующие сущности (предметы) не поднимают флаг занятости.
func TestNonBlockingOccupant(t *testing.T) {
	m := floorMap()
	idx := NewIndex(len(m.Tiles))
	idx.SetTerrainBlocked(m)

	item := domain.PackEntityID(1, 3)
	cell := m.Idx(4, 4)
	idx.IndexEntity(item, cell, false)

	if idx.IsBlocked(cell) {
		t.Error("non-blocking occupant must not block the cell")
	}

	found := 0
	idx.ForEachOccupant(cell, func(id domain.EntityID, blocks bool) {
		found++
		if blocks {
			t.Error("item must be indexed as non-blocking")
		}
	})
	if found != 1 {
		t.Errorf("expected 1 occupant, visited %d", found)
	}
}

func TestForEachOccupantUntil(t *testing.T) {
	m := floorMap()
	idx := NewIndex(len(m.Tiles))

	a := domain.PackEntityID(1, 1)
	b := domain.PackEntityID(1, 2)
	cell := m.Idx(3, 3)
	idx.IndexEntity(a, cell, false)
	idx.IndexEntity(b, cell, true)

	// Ищем первую подходящую сущность, обход должен остановиться на ней
	visited := 0
	got, ok := idx.ForEachOccupantUntil(cell, func(id domain.EntityID) bool {
		visited++
		return id == a
	})
	if !ok || got != a {
		t.Errorf("expected to find %v, got %v (ok=%v)", a, got, ok)
	}
	if visited != 1 {
		t.Errorf("iteration must stop at the first match, visited %d", visited)
	}

	// Никто не подошел - возвращается дефолт
	_, ok = idx.ForEachOccupantUntil(cell, func(id domain.EntityID) bool { return false })
	if ok {
		t.Error("expected no match")
	}
}

// Misuse: удаление несуществующей записи - no-op, без паники.
func TestRemoveMissingIsNoop(t *testing.T) {
	m := floorMap()
	idx := NewIndex(len(m.Tiles))

	idx.RemoveEntity(domain.PackEntityID(1, 99), m.Idx(1, 1))
	idx.MoveEntity(domain.PackEntityID(1, 99), m.Idx(1, 1), m.Idx(2, 2))
	idx.RemoveEntity(domain.PackEntityID(1, 99), -5) // и выход за границы тоже
}

// Resize инвалидирует прежние данные.
func TestResizeClears(t *testing.T) {
	m := floorMap()
	idx := NewIndex(len(m.Tiles))
	idx.IndexEntity(domain.PackEntityID(1, 1), m.Idx(1, 1), true)

	idx.Resize(25)
	if idx.Len() != 25 {
		t.Fatalf("expected 25 cells after resize, got %d", idx.Len())
	}
	if idx.IsBlocked(0) {
		t.Error("resized index must start empty")
	}
}

// Смоук на гонки: параллельные читатели и писатели под -race.
func TestConcurrentAccess(t *testing.T) {
	m := floorMap()
	idx := NewIndex(len(m.Tiles))
	idx.SetTerrainBlocked(m)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := domain.PackEntityID(1, uint64(w))
			from := m.Idx(w, 0)
			to := m.Idx(w, 1)
			idx.IndexEntity(id, from, true)
			for i := 0; i < 200; i++ {
				idx.MoveEntity(id, from, to)
				idx.IsBlocked(to)
				idx.ForEachOccupant(to, func(domain.EntityID, bool) {})
				idx.MoveEntity(id, to, from)
			}
		}(w)
	}
	wg.Wait()

	// После четного числа ходов все должны стоять в исходных клетках
	for w := 0; w < 8; w++ {
		if !idx.IsBlocked(m.Idx(w, 0)) {
			t.Errorf("worker %d: start cell must be blocked", w)
		}
		if idx.IsBlocked(m.Idx(w, 1)) {
			t.Errorf("worker %d: transit cell must be free", w)
		}
	}
}
