package systems

import (
	"testing"

	"deepforge-server/internal/domain"
)

func TestCalculateMoveIntoWall(t *testing.T) {
	m := openMap(10, 10)
	e := blockerAt(1, 1, 1)
	idx := indexFor(m, e)

	res := CalculateMove(e, -1, 0, m, idx)
	if !res.IsWall || res.HasMoved {
		t.Fatalf("expected wall block, got %+v", res)
	}
}

func TestCalculateMoveOutOfBounds(t *testing.T) {
	m := openMap(10, 10)
	e := blockerAt(1, 0, 0)
	idx := indexFor(m, e)

	res := CalculateMove(e, -1, -1, m, idx)
	if !res.IsWall {
		t.Fatalf("expected bounds block, got %+v", res)
	}
}

func TestCalculateMoveIntoBlocker(t *testing.T) {
	m := openMap(10, 10)
	mover := blockerAt(1, 2, 2)
	target := blockerAt(2, 3, 2)
	idx := indexFor(m, mover, target)

	res := CalculateMove(mover, 1, 0, m, idx)
	if !res.HasTarget {
		t.Fatalf("expected entity block, got %+v", res)
	}
	if res.BlockedBy != target.ID {
		t.Errorf("blocked by %v, want %v", res.BlockedBy, target.ID)
	}
}

func TestCalculateMoveOverItem(t *testing.T) {
	m := openMap(10, 10)
	mover := blockerAt(1, 2, 2)
	potion := itemAt(2, 3, 2)
	idx := indexFor(m, mover, potion)

	res := CalculateMove(mover, 1, 0, m, idx)
	if !res.HasMoved {
		t.Fatalf("items must not block movement, got %+v", res)
	}
}

func TestCalculateMoveOverCorpse(t *testing.T) {
	m := openMap(10, 10)
	mover := blockerAt(1, 2, 2)
	corpse := blockerAt(2, 3, 2)
	corpse.Stats.IsDead = true
	idx := indexFor(m, mover, corpse)

	res := CalculateMove(mover, 1, 0, m, idx)
	if !res.HasMoved {
		t.Fatalf("corpses must not block movement, got %+v", res)
	}
}

func TestApplyMoveReadYourWrites(t *testing.T) {
	m := openMap(10, 10)
	e := blockerAt(1, 2, 2)
	idx := indexFor(m, e)

	res := CalculateMove(e, 1, 0, m, idx)
	if !res.HasMoved {
		t.Fatalf("expected free move, got %+v", res)
	}
	ApplyMove(e, res, m, idx)

	// Движение видно сразу, без полной переиндексации
	if !idx.IsBlocked(m.Idx(3, 2)) {
		t.Error("new cell must be blocked right after the move")
	}
	if idx.IsBlocked(m.Idx(2, 2)) {
		t.Error("old cell must be free right after the move")
	}
	if e.Pos != (domain.Position{X: 3, Y: 2}) {
		t.Errorf("entity position not updated: %v", e.Pos)
	}

	// Второй шаг опирается на свежее состояние
	res = CalculateMove(e, 1, 0, m, idx)
	if !res.HasMoved {
		t.Fatalf("chained move failed: %+v", res)
	}
}

func TestDeathFreesCellThroughIndex(t *testing.T) {
	m := openMap(10, 10)
	mover := blockerAt(1, 2, 2)
	victim := blockerAt(2, 3, 2)
	idx := indexFor(m, mover, victim)

	// Убиваем и снимаем с индекса немедленно
	victim.Stats.IsDead = true
	idx.RemoveEntity(victim.ID, m.Idx(3, 2))

	res := CalculateMove(mover, 1, 0, m, idx)
	if !res.HasMoved {
		t.Fatalf("cell must free up on death, got %+v", res)
	}
}
