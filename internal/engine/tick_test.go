package engine

import (
	"testing"

	"deepforge-server/internal/domain"
	"deepforge-server/internal/spatial"
	"deepforge-server/internal/spawn"
)

// handMadeLevel - маленький уровень без генератора: сплошной пол,
// игрок и один гоблин на заданных позициях.
func handMadeLevel(t *testing.T, playerPos, goblinPos domain.Position) *Level {
	t.Helper()
	m := domain.NewMap(20, 20, 1, "test")
	for y := 1; y < 19; y++ {
		for x := 1; x < 19; x++ {
			m.Tiles[m.Idx(x, y)] = domain.TileFloor
		}
	}

	factory := spawn.NewFactory(m)
	if err := factory.Spawn(m.Idx(goblinPos.X, goblinPos.Y), "Goblin"); err != nil {
		t.Fatalf("spawn goblin: %v", err)
	}
	player := factory.SpawnPlayer(playerPos)

	level := &Level{
		Map:      m,
		Index:    spatial.NewIndex(len(m.Tiles)),
		Entities: factory.Entities(),
		Player:   player,
		Depth:    1,
	}
	level.Index.Rebuild(m, level.Entities)
	return level
}

func TestRunTickMovesPlayer(t *testing.T) {
	level := handMadeLevel(t, domain.Position{X: 5, Y: 5}, domain.Position{X: 15, Y: 15})

	level.RunTick([]MoveCommand{{Entity: level.Player.ID, DX: 1, DY: 0}})
	if level.Player.Pos != (domain.Position{X: 6, Y: 5}) {
		t.Fatalf("player at %v, want (6,5)", level.Player.Pos)
	}
	// FOV обновлен после движения
	if !level.Map.Visible[level.Map.Idx(6, 5)] {
		t.Error("player tile must be visible after the tick")
	}
}

func TestRunTickBumpAttack(t *testing.T) {
	level := handMadeLevel(t, domain.Position{X: 5, Y: 5}, domain.Position{X: 6, Y: 5})
	goblin := level.Entities[0]
	startHP := goblin.Stats.HP

	level.RunTick([]MoveCommand{{Entity: level.Player.ID, DX: 1, DY: 0}})

	if level.Player.Pos != (domain.Position{X: 5, Y: 5}) {
		t.Error("bump attack must not move the attacker")
	}
	if goblin.Stats.HP >= startHP {
		t.Errorf("goblin HP %d, want below %d", goblin.Stats.HP, startHP)
	}
}

func TestRunTickDeathFreesCell(t *testing.T) {
	level := handMadeLevel(t, domain.Position{X: 5, Y: 5}, domain.Position{X: 6, Y: 5})
	goblin := level.Entities[0]

	// Бьем, пока гоблин не умрет
	for i := 0; i < 10 && goblin.IsAlive(); i++ {
		level.RunTick([]MoveCommand{{Entity: level.Player.ID, DX: 1, DY: 0}})
	}
	if goblin.IsAlive() {
		t.Fatal("goblin survived 10 hits")
	}

	// Следующий шаг проходит через бывшую клетку гоблина
	level.RunTick([]MoveCommand{{Entity: level.Player.ID, DX: 1, DY: 0}})
	if level.Player.Pos != (domain.Position{X: 6, Y: 5}) {
		t.Fatalf("player at %v, corpse must not block", level.Player.Pos)
	}
}

func TestRunTickEnemyChasesPlayer(t *testing.T) {
	level := handMadeLevel(t, domain.Position{X: 5, Y: 5}, domain.Position{X: 9, Y: 5})
	goblin := level.Entities[0]

	level.RunTick(nil)
	if goblin.Pos != (domain.Position{X: 8, Y: 5}) {
		t.Fatalf("goblin at %v, want a step toward the player", goblin.Pos)
	}
}

func TestRunTickEnemyIgnoresDistantPlayer(t *testing.T) {
	level := handMadeLevel(t, domain.Position{X: 2, Y: 2}, domain.Position{X: 17, Y: 17})
	goblin := level.Entities[0]

	level.RunTick(nil)
	if goblin.Pos != (domain.Position{X: 17, Y: 17}) {
		t.Fatalf("goblin at %v, must stand still outside vision range", goblin.Pos)
	}
}

func TestRunTickDropsCommandsForDead(t *testing.T) {
	level := handMadeLevel(t, domain.Position{X: 5, Y: 5}, domain.Position{X: 15, Y: 15})
	goblin := level.Entities[0]
	goblin.Stats.IsDead = true

	// Команда от трупа молча отбрасывается
	level.RunTick([]MoveCommand{{Entity: goblin.ID, DX: 1, DY: 0}})
	if goblin.Pos != (domain.Position{X: 15, Y: 15}) {
		t.Error("dead entity must not move")
	}
}
