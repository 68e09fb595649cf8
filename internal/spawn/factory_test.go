package spawn

import (
	"os"
	"testing"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testMap() *domain.Map {
	m := domain.NewMap(10, 10, 3, "test")
	for i := range m.Tiles {
		m.Tiles[i] = domain.TileFloor
	}
	return m
}

func TestFactorySpawn(t *testing.T) {
	m := testMap()
	f := NewFactory(m)

	if err := f.Spawn(m.Idx(2, 3), "Goblin"); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := f.Spawn(m.Idx(5, 5), "Health Potion"); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	entities := f.Entities()
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}

	goblin := entities[0]
	if goblin.Pos != (domain.Position{X: 2, Y: 3}) {
		t.Errorf("goblin at %v", goblin.Pos)
	}
	if !goblin.BlocksTile() {
		t.Error("goblin must block its tile")
	}
	if goblin.Stats == nil || goblin.Stats.MaxHP != 15 {
		t.Error("goblin stats not populated from template")
	}
	if goblin.ID.Depth() != 3 {
		t.Errorf("entity ID carries depth %d, want 3", goblin.ID.Depth())
	}

	potion := entities[1]
	if potion.BlocksTile() {
		t.Error("items must not block tiles")
	}
	if potion.Stats != nil {
		t.Error("items must not carry stats")
	}
}

func TestFactoryUnknownTemplate(t *testing.T) {
	f := NewFactory(testMap())
	if err := f.Spawn(0, "Dragon"); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestFactoryIndexOutOfRange(t *testing.T) {
	f := NewFactory(testMap())
	if err := f.Spawn(1000, "Goblin"); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestFactoryDeterministicIDs(t *testing.T) {
	m := testMap()
	a, b := NewFactory(m), NewFactory(m)
	for _, f := range []*Factory{a, b} {
		_ = f.Spawn(1, "Goblin")
		_ = f.Spawn(2, "Orc")
	}
	for i := range a.Entities() {
		if a.Entities()[i].ID != b.Entities()[i].ID {
			t.Fatalf("entity %d: IDs diverge", i)
		}
	}
}

func TestSpawnTableNamesResolve(t *testing.T) {
	// Все имена, которые может выдать таблица генератора,
	// обязаны иметь шаблон в каталоге
	names := []string{
		"Goblin", "Orc", "Health Potion", "Rations",
		"Bear Trap", "Confusion Scroll", "Magic Missile Scroll",
	}
	for _, name := range names {
		if _, ok := Templates[name]; !ok {
			t.Errorf("spawn table name %q has no template", name)
		}
	}
}

func TestSpawnPlayer(t *testing.T) {
	f := NewFactory(testMap())
	player := f.SpawnPlayer(domain.Position{X: 4, Y: 4})
	if player.Type != domain.EntityTypePlayer {
		t.Errorf("player type %q", player.Type)
	}
	if !player.BlocksTile() {
		t.Error("player must block its tile")
	}
}
