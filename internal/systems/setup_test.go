package systems

import (
	"os"
	"testing"

	"deepforge-server/internal/domain"
	"deepforge-server/internal/spatial"
	"deepforge-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// openMap - карта со сплошным полом внутри периметра стен.
func openMap(w, h int) *domain.Map {
	m := domain.NewMap(w, h, 1, "test")
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m.Tiles[m.Idx(x, y)] = domain.TileFloor
		}
	}
	return m
}

func indexFor(m *domain.Map, entities ...*domain.Entity) *spatial.Index {
	idx := spatial.NewIndex(len(m.Tiles))
	idx.Rebuild(m, entities)
	return idx
}

func blockerAt(id uint64, x, y int) *domain.Entity {
	return &domain.Entity{
		ID:      domain.PackEntityID(1, id),
		Type:    domain.EntityTypeEnemy,
		Pos:     domain.Position{X: x, Y: y},
		Stats:   &domain.StatsComponent{HP: 10, MaxHP: 10},
		Physics: &domain.PhysicsComponent{BlocksTile: true},
	}
}

func itemAt(id uint64, x, y int) *domain.Entity {
	return &domain.Entity{
		ID:   domain.PackEntityID(1, id),
		Type: domain.EntityTypeItem,
		Pos:  domain.Position{X: x, Y: y},
	}
}
