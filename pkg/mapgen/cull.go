package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// CullUnreachable превращает недостижимый от стартовой позиции пол в стену.
// Обобщенная форма зачистки, встроенной в некоторые initial-билдеры:
// один расчет поля расстояний на всю карту.
type CullUnreachable struct{}

func NewCullUnreachable() *CullUnreachable { return &CullUnreachable{} }

func (c *CullUnreachable) Name() string { return "CullUnreachable" }

func (c *CullUnreachable) BuildMetaMap(_ *rand.Rand, build *BuilderMap) error {
	if build.StartingPosition == nil {
		return ErrNoStartingPos
	}
	m := build.Map
	start := m.Idx(build.StartingPosition.X, build.StartingPosition.Y)

	field := DistanceField(m, start)
	for i, d := range field {
		if m.Tiles[i].IsWalkable() && d == Unreachable {
			m.Tiles[i] = domain.TileWall
		}
	}
	build.TakeSnapshot()
	return nil
}
