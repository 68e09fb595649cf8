package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// Края карты для выбора стартовой позиции.
type XStart uint8
type YStart uint8

const (
	XLeft XStart = iota
	XCenter
	XRight
)

const (
	YTop YStart = iota
	YCenter
	YBottom
)

// AreaStartingPosition выбирает стартовую позицию с направленным смещением:
// берется ближайший к опорной точке пол.
type AreaStartingPosition struct {
	X XStart
	Y YStart
}

func NewAreaStartingPosition(x XStart, y YStart) *AreaStartingPosition {
	return &AreaStartingPosition{X: x, Y: y}
}

func (a *AreaStartingPosition) Name() string { return "AreaStartingPosition" }

func (a *AreaStartingPosition) BuildMetaMap(_ *rand.Rand, build *BuilderMap) error {
	m := build.Map

	var seedX, seedY int
	switch a.X {
	case XLeft:
		seedX = 1
	case XCenter:
		seedX = m.Width / 2
	case XRight:
		seedX = m.Width - 2
	}
	switch a.Y {
	case YTop:
		seedY = 1
	case YCenter:
		seedY = m.Height / 2
	case YBottom:
		seedY = m.Height - 2
	}
	seed := domain.Position{X: seedX, Y: seedY}

	// Ближайший к опорной точке проходимый тайл
	best, bestIdx := -1, -1
	for i, tile := range m.Tiles {
		if !tile.IsWalkable() {
			continue
		}
		x, y := m.XY(i)
		d := seed.DistanceSquaredTo(domain.Position{X: x, Y: y})
		if bestIdx < 0 || d < best {
			best, bestIdx = d, i
		}
	}
	if bestIdx < 0 {
		return ErrNoStartingPos
	}

	x, y := m.XY(bestIdx)
	build.StartingPosition = &domain.Position{X: x, Y: y}
	return nil
}

// DistantExit ставит лестницу вниз в самую дальнюю достижимую от старта
// клетку. Требует стартовой позиции.
type DistantExit struct{}

func NewDistantExit() *DistantExit { return &DistantExit{} }

func (d *DistantExit) Name() string { return "DistantExit" }

func (d *DistantExit) BuildMetaMap(_ *rand.Rand, build *BuilderMap) error {
	if build.StartingPosition == nil {
		return ErrNoStartingPos
	}
	m := build.Map
	start := m.Idx(build.StartingPosition.X, build.StartingPosition.Y)

	field := DistanceField(m, start)
	exit := FarthestTile(field)
	if exit < 0 {
		return ErrNoStartingPos
	}
	m.Tiles[exit] = domain.TileDownStairs
	build.TakeSnapshot()
	return nil
}
