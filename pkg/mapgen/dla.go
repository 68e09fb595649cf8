package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// DLAAlgorithm - политика выпуска блуждателей.
type DLAAlgorithm uint8

const (
	// DLAWalkInwards - блуждатель стартует со случайной клетки и идет,
	// пока не коснется существующего пола; прилипает последней стеной.
	DLAWalkInwards DLAAlgorithm = iota
	// DLAWalkOutwards - блуждатель стартует из центра структуры
	// и идет наружу до первой стены, которую и прорезает.
	DLAWalkOutwards
	// DLACentralAttractor - блуждатель стартует со случайной клетки
	// и идет по прямой к центру до первой стены.
	DLACentralAttractor
)

// DLABuilder - diffusion-limited aggregation: пещеры выращиваются
// "прилипанием" случайных блуждателей к затравке в центре карты.
type DLABuilder struct {
	Algorithm    DLAAlgorithm
	BrushSize    int
	FloorPercent int
	// Symmetry отражает каждый прорез по горизонтали относительно центра,
	// давая "инсектоидные" двусторонние формы.
	Symmetry bool
}

func DLAWalkInwardsConfig() *DLABuilder {
	return &DLABuilder{Algorithm: DLAWalkInwards, BrushSize: 1, FloorPercent: 25}
}

func DLACentralAttractorConfig() *DLABuilder {
	return &DLABuilder{Algorithm: DLACentralAttractor, BrushSize: 2, FloorPercent: 25}
}

func DLAInsectoidConfig() *DLABuilder {
	return &DLABuilder{Algorithm: DLACentralAttractor, BrushSize: 2, FloorPercent: 25, Symmetry: true}
}

func (b *DLABuilder) Name() string { return "DLABuilder" }

func (b *DLABuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map

	// Затравка: крест из пяти клеток в центре
	cx, cy := m.Width/2, m.Height/2
	build.StartingPosition = &domain.Position{X: cx, Y: cy}
	m.Tiles[m.Idx(cx, cy)] = domain.TileFloor
	m.Tiles[m.Idx(cx-1, cy)] = domain.TileFloor
	m.Tiles[m.Idx(cx+1, cy)] = domain.TileFloor
	m.Tiles[m.Idx(cx, cy-1)] = domain.TileFloor
	m.Tiles[m.Idx(cx, cy+1)] = domain.TileFloor

	totalTiles := m.Width * m.Height
	desiredFloor := totalTiles * b.FloorPercent / 100
	floorCount := m.CountTiles(domain.TileFloor)

	// Бюджет итераций: генерация обязана завершаться даже при неудачном
	// раскладе, остальное доделает CullUnreachable.
	budget := totalTiles * 40

	for floorCount < desiredFloor && budget > 0 {
		budget--
		switch b.Algorithm {
		case DLAWalkInwards:
			b.walkInwards(rng, m)
		case DLAWalkOutwards:
			b.walkOutwards(rng, m, cx, cy)
		case DLACentralAttractor:
			b.centralAttractor(rng, m, cx, cy)
		}
		newCount := m.CountTiles(domain.TileFloor)
		if newCount != floorCount && newCount%50 == 0 {
			build.TakeSnapshot()
		}
		floorCount = newCount
	}

	build.TakeSnapshot()
	return nil
}

// walkInwards: блуждаем из случайной точки, пока предыдущая клетка
// не окажется рядом с полом - тогда прорезаем её.
func (b *DLABuilder) walkInwards(rng *rand.Rand, m *domain.Map) {
	x := randRange(rng, 1, m.Width-2)
	y := randRange(rng, 1, m.Height-2)
	prevX, prevY := x, y

	for steps := 0; steps < m.Width*m.Height; steps++ {
		if m.Tiles[m.Idx(x, y)] == domain.TileFloor {
			b.paint(m, prevX, prevY)
			return
		}
		prevX, prevY = x, y
		x, y = randomCardinalStep(rng, m, x, y)
	}
}

// walkOutwards: из центра наружу до первой стены.
func (b *DLABuilder) walkOutwards(rng *rand.Rand, m *domain.Map, cx, cy int) {
	x, y := cx, cy
	for steps := 0; steps < m.Width*m.Height; steps++ {
		if m.Tiles[m.Idx(x, y)] != domain.TileFloor {
			b.paint(m, x, y)
			return
		}
		x, y = randomCardinalStep(rng, m, x, y)
	}
}

// centralAttractor: из случайной точки по линии к центру до первой стены.
func (b *DLABuilder) centralAttractor(rng *rand.Rand, m *domain.Map, cx, cy int) {
	x := randRange(rng, 1, m.Width-2)
	y := randRange(rng, 1, m.Height-2)

	path := bresenhamLine(x, y, cx, cy)
	for _, p := range path {
		if !m.InBounds(p.X, p.Y) {
			continue
		}
		if m.Tiles[m.Idx(p.X, p.Y)] != domain.TileFloor {
			b.paint(m, p.X, p.Y)
			return
		}
	}
}

// paint прорезает пол кистью BrushSize, с опциональной симметрией.
func (b *DLABuilder) paint(m *domain.Map, x, y int) {
	b.paintBrush(m, x, y)
	if b.Symmetry {
		mirrorX := m.Width - x - 1
		if mirrorX != x {
			b.paintBrush(m, mirrorX, y)
		}
	}
}

func (b *DLABuilder) paintBrush(m *domain.Map, x, y int) {
	half := b.BrushSize / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			nx, ny := x+dx, y+dy
			if nx > 0 && nx < m.Width-1 && ny > 0 && ny < m.Height-1 {
				m.Tiles[m.Idx(nx, ny)] = domain.TileFloor
			}
		}
	}
}

// randomCardinalStep - один случайный шаг по сторонам света с зажимом
// в однотайловой рамке от края.
func randomCardinalStep(rng *rand.Rand, m *domain.Map, x, y int) (int, int) {
	switch rng.Intn(4) {
	case 0:
		if x > 1 {
			x--
		}
	case 1:
		if x < m.Width-2 {
			x++
		}
	case 2:
		if y > 1 {
			y--
		}
	default:
		if y < m.Height-2 {
			y++
		}
	}
	return x, y
}

// bresenhamLine возвращает клетки отрезка между двумя точками.
func bresenhamLine(x0, y0, x1, y1 int) []domain.Position {
	var points []domain.Position

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		points = append(points, domain.Position{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	return points
}
