package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// DistanceMetric - метрика близости к семени диаграммы Вороного.
type DistanceMetric uint8

const (
	DistanceEuclidean DistanceMetric = iota
	DistanceManhattan
	DistanceChebyshev
)

// VoronoiCellBuilder разбивает карту на нерегулярные области по ближайшему
// семени; границы областей становятся стенами, внутренности - полом.
type VoronoiCellBuilder struct {
	Seeds  int
	Metric DistanceMetric
}

func NewVoronoiCellBuilder() *VoronoiCellBuilder {
	return &VoronoiCellBuilder{Seeds: 64, Metric: DistanceEuclidean}
}

func (b *VoronoiCellBuilder) Name() string { return "VoronoiCellBuilder" }

func (b *VoronoiCellBuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map
	membership := voronoiMembership(rng, m, b.Seeds, b.Metric)

	// Тайл становится полом, если среди его 4-соседей меньше двух
	// принадлежит чужой области; границы областей остаются стенами.
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			mine := membership[m.Idx(x, y)]
			foreign := 0
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				if membership[m.Idx(x+d[0], y+d[1])] != mine {
					foreign++
				}
			}
			if foreign < 2 {
				m.Tiles[m.Idx(x, y)] = domain.TileFloor
			}
		}
		build.TakeSnapshot()
	}

	start, ok := centerScanStart(m)
	if !ok {
		applyRoomToMap(m, domain.NewRect(m.Width/2-2, m.Height/2-2, 5, 5))
		start = domain.Position{X: m.Width / 2, Y: m.Height / 2}
	}
	build.StartingPosition = &start
	build.TakeSnapshot()

	return nil
}

// voronoiMembership раздает каждой клетке номер ближайшего семени.
func voronoiMembership(rng *rand.Rand, m *domain.Map, nSeeds int, metric DistanceMetric) []int {
	// Уникальных семян не может быть больше, чем клеток внутри рамки
	interior := (m.Width - 2) * (m.Height - 2)
	if nSeeds > interior {
		nSeeds = interior
	}

	seeds := make([]domain.Position, 0, nSeeds)
	for len(seeds) < nSeeds {
		candidate := domain.Position{
			X: randRange(rng, 1, m.Width-2),
			Y: randRange(rng, 1, m.Height-2),
		}
		duplicate := false
		for _, s := range seeds {
			if s == candidate {
				duplicate = true
				break
			}
		}
		if !duplicate {
			seeds = append(seeds, candidate)
		}
	}

	membership := make([]int, len(m.Tiles))
	for i := range m.Tiles {
		x, y := m.XY(i)
		p := domain.Position{X: x, Y: y}

		best, bestSeed := -1, 0
		for s, seed := range seeds {
			d := seedDistance(p, seed, metric)
			if best < 0 || d < best {
				best, bestSeed = d, s
			}
		}
		membership[i] = bestSeed
	}
	return membership
}

// seedDistance возвращает целочисленную метрику (для евклида - квадрат
// расстояния: сравнение монотонно, корень не нужен).
func seedDistance(p, seed domain.Position, metric DistanceMetric) int {
	dx := abs(p.X - seed.X)
	dy := abs(p.Y - seed.Y)
	switch metric {
	case DistanceManhattan:
		return dx + dy
	case DistanceChebyshev:
		return max(dx, dy)
	default:
		return dx*dx + dy*dy
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
