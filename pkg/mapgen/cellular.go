package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// CellularAutomataBuilder выращивает органические пещеры: случайный шум
// сглаживается несколькими итерациями клеточного автомата.
type CellularAutomataBuilder struct {
	// FloorChance - вероятность пола при начальной заливке (в процентах)
	FloorChance int
	Iterations  int
}

func NewCellularAutomataBuilder() *CellularAutomataBuilder {
	return &CellularAutomataBuilder{FloorChance: 45, Iterations: 15}
}

func (b *CellularAutomataBuilder) Name() string { return "CellularAutomataBuilder" }

func (b *CellularAutomataBuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map

	// 1. Начальный шум: независимая монетка на каждую внутреннюю клетку
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			if rng.Intn(100) < b.FloorChance {
				m.Tiles[m.Idx(x, y)] = domain.TileFloor
			} else {
				m.Tiles[m.Idx(x, y)] = domain.TileWall
			}
		}
	}
	build.TakeSnapshot()

	// 2. Сглаживание: клетка становится стеной при >4 или 0 стен-соседей
	// (8-связность), иначе полом.
	for i := 0; i < b.Iterations; i++ {
		newTiles := make([]domain.TileType, len(m.Tiles))
		copy(newTiles, m.Tiles)

		for y := 1; y < m.Height-1; y++ {
			for x := 1; x < m.Width-1; x++ {
				neighbors := b.countWallNeighbors(m, x, y)
				idx := m.Idx(x, y)
				if neighbors > 4 || neighbors == 0 {
					newTiles[idx] = domain.TileWall
				} else {
					newTiles[idx] = domain.TileFloor
				}
			}
		}
		m.Tiles = newTiles
		build.TakeSnapshot()
	}

	// 3. Старт: от центра карты влево до первого пола
	start, ok := centerScanStart(m)
	if !ok {
		// Шум мог выродиться в сплошную стену - дорезаем комнату в центре
		applyRoomToMap(m, domain.NewRect(m.Width/2-2, m.Height/2-2, 5, 5))
		start = domain.Position{X: m.Width / 2, Y: m.Height / 2}
	}
	build.StartingPosition = &start

	// 4. Недостижимые области заливаем стеной, выход - в самой дальней
	// достижимой клетке (однократный расчет поля расстояний).
	field := DistanceField(m, m.Idx(start.X, start.Y))
	for i, d := range field {
		if m.Tiles[i] == domain.TileFloor && d == Unreachable {
			m.Tiles[i] = domain.TileWall
		}
	}
	if exit := FarthestTile(field); exit >= 0 {
		m.Tiles[exit] = domain.TileDownStairs
	}
	build.TakeSnapshot()

	return nil
}

// countWallNeighbors считает стены в 8-связной окрестности.
func (b *CellularAutomataBuilder) countWallNeighbors(m *domain.Map, x, y int) int {
	walls := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if m.Tiles[m.Idx(x+dx, y+dy)] == domain.TileWall {
				walls++
			}
		}
	}
	return walls
}
