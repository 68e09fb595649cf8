package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// applyRoomToMap вырезает комнату в полу.
func applyRoomToMap(m *domain.Map, room domain.Rect) {
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			if m.InBounds(x, y) {
				m.Tiles[m.Idx(x, y)] = domain.TileFloor
			}
		}
	}
}

// applyHorizontalTunnel прокладывает горизонтальный коридор,
// возвращая индексы прорезанных клеток.
func applyHorizontalTunnel(m *domain.Map, x1, x2, y int) []int {
	var corridor []int
	start, end := min(x1, x2), max(x1, x2)
	for x := start; x <= end; x++ {
		if !m.InBounds(x, y) {
			continue
		}
		idx := m.Idx(x, y)
		if m.Tiles[idx] != domain.TileFloor {
			m.Tiles[idx] = domain.TileFloor
			corridor = append(corridor, idx)
		}
	}
	return corridor
}

// applyVerticalTunnel - вертикальный коридор, см. applyHorizontalTunnel.
func applyVerticalTunnel(m *domain.Map, y1, y2, x int) []int {
	var corridor []int
	start, end := min(y1, y2), max(y1, y2)
	for y := start; y <= end; y++ {
		if !m.InBounds(x, y) {
			continue
		}
		idx := m.Idx(x, y)
		if m.Tiles[idx] != domain.TileFloor {
			m.Tiles[idx] = domain.TileFloor
			corridor = append(corridor, idx)
		}
	}
	return corridor
}

// applyDoglegCorridor - Г-образный коридор между двумя точками.
// Порядок колен (сначала горизонталь или вертикаль) выбирается случайно.
func applyDoglegCorridor(rng *rand.Rand, m *domain.Map, x1, y1, x2, y2 int) []int {
	var corridor []int
	if rng.Intn(2) == 0 {
		corridor = append(corridor, applyHorizontalTunnel(m, x1, x2, y1)...)
		corridor = append(corridor, applyVerticalTunnel(m, y1, y2, x2)...)
	} else {
		corridor = append(corridor, applyVerticalTunnel(m, y1, y2, x1)...)
		corridor = append(corridor, applyHorizontalTunnel(m, x1, x2, y2)...)
	}
	return corridor
}

// randRange возвращает случайное число в [lo, hi] включительно.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return rng.Intn(hi-lo+1) + lo
}

// centerScanStart ищет стартовую позицию, двигаясь от центра карты влево
// до первого пола. Вернет false, если пола в центральном ряду нет вовсе.
func centerScanStart(m *domain.Map) (domain.Position, bool) {
	cy := m.Height / 2
	for x := m.Width / 2; x > 0; x-- {
		if m.Tiles[m.Idx(x, cy)] == domain.TileFloor {
			return domain.Position{X: x, Y: cy}, true
		}
	}
	// Центральный ряд пуст - берем первый попавшийся пол.
	for i, tile := range m.Tiles {
		if tile == domain.TileFloor {
			x, y := m.XY(i)
			return domain.Position{X: x, Y: y}, true
		}
	}
	return domain.Position{}, false
}
