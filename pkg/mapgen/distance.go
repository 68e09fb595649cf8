package mapgen

import (
	"deepforge-server/internal/domain"
)

// Unreachable - значение поля расстояний для недостижимых клеток.
const Unreachable = -1

// DistanceField считает кратчайшие расстояния (в шагах, 4-связность)
// от стартовой клетки до каждой проходимой клетки карты.
// Один BFS-проход на всю карту; недостижимые клетки получают Unreachable.
func DistanceField(m *domain.Map, startIdx int) []int {
	field := make([]int, len(m.Tiles))
	for i := range field {
		field[i] = Unreachable
	}
	if startIdx < 0 || startIdx >= len(m.Tiles) {
		return field
	}

	field[startIdx] = 0
	queue := []int{startIdx}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		cx, cy := m.XY(current)

		for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			nx, ny := cx+d[0], cy+d[1]
			if !m.InBounds(nx, ny) {
				continue
			}
			nIdx := m.Idx(nx, ny)
			if field[nIdx] != Unreachable || !m.Tiles[nIdx].IsWalkable() {
				continue
			}
			field[nIdx] = field[current] + 1
			queue = append(queue, nIdx)
		}
	}
	return field
}

// FarthestTile возвращает индекс достижимой клетки с максимальным
// расстоянием от старта. -1, если достижимых клеток нет вовсе.
func FarthestTile(field []int) int {
	best, bestIdx := -1, -1
	for i, d := range field {
		if d > best {
			best, bestIdx = d, i
		}
	}
	return bestIdx
}
