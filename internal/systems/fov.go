package systems

import (
	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

// Мультипликаторы для трансформации координат в 8 октантов
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// ComputeVisibleTiles возвращает мапу индексов {index: true}, которые видны.
func ComputeVisibleTiles(m *domain.Map, pos domain.Position, radius int) map[int]bool {
	fovLogger := logger.WithComponent("fov_system").WithField("observer_pos", pos)

	visibleMap := make(map[int]bool)
	if radius <= 0 {
		fovLogger.Warn("FOV calculation skipped for blind observer (radius <= 0)")
		return visibleMap
	}

	// Центр всегда виден
	visibleMap[m.Idx(pos.X, pos.Y)] = true

	// Рекурсивный Shadowcasting для 8 октантов
	for i := 0; i < 8; i++ {
		castLight(m, pos.X, pos.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i], visibleMap)
	}

	fovLogger.WithField("visible_tiles", len(visibleMap)).Debug("FOV calculation complete")

	return visibleMap
}

// UpdateFieldOfView пересчитывает видимость с позиции наблюдателя
// и переносит ее на карту: Visible перезаписывается, Revealed накапливается.
func UpdateFieldOfView(m *domain.Map, pos domain.Position, radius int) {
	m.ClearVisible()
	for idx := range ComputeVisibleTiles(m, pos, radius) {
		m.Visible[idx] = true
		m.Revealed[idx] = true
	}
}

func castLight(m *domain.Map, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int, visibleMap map[int]bool) {
	if start < end {
		return
	}

	radiusSq := float64(radius * radius)

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}
			dy = -j

			// Расчет наклонов (Slopes)
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			// Трансформация координат в глобальные
			X := cx + dx*xx + dy*xy
			Y := cy + dx*yx + dy*yy

			if m.InBounds(X, Y) && float64(dx*dx+dy*dy) < radiusSq {
				visibleMap[m.Idx(X, Y)] = true
			}

			// Логика теней
			if blocked {
				// Мы идем вдоль стены...
				if fovBlocking(m, X, Y) {
					newStart = rSlope
					continue
				}
				// Стена кончилась, началась пустота
				blocked = false
				start = newStart
			} else {
				// Мы шли по пустоте и наткнулись на стену
				if fovBlocking(m, X, Y) && j < radius {
					blocked = true
					// Рекурсивно запускаем сканирование следующего ряда
					castLight(m, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy, visibleMap)
					newStart = rSlope
				}
			}
		}
		if blocked {
			break
		}
	}
}

// fovBlocking проверяет, блокирует ли клетка взгляд.
// Выход за границы считается блокирующим.
func fovBlocking(m *domain.Map, x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return m.IsOpaque(x, y)
}
