package systems

import (
	"github.com/sirupsen/logrus"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

// HasLineOfSight проверяет прямую видимость между двумя точками.
// Использует оптимизированный алгоритм Брезенхэма (только целочисленная арифметика).
func HasLineOfSight(m *domain.Map, p1, p2 domain.Position) bool {
	losLogger := logger.WithComponent("physics_system").WithFields(logrus.Fields{
		"start_pos": p1,
		"end_pos":   p2,
	})

	if p1 == p2 {
		return true
	}

	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}

	sx, sy := p1.DirectionTo(p2)

	err := dx - dy

	for {
		// Препятствия проверяем, ИСКЛЮЧАЯ стартовую и конечную точки
		isStartPoint := x0 == p1.X && y0 == p1.Y
		isEndPoint := x0 == p2.X && y0 == p2.Y

		if !isStartPoint && !isEndPoint {
			if !m.InBounds(x0, y0) {
				losLogger.WithField("blocking_point", map[string]int{"x": x0, "y": y0}).
					Debug("line of sight blocked by map bounds")
				return false
			}
			if m.IsOpaque(x0, y0) {
				losLogger.WithField("blocking_point", map[string]int{"x": x0, "y": y0}).
					Debug("line of sight blocked by opaque tile")
				return false
			}
		}

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

	return true
}
