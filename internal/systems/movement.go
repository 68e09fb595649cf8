package systems

import (
	"deepforge-server/internal/domain"
	"deepforge-server/internal/spatial"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	NewPos    domain.Position
	HasMoved  bool
	BlockedBy domain.EntityID // Если уперлись в кого-то (для атаки)
	HasTarget bool
	IsWall    bool // Если уперлись в стену или границу
}

// CalculateMove вычисляет новую позицию через spatial-индекс.
// Не меняет состояние мира!
func CalculateMove(e *domain.Entity, dx, dy int, m *domain.Map, index *spatial.Index) MovementResult {
	targetPos := e.Pos.Shift(dx, dy)
	res := MovementResult{NewPos: targetPos}

	if !m.InBounds(targetPos.X, targetPos.Y) {
		res.IsWall = true
		return res
	}

	targetIdx := m.Idx(targetPos.X, targetPos.Y)
	if index.TerrainBlocked(targetIdx) {
		res.IsWall = true
		return res
	}

	if index.IsBlocked(targetIdx) {
		// Клетка занята телом: ищем, кем именно.
		// Предметы и трупы не блокируют, их пропускаем.
		var blocker domain.EntityID
		var found bool
		index.ForEachOccupant(targetIdx, func(id domain.EntityID, blocks bool) {
			if !found && blocks && id != e.ID {
				blocker, found = id, true
			}
		})
		if found {
			res.BlockedBy = blocker
			res.HasTarget = true
			return res
		}
	}

	res.HasMoved = true
	return res
}

// ApplyMove переносит сущность и инкрементально обновляет индекс.
// Вызывать только после CalculateMove с HasMoved == true.
func ApplyMove(e *domain.Entity, res MovementResult, m *domain.Map, index *spatial.Index) {
	fromIdx := m.Idx(e.Pos.X, e.Pos.Y)
	toIdx := m.Idx(res.NewPos.X, res.NewPos.Y)
	e.Pos = res.NewPos
	index.MoveEntity(e.ID, fromIdx, toIdx)
}
