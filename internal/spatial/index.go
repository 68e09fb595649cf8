// Package spatial содержит индекс занятости клеток карты.
// Индекс - единственная разделяемая мутабельная структура ядра:
// его читают и пишут разные системы, поэтому все операции под одним мьютексом.
package spatial

import (
	"sync"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

// occupant - одна запись "кто стоит в клетке".
type occupant struct {
	ID     domain.EntityID
	Blocks bool
}

// blockedPair - флаги блокировки клетки.
// EntityBlocked всегда должен равняться OR(Blocks) по всем occupant'ам клетки.
type blockedPair struct {
	Terrain bool
	Entity  bool
}

// Index - индекс занятости. Один экземпляр на активный уровень;
// при смене уровня вызывается Resize. Никогда не сериализуется:
// после загрузки уровня индекс строится заново полным Rebuild.
type Index struct {
	mu      sync.Mutex
	blocked []blockedPair
	content [][]occupant
}

// NewIndex создает индекс на cellCount клеток.
func NewIndex(cellCount int) *Index {
	idx := &Index{}
	idx.Resize(cellCount)
	return idx
}

// Resize заменяет хранилище на cellCount пустых записей.
// Все прежние данные о занятости теряются.
func (s *Index) Resize(cellCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked = make([]blockedPair, cellCount)
	s.content = make([][]occupant, cellCount)
}

// Clear сбрасывает флаги и списки occupant'ов, не меняя размер.
// Вызывается в начале каждого полного прохода индексации.
func (s *Index) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blocked {
		s.blocked[i] = blockedPair{}
		// Переиспользуем память списков, не отдавая её аллокатору
		s.content[i] = s.content[i][:0]
	}
}

// Len возвращает количество клеток в индексе.
func (s *Index) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blocked)
}

// SetTerrainBlocked проставляет флаги ландшафта из карты.
// Флаги занятости сущностями не трогает.
func (s *Index) SetTerrainBlocked(m *domain.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tile := range m.Tiles {
		if i >= len(s.blocked) {
			break
		}
		s.blocked[i].Terrain = !tile.IsWalkable()
	}
}

// IndexEntity добавляет запись о сущности в клетку. Операция только
// добавляет: в полном проходе ей должен предшествовать Clear,
// иначе появятся дубликаты.
func (s *Index) IndexEntity(id domain.EntityID, cellIdx int, blocksTile bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validIdx(cellIdx, "IndexEntity") {
		return
	}
	s.content[cellIdx] = append(s.content[cellIdx], occupant{ID: id, Blocks: blocksTile})
	if blocksTile {
		s.blocked[cellIdx].Entity = true
	}
}

// IsBlocked возвращает true, если клетка занята ландшафтом ИЛИ сущностью.
// Выход за пределы индекса считается заблокированным.
func (s *Index) IsBlocked(cellIdx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cellIdx < 0 || cellIdx >= len(s.blocked) {
		return true
	}
	b := s.blocked[cellIdx]
	return b.Terrain || b.Entity
}

// TerrainBlocked возвращает только флаг ландшафта.
func (s *Index) TerrainBlocked(cellIdx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cellIdx < 0 || cellIdx >= len(s.blocked) {
		return true
	}
	return s.blocked[cellIdx].Terrain
}

// ForEachOccupant вызывает visitor для каждой сущности в клетке.
// Список копируется под замком, visitor исполняется без замка:
// замок никогда не удерживается на время пользовательского цикла.
func (s *Index) ForEachOccupant(cellIdx int, visit func(id domain.EntityID, blocks bool)) {
	snapshot := s.snapshotCell(cellIdx)
	for _, occ := range snapshot {
		visit(occ.ID, occ.Blocks)
	}
}

// ForEachOccupantUntil обходит occupant'ов до первого, для которого visitor
// вернул true. Возвращает этот ID и true; если никто не подошел - нулевой ID
// и false (значение по умолчанию задает вызывающая сторона).
func (s *Index) ForEachOccupantUntil(cellIdx int, visit func(id domain.EntityID) bool) (domain.EntityID, bool) {
	snapshot := s.snapshotCell(cellIdx)
	for _, occ := range snapshot {
		if visit(occ.ID) {
			return occ.ID, true
		}
	}
	return 0, false
}

// MoveEntity атомарно переносит запись сущности из from в to.
// Флаги занятости ОБОИХ клеток пересчитываются по оставшимся спискам:
// в клетке могло быть несколько блокирующих тел, поэтому просто
// "снять флаг у from" было бы неверно.
func (s *Index) MoveEntity(id domain.EntityID, fromIdx, toIdx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validIdx(fromIdx, "MoveEntity.from") || !s.validIdx(toIdx, "MoveEntity.to") {
		return
	}

	moved, blocks := s.removeLocked(id, fromIdx)
	if !moved {
		// Рассинхрон индекса и позиций. В бою не падаем, но сообщаем.
		logger.Log.WithField("entity_id", id).WithField("from", fromIdx).
			Debug("spatial: MoveEntity - entity not found at source cell")
		return
	}

	s.content[toIdx] = append(s.content[toIdx], occupant{ID: id, Blocks: blocks})
	s.recomputeLocked(fromIdx)
	s.recomputeLocked(toIdx)
}

// RemoveEntity удаляет запись сущности из клетки (смерть, телепорт)
// и пересчитывает флаг занятости, чтобы клетка освободилась немедленно,
// не дожидаясь полной переиндексации.
func (s *Index) RemoveEntity(id domain.EntityID, cellIdx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validIdx(cellIdx, "RemoveEntity") {
		return
	}
	removed, _ := s.removeLocked(id, cellIdx)
	if !removed {
		logger.Log.WithField("entity_id", id).WithField("cell", cellIdx).
			Debug("spatial: RemoveEntity - entity not found at cell")
		return
	}
	s.recomputeLocked(cellIdx)
}

// Rebuild - полный проход индексации: Clear + ландшафт + все живые сущности.
// Вызывается один раз за тик ДО систем движения/AI. Мертвые сущности
// не индексируются: труп не должен блокировать свою клетку.
func (s *Index) Rebuild(m *domain.Map, entities []*domain.Entity) {
	s.Clear()
	s.SetTerrainBlocked(m)
	for _, e := range entities {
		if e.Stats != nil && e.Stats.IsDead {
			continue
		}
		if !m.InBounds(e.Pos.X, e.Pos.Y) {
			logger.Log.WithField("entity_id", e.ID).WithField("pos", e.Pos).
				Warn("spatial: Rebuild - entity outside the map, skipped")
			continue
		}
		s.IndexEntity(e.ID, m.Idx(e.Pos.X, e.Pos.Y), e.BlocksTile())
	}
}

// --- internals (вызываются только под замком) ---

func (s *Index) snapshotCell(cellIdx int) []occupant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cellIdx < 0 || cellIdx >= len(s.content) {
		return nil
	}
	cell := s.content[cellIdx]
	if len(cell) == 0 {
		return nil
	}
	snapshot := make([]occupant, len(cell))
	copy(snapshot, cell)
	return snapshot
}

// removeLocked удаляет запись через retain: отсутствие записи - no-op.
func (s *Index) removeLocked(id domain.EntityID, cellIdx int) (bool, bool) {
	cell := s.content[cellIdx]
	for i, occ := range cell {
		if occ.ID == id {
			s.content[cellIdx] = append(cell[:i], cell[i+1:]...)
			return true, occ.Blocks
		}
	}
	return false, false
}

// recomputeLocked восстанавливает инвариант: Entity == OR(Blocks) по клетке.
func (s *Index) recomputeLocked(cellIdx int) {
	entityBlocked := false
	for _, occ := range s.content[cellIdx] {
		if occ.Blocks {
			entityBlocked = true
			break
		}
	}
	s.blocked[cellIdx].Entity = entityBlocked
}

func (s *Index) validIdx(cellIdx int, op string) bool {
	if cellIdx < 0 || cellIdx >= len(s.blocked) {
		logger.Log.WithField("cell", cellIdx).WithField("op", op).
			Warn("spatial: cell index out of range")
		return false
	}
	return true
}
