// Package mapgen - конвейер процедурной генерации уровней.
// Один initial-билдер создает черновик карты, затем цепочка мета-билдеров
// дорабатывает её на месте. Все алгоритмы детерминированы при заданном сиде.
package mapgen

import (
	"deepforge-server/internal/domain"
)

// BuilderMap - общий контекст генерации, передаваемый по цепочке билдеров.
// Живет от начала генерации уровня до извлечения готовой карты и спавн-листа.
type BuilderMap struct {
	Map       *domain.Map
	SpawnList []domain.SpawnRequest

	// StartingPosition == nil, пока стартовую точку никто не выбрал.
	StartingPosition *domain.Position

	// Rooms/Corridors nil, если алгоритм их не производит.
	// Мета-билдер, которому нужны комнаты, обязан проверить наличие
	// и вернуть ошибку, а не молча пройти мимо.
	Rooms     []domain.Rect
	Corridors [][]int

	// История снапшотов для визуализации. Семантической нагрузки не несет:
	// на корректность генерации полагаться на неё нельзя.
	History       []*domain.Map
	EnableHistory bool
}

// NewBuilderMap создает контекст с картой, залитой стенами.
func NewBuilderMap(width, height, depth int, name string) *BuilderMap {
	return &BuilderMap{
		Map:       domain.NewMap(width, height, depth, name),
		SpawnList: make([]domain.SpawnRequest, 0),
		History:   make([]*domain.Map, 0),
	}
}

// TakeSnapshot клонирует карту-как-есть в историю.
// Все клетки снапшота помечаются исследованными, чтобы зритель видел всё.
func (b *BuilderMap) TakeSnapshot() {
	if !b.EnableHistory {
		return
	}
	snapshot := b.Map.Clone()
	snapshot.RevealAll()
	b.History = append(b.History, snapshot)
}

// AddSpawn добавляет заявку на спавн в клетку idx.
func (b *BuilderMap) AddSpawn(idx int, template string) {
	b.SpawnList = append(b.SpawnList, domain.SpawnRequest{Idx: idx, Template: template})
}

// RetainSpawns оставляет только заявки, для которых keep вернул true.
// Используется вольтами: ручной контент не должен засоряться общим спавном.
func (b *BuilderMap) RetainSpawns(keep func(req domain.SpawnRequest) bool) {
	filtered := b.SpawnList[:0]
	for _, req := range b.SpawnList {
		if keep(req) {
			filtered = append(filtered, req)
		}
	}
	b.SpawnList = filtered
}
