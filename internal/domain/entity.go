package domain

// --- КОМПОНЕНТЫ ---

// RenderComponent - Визуализация (Клиент)
type RenderComponent struct {
	Symbol byte   `json:"symbol"` // Символ отображения (g-гоблин, !-зелье)
	Color  string `json:"color"`
}

// StatsComponent - Характеристики и Ресурсы
type StatsComponent struct {
	HP       int  `json:"hp"`
	MaxHP    int  `json:"maxHp"`
	Strength int  `json:"strength"`
	IsDead   bool `json:"isDead"`
}

// PhysicsComponent описывает, как тело взаимодействует с клеткой.
// BlocksTile - занимает ли сущность клетку целиком (монстры - да, предметы - нет).
type PhysicsComponent struct {
	BlocksTile bool `json:"blocksTile"`
}

// NarrativeComponent - Данные для осмотра
type NarrativeComponent struct {
	Description string `json:"description"`
}

// --- СУЩНОСТЬ ---

// Entity - игровая сущность. Spatial-индекс знает о ней только ID и флаг
// BlocksTile; всё остальное - дело систем.
type Entity struct {
	ID   EntityID `json:"id"`
	Type string   `json:"type"`
	Name string   `json:"name"`

	Pos Position `json:"pos"`

	// Компоненты (Если nil - значит свойство отсутствует)
	Render    *RenderComponent    `json:"render,omitempty"`
	Stats     *StatsComponent     `json:"stats,omitempty"`
	Physics   *PhysicsComponent   `json:"physics,omitempty"`
	Narrative *NarrativeComponent `json:"narrative,omitempty"`
}

// BlocksTile возвращает true, если сущность занимает клетку целиком.
// Мертвые тела перестают блокировать проход.
func (e *Entity) BlocksTile() bool {
	if e.Stats != nil && e.Stats.IsDead {
		return false
	}
	return e.Physics != nil && e.Physics.BlocksTile
}

// IsAlive возвращает true для живых существ и для сущностей без Stats
// (предметы и лестницы "живы" всегда).
func (e *Entity) IsAlive() bool {
	return e.Stats == nil || !e.Stats.IsDead
}
