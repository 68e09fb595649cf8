package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы кадров
const (
	FrameSnapshot = "SNAPSHOT" // промежуточный шаг генерации
	FrameLevel    = "LEVEL"    // актуальное состояние уровня
	FrameError    = "ERROR"
)

// MapFrame - корневой объект, который сервер отправляет клиенту.
// Для SNAPSHOT это один шаг генерации карты, для LEVEL - полный
// снимок текущего уровня вместе с сущностями.
type MapFrame struct {
	Type string `json:"type"`

	// Seq монотонно растет в пределах сессии. Клиент отбрасывает
	// кадры с Seq меньше уже отрисованного.
	Seq int `json:"seq"`

	// Stage - порядковый номер шага генерации (только для SNAPSHOT).
	Stage int `json:"stage,omitempty"`

	Depth int `json:"depth,omitempty"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map срез всех видимых и/или исследованных тайлов.
	Map []TileView `json:"map,omitempty"`

	// Entities срез всех живых сущностей (только для LEVEL).
	Entities []EntityView `json:"entities,omitempty"`

	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// TileView это DTO для одного тайла карты.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Symbol и Color - визуальное представление тайла (e.g. "#" для стены).
	Symbol string `json:"symbol"`
	Color  string `json:"color"`

	// IsWall true, если тайл является непроходимым препятствием.
	IsWall bool `json:"isWall"`

	// IsVisible true, если тайл находится в текущем поле зрения. Рендерится ярко.
	IsVisible bool `json:"isVisible"`

	// IsExplored true, если тайл когда-либо был увиден. Используется для "тумана войны".
	// Если IsVisible=false, а IsExplored=true, рендерится тускло.
	IsExplored bool `json:"isExplored"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID   string `json:"id"`
	Type string `json:"type"` // PLAYER, ENEMY, ITEM, PROP
	Name string `json:"name"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	Render struct {
		Symbol string `json:"symbol"`
		Color  string `json:"color"`
	} `json:"render"`

	// Stats может отсутствовать: у предметов и реквизита статов нет.
	Stats *StatsView `json:"stats,omitempty"`
}

// StatsView это DTO для характеристик сущности.
type StatsView struct {
	HP       int  `json:"hp"`
	MaxHP    int  `json:"maxHp"`
	Strength int  `json:"strength,omitempty"`
	IsDead   bool `json:"isDead"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// Действия клиента
const (
	ActionGenerate = "GENERATE"
	ActionMove     = "MOVE"
	ActionWatch    = "WATCH"
)

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// GeneratePayload - параметры пересборки уровня (GENERATE).
// Нулевой Seed означает "возьми случайный".
type GeneratePayload struct {
	Seed    int64 `json:"seed,omitempty"`
	Depth   int   `json:"depth,omitempty"`
	History bool  `json:"history,omitempty"`
}

// DirectionPayload используется для действий, связанных с направлением (MOVE).
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}
