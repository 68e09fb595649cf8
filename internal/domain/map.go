package domain

import "fmt"

// Map - карта одного уровня. Тайлы хранятся плоским массивом,
// индекс клетки (x,y) = y*Width + x. Параллельные массивы Revealed/Visible
// всегда имеют ровно Width*Height элементов.
type Map struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Depth  int    `json:"depth"`
	Name   string `json:"name"`

	Tiles    []TileType `json:"tiles"`
	Revealed []bool     `json:"revealed"`
	Visible  []bool     `json:"visible"`
}

// NewMap создает карту, полностью залитую стенами.
func NewMap(width, height, depth int, name string) *Map {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("invalid map size %dx%d", width, height))
	}
	size := width * height
	m := &Map{
		Width:    width,
		Height:   height,
		Depth:    depth,
		Name:     name,
		Tiles:    make([]TileType, size),
		Revealed: make([]bool, size),
		Visible:  make([]bool, size),
	}
	for i := range m.Tiles {
		m.Tiles[i] = TileWall
	}
	return m
}

// Idx переводит координаты в индекс плоского массива.
// Координаты должны быть валидны (см. InBounds).
func (m *Map) Idx(x, y int) int {
	return y*m.Width + x
}

// XY обратное преобразование: индекс -> координаты.
func (m *Map) XY(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

// InBounds проверяет, что координата лежит внутри карты.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// IdxChecked - вариант Idx для внешнего ввода: валидирует координаты.
func (m *Map) IdxChecked(x, y int) (int, error) {
	if !m.InBounds(x, y) {
		return 0, fmt.Errorf("coordinate (%d,%d) out of bounds %dx%d", x, y, m.Width, m.Height)
	}
	return m.Idx(x, y), nil
}

// IsWalkable возвращает true, если по клетке можно ходить (только ландшафт,
// без учёта сущностей - их учитывает spatial.Index).
func (m *Map) IsWalkable(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.Tiles[m.Idx(x, y)].IsWalkable()
}

// IsOpaque возвращает true, если клетка блокирует взгляд.
// Выход за границы считается блокирующим.
func (m *Map) IsOpaque(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return m.Tiles[m.Idx(x, y)].IsOpaque()
}

// Clone возвращает глубокую копию карты.
// Используется историей снапшотов генератора.
func (m *Map) Clone() *Map {
	clone := &Map{
		Width:    m.Width,
		Height:   m.Height,
		Depth:    m.Depth,
		Name:     m.Name,
		Tiles:    make([]TileType, len(m.Tiles)),
		Revealed: make([]bool, len(m.Revealed)),
		Visible:  make([]bool, len(m.Visible)),
	}
	copy(clone.Tiles, m.Tiles)
	copy(clone.Revealed, m.Revealed)
	copy(clone.Visible, m.Visible)
	return clone
}

// RevealAll помечает все клетки исследованными.
// Нужно для снапшотов визуализации - они показываются целиком.
func (m *Map) RevealAll() {
	for i := range m.Revealed {
		m.Revealed[i] = true
	}
}

// ClearVisible сбрасывает флаги видимости перед пересчетом FOV.
func (m *Map) ClearVisible() {
	for i := range m.Visible {
		m.Visible[i] = false
	}
}

// CountTiles возвращает количество тайлов заданного типа.
func (m *Map) CountTiles(t TileType) int {
	n := 0
	for _, tile := range m.Tiles {
		if tile == t {
			n++
		}
	}
	return n
}
