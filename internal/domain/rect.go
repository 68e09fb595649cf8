package domain

// Rect - прямоугольная комната. Хранится по значению, неизменяема после создания.
// X2/Y2 включительно: ширина = X2-X1+1.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// NewRect создает Rect из позиции и размера.
func NewRect(x, y, w, h int) Rect {
	return Rect{X1: x, Y1: y, X2: x + w - 1, Y2: y + h - 1}
}

// Center возвращает координаты центра комнаты.
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Intersect проверяет пересечение с другой комнатой.
func (r Rect) Intersect(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 &&
		r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}

// Width возвращает ширину комнаты в тайлах.
func (r Rect) Width() int {
	return r.X2 - r.X1 + 1
}

// Height возвращает высоту комнаты в тайлах.
func (r Rect) Height() int {
	return r.Y2 - r.Y1 + 1
}

// Contains проверяет, лежит ли точка внутри комнаты.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}
