package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// BSPInteriorBuilder строит "интерьер здания": разбиение заполняет карту
// целиком, без промежутков между комнатами. Комнаты вырезаются сразу,
// соседние соединяются дверными проходами.
type BSPInteriorBuilder struct {
	MinRoomSize int
	rects       []domain.Rect
}

func NewBSPInteriorBuilder() *BSPInteriorBuilder {
	return &BSPInteriorBuilder{MinRoomSize: 8}
}

func (b *BSPInteriorBuilder) Name() string { return "BSPInteriorBuilder" }

func (b *BSPInteriorBuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map
	build.Rooms = make([]domain.Rect, 0)
	build.Corridors = make([][]int, 0)

	b.rects = b.rects[:0]
	b.rects = append(b.rects, domain.NewRect(1, 1, m.Width-2, m.Height-2))
	first := b.rects[0]
	b.addSubRects(rng, first)

	for _, room := range b.rects {
		build.Rooms = append(build.Rooms, room)
		// Вырезаем комнату, оставляя стену по правому/нижнему краю раздела
		for y := room.Y1; y < room.Y2; y++ {
			for x := room.X1; x < room.X2; x++ {
				if m.InBounds(x, y) {
					m.Tiles[m.Idx(x, y)] = domain.TileFloor
				}
			}
		}
		build.TakeSnapshot()
	}

	// Дверные проходы между последовательными комнатами
	for i := 0; i < len(build.Rooms)-1; i++ {
		room := build.Rooms[i]
		next := build.Rooms[i+1]
		startX := room.X1 + randRange(rng, 1, max(1, room.Width()-2))
		startY := room.Y1 + randRange(rng, 1, max(1, room.Height()-2))
		endX := next.X1 + randRange(rng, 1, max(1, next.Width()-2))
		endY := next.Y1 + randRange(rng, 1, max(1, next.Height()-2))
		corridor := applyDoglegCorridor(rng, m, startX, startY, endX, endY)
		build.Corridors = append(build.Corridors, corridor)
		build.TakeSnapshot()
	}

	// Старт в первой комнате, лестница в последней
	sx, sy := build.Rooms[0].Center()
	build.StartingPosition = &domain.Position{X: sx, Y: sy}
	lx, ly := build.Rooms[len(build.Rooms)-1].Center()
	m.Tiles[m.Idx(lx, ly)] = domain.TileDownStairs

	return nil
}

// addSubRects рекурсивно режет прямоугольник пополам (чередуя оси)
// до минимального размера комнаты.
func (b *BSPInteriorBuilder) addSubRects(rng *rand.Rand, rect domain.Rect) {
	// Удаляем родителя: он заменяется детьми
	if len(b.rects) > 0 {
		b.rects = b.rects[:len(b.rects)-1]
	}

	width := rect.Width()
	height := rect.Height()
	halfW := width / 2
	halfH := height / 2

	split := rng.Intn(4)

	if split <= 1 {
		// Вертикальный раздел
		h1 := domain.Rect{X1: rect.X1, Y1: rect.Y1, X2: rect.X1 + halfW - 1, Y2: rect.Y2}
		b.rects = append(b.rects, h1)
		if halfW > b.MinRoomSize {
			b.addSubRects(rng, h1)
		}
		h2 := domain.Rect{X1: rect.X1 + halfW, Y1: rect.Y1, X2: rect.X2, Y2: rect.Y2}
		b.rects = append(b.rects, h2)
		if halfW > b.MinRoomSize {
			b.addSubRects(rng, h2)
		}
	} else {
		// Горизонтальный раздел
		v1 := domain.Rect{X1: rect.X1, Y1: rect.Y1, X2: rect.X2, Y2: rect.Y1 + halfH - 1}
		b.rects = append(b.rects, v1)
		if halfH > b.MinRoomSize {
			b.addSubRects(rng, v1)
		}
		v2 := domain.Rect{X1: rect.X1, Y1: rect.Y1 + halfH, X2: rect.X2, Y2: rect.Y2}
		b.rects = append(b.rects, v2)
		if halfH > b.MinRoomSize {
			b.addSubRects(rng, v2)
		}
	}
}
