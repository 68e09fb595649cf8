package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// BSPDungeonBuilder рекурсивно делит карту на вложенные прямоугольники
// (binary space partition) и выдает листья как кандидатов в комнаты.
// Комнаты НЕ рисуются - этим занимается отдельный мета-билдер RoomDrawer,
// чтобы форму комнат можно было менять независимо от разбиения.
type BSPDungeonBuilder struct {
	MinLeafSize int
	// rects - рабочий стек под-прямоугольников текущего разбиения
	rects []domain.Rect
}

func NewBSPDungeonBuilder() *BSPDungeonBuilder {
	return &BSPDungeonBuilder{MinLeafSize: 8}
}

func (b *BSPDungeonBuilder) Name() string { return "BSPDungeonBuilder" }

func (b *BSPDungeonBuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map
	build.Rooms = make([]domain.Rect, 0)

	b.rects = b.rects[:0]
	// Стартовый прямоугольник с отступом от краев карты
	b.rects = append(b.rects, domain.NewRect(1, 1, m.Width-3, m.Height-3))
	first := b.rects[0]
	b.addSubRects(first)

	// Берем случайные прямоугольники из накопленного разбиения,
	// пытаемся разместить комнату в каждом; успехи дробим дальше.
	nRooms := 0
	for nRooms < 240 && len(b.rects) > 0 {
		rect := b.rects[rng.Intn(len(b.rects))]
		candidate := b.getRandomSubRect(rng, rect)

		if b.isPossible(candidate, m, build.Rooms) {
			build.Rooms = append(build.Rooms, candidate)
			b.addSubRects(rect)
			build.TakeSnapshot()
		}
		nRooms++
	}

	if len(build.Rooms) == 0 {
		fallback := domain.NewRect(m.Width/2-3, m.Height/2-3, 6, 6)
		build.Rooms = append(build.Rooms, fallback)
	}

	return nil
}

// addSubRects делит прямоугольник на четыре квадранта и кладет их в стек.
func (b *BSPDungeonBuilder) addSubRects(rect domain.Rect) {
	width := rect.Width()
	height := rect.Height()
	halfW := max(width/2, 1)
	halfH := max(height/2, 1)

	if halfW < b.MinLeafSize/2 || halfH < b.MinLeafSize/2 {
		return
	}

	b.rects = append(b.rects,
		domain.NewRect(rect.X1, rect.Y1, halfW, halfH),
		domain.NewRect(rect.X1, rect.Y1+halfH, halfW, halfH),
		domain.NewRect(rect.X1+halfW, rect.Y1, halfW, halfH),
		domain.NewRect(rect.X1+halfW, rect.Y1+halfH, halfW, halfH),
	)
}

// getRandomSubRect выбирает случайную комнату внутри прямоугольника.
func (b *BSPDungeonBuilder) getRandomSubRect(rng *rand.Rand, rect domain.Rect) domain.Rect {
	w := max(3, randRange(rng, 1, min(rect.Width(), 10))) + 1
	h := max(3, randRange(rng, 1, min(rect.Height(), 10))) + 1

	x := rect.X1 + randRange(rng, 0, 6) - 1
	y := rect.Y1 + randRange(rng, 0, 6) - 1

	return domain.Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// isPossible проверяет, что комната (с однотайловым зазором) лежит
// в границах карты и не задевает существующие комнаты.
func (b *BSPDungeonBuilder) isPossible(rect domain.Rect, m *domain.Map, rooms []domain.Rect) bool {
	expanded := domain.Rect{X1: rect.X1 - 2, Y1: rect.Y1 - 2, X2: rect.X2 + 2, Y2: rect.Y2 + 2}

	if expanded.X1 < 1 || expanded.Y1 < 1 || expanded.X2 > m.Width-2 || expanded.Y2 > m.Height-2 {
		return false
	}
	for _, other := range rooms {
		if expanded.Intersect(other) {
			return false
		}
	}
	return true
}
