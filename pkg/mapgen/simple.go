package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// Параметры генерации по умолчанию
const (
	DefaultMaxRooms    = 30
	DefaultMinRoomSize = 6
	DefaultMaxRoomSize = 10
)

// SimpleMapBuilder - классика: случайные непересекающиеся комнаты,
// соединенные Г-образными коридорами. Гарантированно дает играбельный
// уровень, поэтому используется как fallback при сбое других алгоритмов.
type SimpleMapBuilder struct {
	MaxRooms int
	MinSize  int
	MaxSize  int
}

// NewSimpleMapBuilder создает билдер с параметрами по умолчанию.
func NewSimpleMapBuilder() *SimpleMapBuilder {
	return &SimpleMapBuilder{
		MaxRooms: DefaultMaxRooms,
		MinSize:  DefaultMinRoomSize,
		MaxSize:  DefaultMaxRoomSize,
	}
}

func (b *SimpleMapBuilder) Name() string { return "SimpleMapBuilder" }

func (b *SimpleMapBuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map
	build.Rooms = make([]domain.Rect, 0, b.MaxRooms)
	build.Corridors = make([][]int, 0)

	for i := 0; i < b.MaxRooms; i++ {
		w := randRange(rng, b.MinSize, b.MaxSize)
		h := randRange(rng, b.MinSize, b.MaxSize)
		x := randRange(rng, 1, m.Width-w-1)
		y := randRange(rng, 1, m.Height-h-1)

		newRoom := domain.NewRect(x, y, w, h)

		// Отбрасываем комнату при пересечении с уже принятыми
		ok := true
		for _, other := range build.Rooms {
			if newRoom.Intersect(other) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		applyRoomToMap(m, newRoom)

		// Соединяем с предыдущей комнатой
		if len(build.Rooms) > 0 {
			prevX, prevY := build.Rooms[len(build.Rooms)-1].Center()
			currX, currY := newRoom.Center()
			corridor := applyDoglegCorridor(rng, m, prevX, prevY, currX, currY)
			build.Corridors = append(build.Corridors, corridor)
		}

		build.Rooms = append(build.Rooms, newRoom)
		build.TakeSnapshot()
	}

	if len(build.Rooms) == 0 {
		// Теоретически возможно на крошечной карте. Даем одну комнату в центре.
		fallback := domain.NewRect(m.Width/2-2, m.Height/2-2, 5, 5)
		applyRoomToMap(m, fallback)
		build.Rooms = append(build.Rooms, fallback)
		build.TakeSnapshot()
	}

	// Лестница вниз - в центре последней комнаты, старт - в первой.
	lx, ly := build.Rooms[len(build.Rooms)-1].Center()
	m.Tiles[m.Idx(lx, ly)] = domain.TileDownStairs

	sx, sy := build.Rooms[0].Center()
	build.StartingPosition = &domain.Position{X: sx, Y: sy}
	build.TakeSnapshot()

	return nil
}
