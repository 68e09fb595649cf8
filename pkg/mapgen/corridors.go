package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// DoglegCorridors соединяет комнаты попарно в порядке списка простыми
// Г-образными коридорами.
type DoglegCorridors struct{}

func NewDoglegCorridors() *DoglegCorridors { return &DoglegCorridors{} }

func (c *DoglegCorridors) Name() string { return "DoglegCorridors" }

func (c *DoglegCorridors) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	if build.Rooms == nil {
		return ErrNoRooms
	}
	if build.Corridors == nil {
		build.Corridors = make([][]int, 0)
	}

	for i := 1; i < len(build.Rooms); i++ {
		prevX, prevY := build.Rooms[i-1].Center()
		currX, currY := build.Rooms[i].Center()
		corridor := applyDoglegCorridor(rng, build.Map, prevX, prevY, currX, currY)
		build.Corridors = append(build.Corridors, corridor)
		build.TakeSnapshot()
	}
	return nil
}

// NearestCorridors соединяет каждую комнату с ближайшей еще не соединенной:
// дает более естественную сеть, чем цепочка по порядку (BSP-стиль).
type NearestCorridors struct{}

func NewNearestCorridors() *NearestCorridors { return &NearestCorridors{} }

func (c *NearestCorridors) Name() string { return "NearestCorridors" }

func (c *NearestCorridors) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	if build.Rooms == nil {
		return ErrNoRooms
	}
	if build.Corridors == nil {
		build.Corridors = make([][]int, 0)
	}

	connected := make(map[int]bool, len(build.Rooms))
	for i, room := range build.Rooms {
		cx, cy := room.Center()
		center := domain.Position{X: cx, Y: cy}

		// Ближайшая из несоединенных комнат (кроме самой себя)
		nearest := -1
		nearestDist := 0
		for j, other := range build.Rooms {
			if i == j || connected[j] {
				continue
			}
			ox, oy := other.Center()
			d := center.DistanceSquaredTo(domain.Position{X: ox, Y: oy})
			if nearest < 0 || d < nearestDist {
				nearest, nearestDist = j, d
			}
		}

		if nearest >= 0 {
			ox, oy := build.Rooms[nearest].Center()
			corridor := applyDoglegCorridor(rng, build.Map, cx, cy, ox, oy)
			build.Corridors = append(build.Corridors, corridor)
			connected[i] = true
			build.TakeSnapshot()
		}
	}
	return nil
}

// CorridorSpawner добавляет спавн в случайные клетки коридоров.
// Требует, чтобы коридоры были произведены ранее по цепочке.
type CorridorSpawner struct {
	Table *RandomTable
}

func NewCorridorSpawner(table *RandomTable) *CorridorSpawner {
	return &CorridorSpawner{Table: table}
}

func (s *CorridorSpawner) Name() string { return "CorridorSpawner" }

func (s *CorridorSpawner) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	if build.Corridors == nil {
		return ErrNoCorridors
	}
	for _, corridor := range build.Corridors {
		if len(corridor) > 2 {
			spawnRegion(rng, build, corridor, s.Table)
		}
	}
	return nil
}
