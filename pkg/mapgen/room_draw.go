package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// RoomDrawer растеризует список комнат на карту. Требует, чтобы комнаты
// были произведены ранее по цепочке - иначе цепочка собрана неверно.
type RoomDrawer struct {
	// CirclePercent - шанс нарисовать комнату кругом вместо прямоугольника
	CirclePercent int
}

func NewRoomDrawer() *RoomDrawer {
	return &RoomDrawer{CirclePercent: 25}
}

func (d *RoomDrawer) Name() string { return "RoomDrawer" }

func (d *RoomDrawer) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	if build.Rooms == nil {
		return ErrNoRooms
	}

	for _, room := range build.Rooms {
		if rng.Intn(100) < d.CirclePercent {
			d.drawCircular(build.Map, room)
		} else {
			applyRoomToMap(build.Map, room)
		}
		build.TakeSnapshot()
	}
	return nil
}

// drawCircular вписывает круг в комнату: радиус = min(w,h)/2,
// клетка попадает в пол при расстоянии до центра <= радиуса.
func (d *RoomDrawer) drawCircular(m *domain.Map, room domain.Rect) {
	cx, cy := room.Center()
	center := domain.Position{X: cx, Y: cy}
	radius := float64(min(room.Width(), room.Height())) / 2.0

	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			if !m.InBounds(x, y) {
				continue
			}
			p := domain.Position{X: x, Y: y}
			if p.DistanceTo(center) <= radius {
				m.Tiles[m.Idx(x, y)] = domain.TileFloor
			}
		}
	}
}
