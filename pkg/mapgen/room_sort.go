package mapgen

import (
	"math/rand"
	"sort"
)

// RoomSort - ключ сортировки комнат.
type RoomSort uint8

const (
	SortLeftmost RoomSort = iota
	SortRightmost
	SortTopmost
	SortBottommost
	SortCentral
)

// RoomSorter переупорядочивает комнаты, задавая топологию последующей
// прокладки коридоров: коридоры соединяют комнаты в порядке списка.
type RoomSorter struct {
	By RoomSort
}

func NewRoomSorter(by RoomSort) *RoomSorter {
	return &RoomSorter{By: by}
}

func (s *RoomSorter) Name() string { return "RoomSorter" }

func (s *RoomSorter) BuildMetaMap(_ *rand.Rand, build *BuilderMap) error {
	if build.Rooms == nil {
		return ErrNoRooms
	}

	rooms := build.Rooms
	switch s.By {
	case SortLeftmost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X1 < rooms[j].X1 })
	case SortRightmost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].X2 > rooms[j].X2 })
	case SortTopmost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].Y1 < rooms[j].Y1 })
	case SortBottommost:
		sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].Y2 > rooms[j].Y2 })
	case SortCentral:
		cx := build.Map.Width / 2
		cy := build.Map.Height / 2
		sort.SliceStable(rooms, func(i, j int) bool {
			ix, iy := rooms[i].Center()
			jx, jy := rooms[j].Center()
			di := abs(ix-cx) + abs(iy-cy)
			dj := abs(jx-cx) + abs(jy-cy)
			return di < dj
		})
	}
	return nil
}
