package domain

// TileType определяет тип ландшафта одной клетки карты.
type TileType uint8

const (
	TileWall TileType = iota
	TileFloor
	TileDownStairs
	TileUpStairs
	TileShallowWater
	TileDeepWater
	TileRoad
	TileGrass
	TileTree
	TileGravel
)

// IsWalkable возвращает true, если по тайлу можно ходить.
// Глубокая вода и деревья непроходимы так же, как и стены.
func (t TileType) IsWalkable() bool {
	switch t {
	case TileWall, TileDeepWater, TileTree:
		return false
	default:
		return true
	}
}

// IsOpaque возвращает true, если тайл блокирует линию зрения.
func (t TileType) IsOpaque() bool {
	return t == TileWall || t == TileTree
}

// Glyph возвращает символ для отладочного ASCII-вывода.
func (t TileType) Glyph() byte {
	switch t {
	case TileWall:
		return '#'
	case TileFloor:
		return '.'
	case TileDownStairs:
		return '>'
	case TileUpStairs:
		return '<'
	case TileShallowWater:
		return '~'
	case TileDeepWater:
		return 'w'
	case TileRoad:
		return '='
	case TileGrass:
		return '"'
	case TileTree:
		return 'T'
	case TileGravel:
		return ';'
	default:
		return '?'
	}
}

func (t TileType) String() string {
	switch t {
	case TileWall:
		return "WALL"
	case TileFloor:
		return "FLOOR"
	case TileDownStairs:
		return "DOWN_STAIRS"
	case TileUpStairs:
		return "UP_STAIRS"
	case TileShallowWater:
		return "SHALLOW_WATER"
	case TileDeepWater:
		return "DEEP_WATER"
	case TileRoad:
		return "ROAD"
	case TileGrass:
		return "GRASS"
	case TileTree:
		return "TREE"
	case TileGravel:
		return "GRAVEL"
	default:
		return "UNKNOWN"
	}
}
