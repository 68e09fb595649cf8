package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// Стороны клетки лабиринта
const (
	mazeTop = iota
	mazeRight
	mazeBottom
	mazeLeft
)

// MazeBuilder строит идеальный лабиринт рекурсивным выкапыванием
// (randomized DFS с явным стеком). Работает на логической сетке половинного
// разрешения; каждая логическая клетка знает свои четыре стены.
// Связность гарантирована построением: DFS посещает все клетки.
type MazeBuilder struct{}

func NewMazeBuilder() *MazeBuilder { return &MazeBuilder{} }

func (b *MazeBuilder) Name() string { return "MazeBuilder" }

func (b *MazeBuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map

	grid := newMazeGrid((m.Width/2)-2, (m.Height/2)-2)
	grid.generate(rng, build)

	// Старт - центр первой логической клетки
	build.StartingPosition = &domain.Position{X: 1, Y: 1}

	// Выход - самая дальняя от старта клетка
	field := DistanceField(m, m.Idx(1, 1))
	if exit := FarthestTile(field); exit >= 0 {
		m.Tiles[exit] = domain.TileDownStairs
	}
	build.TakeSnapshot()

	return nil
}

// mazeCell - одна логическая клетка. Клетки лежат в плоском массиве арены,
// соседи адресуются индексами: две клетки мутируются двумя независимыми
// записями по индексу, без алиасинга указателей.
type mazeCell struct {
	walls   [4]bool
	visited bool
}

type mazeGrid struct {
	width, height int
	cells         []mazeCell
	backtrace     []int
	current       int
}

func newMazeGrid(width, height int) *mazeGrid {
	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}
	g := &mazeGrid{
		width:  width,
		height: height,
		cells:  make([]mazeCell, width*height),
	}
	for i := range g.cells {
		g.cells[i].walls = [4]bool{true, true, true, true}
	}
	return g
}

func (g *mazeGrid) cellIdx(row, col int) int {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return -1
	}
	return row*g.width + col
}

// unvisitedNeighbors возвращает индексы непосещенных соседей клетки.
func (g *mazeGrid) unvisitedNeighbors(idx int) []int {
	row, col := idx/g.width, idx%g.width
	var result []int
	for _, n := range [4]int{
		g.cellIdx(row-1, col),
		g.cellIdx(row, col+1),
		g.cellIdx(row+1, col),
		g.cellIdx(row, col-1),
	} {
		if n >= 0 && !g.cells[n].visited {
			result = append(result, n)
		}
	}
	return result
}

// removeWalls убирает общую стену между двумя клетками.
// Две записи по разным индексам одного массива, последовательно.
func (g *mazeGrid) removeWalls(current, next int) {
	cRow, cCol := current/g.width, current%g.width
	nRow, nCol := next/g.width, next%g.width

	switch {
	case nCol == cCol-1: // сосед слева
		g.cells[current].walls[mazeLeft] = false
		g.cells[next].walls[mazeRight] = false
	case nCol == cCol+1: // справа
		g.cells[current].walls[mazeRight] = false
		g.cells[next].walls[mazeLeft] = false
	case nRow == cRow-1: // сверху
		g.cells[current].walls[mazeTop] = false
		g.cells[next].walls[mazeBottom] = false
	case nRow == cRow+1: // снизу
		g.cells[current].walls[mazeBottom] = false
		g.cells[next].walls[mazeTop] = false
	}
}

// generate - randomized DFS: идем в случайного непосещенного соседа,
// снося стену; в тупике откатываемся по явному стеку.
func (g *mazeGrid) generate(rng *rand.Rand, build *BuilderMap) {
	g.cells[g.current].visited = true
	steps := 0

	for {
		neighbors := g.unvisitedNeighbors(g.current)
		if len(neighbors) > 0 {
			next := neighbors[rng.Intn(len(neighbors))]
			g.cells[next].visited = true
			g.backtrace = append(g.backtrace, g.current)
			g.removeWalls(g.current, next)
			g.current = next
		} else if len(g.backtrace) > 0 {
			g.current = g.backtrace[len(g.backtrace)-1]
			g.backtrace = g.backtrace[:len(g.backtrace)-1]
		} else {
			break
		}

		// Снапшот каждые 50 шагов, чтобы история не разрасталась
		steps++
		if steps%50 == 0 {
			g.copyToMap(build.Map)
			build.TakeSnapshot()
		}
	}

	g.copyToMap(build.Map)
}

// copyToMap разворачивает сетку половинного разрешения в тайлы 2x:
// центр клетки - пол, снесенные стены - пол в соответствующую сторону.
func (g *mazeGrid) copyToMap(m *domain.Map) {
	for i := range m.Tiles {
		m.Tiles[i] = domain.TileWall
	}

	for i := range g.cells {
		row, col := i/g.width, i%g.width
		x, y := col*2+1, row*2+1
		if !m.InBounds(x, y) {
			continue
		}

		cell := &g.cells[i]
		m.Tiles[m.Idx(x, y)] = domain.TileFloor
		if !cell.walls[mazeTop] && m.InBounds(x, y-1) {
			m.Tiles[m.Idx(x, y-1)] = domain.TileFloor
		}
		if !cell.walls[mazeRight] && m.InBounds(x+1, y) {
			m.Tiles[m.Idx(x+1, y)] = domain.TileFloor
		}
		if !cell.walls[mazeBottom] && m.InBounds(x, y+1) {
			m.Tiles[m.Idx(x, y+1)] = domain.TileFloor
		}
		if !cell.walls[mazeLeft] && m.InBounds(x-1, y) {
			m.Tiles[m.Idx(x-1, y)] = domain.TileFloor
		}
	}
}
