package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

// Направления соседства чанков
const (
	wfcNorth = iota
	wfcSouth
	wfcWest
	wfcEast
)

var wfcOpposite = [4]int{wfcSouth, wfcNorth, wfcEast, wfcWest}

// wfcPattern - квадратный чанк KxK, вырезанный из исходной карты.
type wfcPattern struct {
	size  int
	tiles []domain.TileType
}

func (p wfcPattern) at(x, y int) domain.TileType {
	return p.tiles[y*p.size+x]
}

// edge возвращает ряд клеток вдоль указанной стороны.
func (p wfcPattern) edge(dir int) []domain.TileType {
	out := make([]domain.TileType, p.size)
	for i := 0; i < p.size; i++ {
		switch dir {
		case wfcNorth:
			out[i] = p.at(i, 0)
		case wfcSouth:
			out[i] = p.at(i, p.size-1)
		case wfcWest:
			out[i] = p.at(0, i)
		case wfcEast:
			out[i] = p.at(p.size-1, i)
		}
	}
	return out
}

func (p wfcPattern) key() string {
	b := make([]byte, len(p.tiles))
	for i, t := range p.tiles {
		b[i] = byte(t)
	}
	return string(b)
}

func (p wfcPattern) mirrorHorizontal() wfcPattern {
	out := wfcPattern{size: p.size, tiles: make([]domain.TileType, len(p.tiles))}
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			out.tiles[y*p.size+x] = p.at(p.size-1-x, y)
		}
	}
	return out
}

func (p wfcPattern) mirrorVertical() wfcPattern {
	out := wfcPattern{size: p.size, tiles: make([]domain.TileType, len(p.tiles))}
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			out.tiles[y*p.size+x] = p.at(x, p.size-1-y)
		}
	}
	return out
}

// samplePatterns нарезает карту на непересекающиеся чанки KxK.
// Повторяющиеся чанки схлопываются, их кратность становится весом.
func samplePatterns(m *domain.Map, size int, mirrors bool) ([]wfcPattern, []int) {
	seen := make(map[string]int)
	var patterns []wfcPattern
	var weights []int

	add := func(p wfcPattern) {
		k := p.key()
		if i, ok := seen[k]; ok {
			weights[i]++
			return
		}
		seen[k] = len(patterns)
		patterns = append(patterns, p)
		weights = append(weights, 1)
	}

	for cy := 0; cy+size <= m.Height; cy += size {
		for cx := 0; cx+size <= m.Width; cx += size {
			p := wfcPattern{size: size, tiles: make([]domain.TileType, size*size)}
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					p.tiles[y*size+x] = m.Tiles[m.Idx(cx+x, cy+y)]
				}
			}
			add(p)
			if mirrors {
				add(p.mirrorHorizontal())
				add(p.mirrorVertical())
			}
		}
	}
	return patterns, weights
}

// edgesCompatible сравнивает профили проходимости соприкасающихся сторон.
// Выходы из чанков обязаны совпадать, иначе коридоры упрутся в стену.
func edgesCompatible(a, b []domain.TileType) bool {
	for i := range a {
		if a[i].IsWalkable() != b[i].IsWalkable() {
			return false
		}
	}
	return true
}

// buildAdjacency строит таблицу допустимых соседей по четырем направлениям.
func buildAdjacency(patterns []wfcPattern) [][4][]int {
	adj := make([][4][]int, len(patterns))
	for i := range patterns {
		for dir := 0; dir < 4; dir++ {
			edgeI := patterns[i].edge(dir)
			for j := range patterns {
				if edgesCompatible(edgeI, patterns[j].edge(wfcOpposite[dir])) {
					adj[i][dir] = append(adj[i][dir], j)
				}
			}
		}
	}
	return adj
}

// wfcSolver раскладывает паттерны по сетке чанков методом
// коллапса волновой функции с распространением ограничений.
type wfcSolver struct {
	nPatterns int
	weights   []int
	adjacency [][4][]int
	outW      int
	outH      int

	possible  [][]bool
	remaining []int
}

var errWFCContradiction = fmt.Errorf("wave function collapse: contradiction")

func newWFCSolver(nPatterns int, weights []int, adjacency [][4][]int, outW, outH int) *wfcSolver {
	s := &wfcSolver{
		nPatterns: nPatterns,
		weights:   weights,
		adjacency: adjacency,
		outW:      outW,
		outH:      outH,
		possible:  make([][]bool, outW*outH),
		remaining: make([]int, outW*outH),
	}
	for i := range s.possible {
		s.possible[i] = make([]bool, nPatterns)
		for j := range s.possible[i] {
			s.possible[i][j] = true
		}
		s.remaining[i] = nPatterns
	}
	return s
}

// run возвращает выбранный паттерн для каждой ячейки сетки чанков
// либо errWFCContradiction, если ограничения несовместимы.
func (s *wfcSolver) run(rng *rand.Rand) ([]int, error) {
	for {
		cell := s.lowestEntropyCell(rng)
		if cell < 0 {
			break
		}
		pattern := s.weightedPick(rng, cell)
		for j := 0; j < s.nPatterns; j++ {
			s.possible[cell][j] = j == pattern
		}
		s.remaining[cell] = 1
		if err := s.propagate(cell); err != nil {
			return nil, err
		}
	}

	out := make([]int, len(s.possible))
	for i, opts := range s.possible {
		for j, ok := range opts {
			if ok {
				out[i] = j
				break
			}
		}
	}
	return out, nil
}

// lowestEntropyCell выбирает нерешенную ячейку с минимумом вариантов.
// Равные по энтропии ячейки разыгрываются случайно.
func (s *wfcSolver) lowestEntropyCell(rng *rand.Rand) int {
	best, bestCount, ties := -1, s.nPatterns+1, 0
	for i, n := range s.remaining {
		if n <= 1 {
			continue
		}
		switch {
		case n < bestCount:
			best, bestCount, ties = i, n, 1
		case n == bestCount:
			ties++
			if rng.Intn(ties) == 0 {
				best = i
			}
		}
	}
	return best
}

func (s *wfcSolver) weightedPick(rng *rand.Rand, cell int) int {
	total := 0
	for j, ok := range s.possible[cell] {
		if ok {
			total += s.weights[j]
		}
	}
	roll := rng.Intn(total)
	for j, ok := range s.possible[cell] {
		if !ok {
			continue
		}
		roll -= s.weights[j]
		if roll < 0 {
			return j
		}
	}
	// Недостижимо при total > 0
	return 0
}

// propagate распространяет сужение вариантов очередью в ширину.
func (s *wfcSolver) propagate(start int) error {
	queue := []int{start}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		cx, cy := cell%s.outW, cell/s.outW

		for dir := 0; dir < 4; dir++ {
			nx, ny := cx, cy
			switch dir {
			case wfcNorth:
				ny--
			case wfcSouth:
				ny++
			case wfcWest:
				nx--
			case wfcEast:
				nx++
			}
			if nx < 0 || ny < 0 || nx >= s.outW || ny >= s.outH {
				continue
			}
			neighbor := ny*s.outW + nx

			changed := false
			for j, ok := range s.possible[neighbor] {
				if !ok {
					continue
				}
				if !s.supported(cell, dir, j) {
					s.possible[neighbor][j] = false
					s.remaining[neighbor]--
					changed = true
				}
			}
			if s.remaining[neighbor] == 0 {
				return errWFCContradiction
			}
			if changed {
				queue = append(queue, neighbor)
			}
		}
	}
	return nil
}

// supported: хоть один из оставшихся вариантов cell допускает паттерн j
// в направлении dir.
func (s *wfcSolver) supported(cell, dir, j int) bool {
	for i, ok := range s.possible[cell] {
		if !ok {
			continue
		}
		for _, allowed := range s.adjacency[i][dir] {
			if allowed == j {
				return true
			}
		}
	}
	return false
}

// WFCBuilder пересобирает текущую карту в том же визуальном стиле:
// нарезает ее на чанки и раскладывает их заново коллапсом волновой
// функции. Предыдущие комнаты, коридоры и спавны после пересборки
// недействительны и сбрасываются.
type WFCBuilder struct {
	ChunkSize      int
	IncludeMirrors bool
	MaxAttempts    int
}

func NewWFCBuilder() *WFCBuilder {
	return &WFCBuilder{ChunkSize: 6, IncludeMirrors: true, MaxAttempts: 5}
}

func (b *WFCBuilder) Name() string { return "WFCBuilder" }

func (b *WFCBuilder) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	log := logger.WithComponent("mapgen")
	m := build.Map

	patterns, weights := samplePatterns(m, b.ChunkSize, b.IncludeMirrors)
	if len(patterns) == 0 {
		return fmt.Errorf("wave function collapse: map %dx%d too small for chunk size %d", m.Width, m.Height, b.ChunkSize)
	}
	adjacency := buildAdjacency(patterns)

	// Однотайловая рамка стен по периметру
	outW := (m.Width - 2) / b.ChunkSize
	outH := (m.Height - 2) / b.ChunkSize

	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		solver := newWFCSolver(len(patterns), weights, adjacency, outW, outH)
		grid, err := solver.run(rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			log.WithFields(logrus.Fields{
				"attempt":  attempt,
				"patterns": len(patterns),
			}).Debug("WFC attempt hit a contradiction")
			continue
		}

		for i := range m.Tiles {
			m.Tiles[i] = domain.TileWall
		}
		for cy := 0; cy < outH; cy++ {
			for cx := 0; cx < outW; cx++ {
				p := patterns[grid[cy*outW+cx]]
				for y := 0; y < b.ChunkSize; y++ {
					for x := 0; x < b.ChunkSize; x++ {
						m.Tiles[m.Idx(1+cx*b.ChunkSize+x, 1+cy*b.ChunkSize+y)] = p.at(x, y)
					}
				}
			}
		}

		build.Rooms = nil
		build.Corridors = nil
		build.StartingPosition = nil
		build.SpawnList = build.SpawnList[:0]
		build.TakeSnapshot()
		return nil
	}
	return fmt.Errorf("wave function collapse: no solution after %d attempts", b.MaxAttempts)
}
