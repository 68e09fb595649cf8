package mapgen

import (
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"deepforge-server/internal/domain"
)

// MaxRegionSpawns - базовый потолок спавнов на одну область.
const MaxRegionSpawns = 4

// tableEntry - одна строка взвешенной таблицы спавна.
// Эффективный вес = Weight + DepthMod * depth (не меньше нуля):
// глубокие уровни смещают таблицу к опасным шаблонам.
type tableEntry struct {
	Name     string
	Weight   int
	DepthMod int
}

// RandomTable - взвешенный случайный выбор имени шаблона.
type RandomTable struct {
	entries []tableEntry
	depth   int
}

func NewRandomTable(depth int) *RandomTable {
	return &RandomTable{depth: depth}
}

// Add регистрирует шаблон. Возвращает таблицу для цепочки вызовов.
func (t *RandomTable) Add(name string, weight, depthMod int) *RandomTable {
	t.entries = append(t.entries, tableEntry{Name: name, Weight: weight, DepthMod: depthMod})
	return t
}

// Roll выбирает имя шаблона пропорционально эффективным весам.
// Пустая или полностью обнуленная таблица дает "".
func (t *RandomTable) Roll(rng *rand.Rand) string {
	total := 0
	for _, e := range t.entries {
		total += t.effectiveWeight(e)
	}
	if total <= 0 {
		return ""
	}

	roll := rng.Intn(total)
	for _, e := range t.entries {
		w := t.effectiveWeight(e)
		if roll < w {
			return e.Name
		}
		roll -= w
	}
	return ""
}

func (t *RandomTable) effectiveWeight(e tableEntry) int {
	w := e.Weight + e.DepthMod*t.depth
	if w < 0 {
		return 0
	}
	return w
}

// DefaultSpawnTable - стандартная таблица подземелья.
// Имена шаблонов разрешает внешняя фабрика сущностей.
func DefaultSpawnTable(depth int) *RandomTable {
	return NewRandomTable(depth).
		Add("Goblin", 10, 0).
		Add("Orc", 1, 1).
		Add("Health Potion", 7, 0).
		Add("Rations", 10, 0).
		Add("Bear Trap", 2, 0).
		Add("Confusion Scroll", 2, 1).
		Add("Magic Missile Scroll", 4, 0)
}

// spawnRegion наполняет одну область спавнами из таблицы: количество
// случайно, ограничено размером области, клетки не повторяются.
func spawnRegion(rng *rand.Rand, build *BuilderMap, area []int, table *RandomTable) {
	if len(area) == 0 {
		return
	}

	// -3 в броске дает шанс пустой области; глубина поднимает плотность
	num := randRange(rng, 1, MaxRegionSpawns+3+(build.Map.Depth-1)) - 3
	if num > len(area) {
		num = len(area)
	}
	if num <= 0 {
		return
	}

	used := mapset.New[int]()
	for i := 0; i < num; i++ {
		// До 20 попыток найти свободную клетку области
		for attempt := 0; attempt < 20; attempt++ {
			idx := area[rng.Intn(len(area))]
			if used.Has(idx) {
				continue
			}
			used.Put(idx)
			if name := table.Roll(rng); name != "" {
				build.AddSpawn(idx, name)
			}
			break
		}
	}
}

// RoomBasedSpawner раскидывает спавн по комнатам. Первая комната
// пропускается - там появляется игрок.
type RoomBasedSpawner struct {
	Table *RandomTable
}

func NewRoomBasedSpawner(table *RandomTable) *RoomBasedSpawner {
	return &RoomBasedSpawner{Table: table}
}

func (s *RoomBasedSpawner) Name() string { return "RoomBasedSpawner" }

func (s *RoomBasedSpawner) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	if build.Rooms == nil {
		return ErrNoRooms
	}

	for i := 1; i < len(build.Rooms); i++ {
		room := build.Rooms[i]
		var area []int
		for y := room.Y1; y <= room.Y2; y++ {
			for x := room.X1; x <= room.X2; x++ {
				if build.Map.InBounds(x, y) && build.Map.Tiles[build.Map.Idx(x, y)] == domain.TileFloor {
					area = append(area, build.Map.Idx(x, y))
				}
			}
		}
		spawnRegion(rng, build, area, s.Table)
	}
	return nil
}

// VoronoiSpawning группирует пол в области Вороного и наполняет каждую
// независимо: спавн получается кластерным, а не равномерно размазанным.
// Работает на картах без комнат (пещеры, лабиринты).
type VoronoiSpawning struct {
	Table *RandomTable
	Seeds int
}

func NewVoronoiSpawning(table *RandomTable) *VoronoiSpawning {
	return &VoronoiSpawning{Table: table, Seeds: 32}
}

func (s *VoronoiSpawning) Name() string { return "VoronoiSpawning" }

func (s *VoronoiSpawning) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map
	membership := voronoiMembership(rng, m, s.Seeds, DistanceManhattan)

	regions := make(map[int][]int)
	for i, tile := range m.Tiles {
		if tile == domain.TileFloor {
			regions[membership[i]] = append(regions[membership[i]], i)
		}
	}

	// Обходим области в стабильном порядке: порядок обхода map в Go
	// случаен и сломал бы воспроизводимость генерации при заданном сиде.
	keys := make([]int, 0, len(regions))
	for k := range regions {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		spawnRegion(rng, build, regions[k], s.Table)
	}
	return nil
}
