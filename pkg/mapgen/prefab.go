package mapgen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"deepforge-server/internal/domain"
)

// PrefabTemplate - нарисованный вручную фрагмент карты.
// Text - буквальная сетка символов, по строке на ряд; объявленные
// Width/Height обязаны точно совпадать с текстом - проверяется при загрузке.
//
// Легенда: ' '/'.'=пол, '+'=дверной проем (пол), '#'=стена, '>'=лестница вниз,
// '@'=пол+стартовая позиция, '^'=пол+ловушка, 'g'=гоблин, 'o'=орк,
// '!'=зелье, '%'=паек, '~'=мелкая вода.
type PrefabTemplate struct {
	Name   string
	Width  int
	Height int
	Text   string

	// Диапазон глубин, на которых шаблон допустим (вольты)
	MinDepth int
	MaxDepth int
}

// parse валидирует размеры и возвращает строки шаблона.
func (t PrefabTemplate) parse() ([]string, error) {
	rows := strings.Split(strings.TrimPrefix(t.Text, "\n"), "\n")
	if len(rows) != t.Height {
		return nil, fmt.Errorf("prefab %q: declared height %d, got %d rows", t.Name, t.Height, len(rows))
	}
	for i, row := range rows {
		if len(row) != t.Width {
			return nil, fmt.Errorf("prefab %q: row %d is %d chars wide, declared width %d", t.Name, i, len(row), t.Width)
		}
	}
	return rows, nil
}

// stamp переносит шаблон на карту со смещением (ox, oy).
func (t PrefabTemplate) stamp(rows []string, build *BuilderMap, ox, oy int) {
	m := build.Map
	for dy, row := range rows {
		for dx := 0; dx < len(row); dx++ {
			x, y := ox+dx, oy+dy
			if !m.InBounds(x, y) {
				continue
			}
			applyPrefabChar(build, x, y, row[dx])
		}
	}
}

// applyPrefabChar применяет один символ легенды к клетке.
func applyPrefabChar(build *BuilderMap, x, y int, ch byte) {
	m := build.Map
	idx := m.Idx(x, y)

	switch ch {
	case ' ', '.', '+':
		m.Tiles[idx] = domain.TileFloor
	case '#':
		m.Tiles[idx] = domain.TileWall
	case '>':
		m.Tiles[idx] = domain.TileDownStairs
	case '~':
		m.Tiles[idx] = domain.TileShallowWater
	case '@':
		m.Tiles[idx] = domain.TileFloor
		build.StartingPosition = &domain.Position{X: x, Y: y}
	case '^':
		m.Tiles[idx] = domain.TileFloor
		build.AddSpawn(idx, "Bear Trap")
	case 'g':
		m.Tiles[idx] = domain.TileFloor
		build.AddSpawn(idx, "Goblin")
	case 'o':
		m.Tiles[idx] = domain.TileFloor
		build.AddSpawn(idx, "Orc")
	case '!':
		m.Tiles[idx] = domain.TileFloor
		build.AddSpawn(idx, "Health Potion")
	case '%':
		m.Tiles[idx] = domain.TileFloor
		build.AddSpawn(idx, "Rations")
	default:
		// Неизвестный символ - оставляем клетку как есть
	}
}

// --- Встроенные шаблоны ---

// PrefabGuardPost - готовый вручную уровень целиком.
var PrefabGuardPost = PrefabTemplate{
	Name:   "GuardPost",
	Width:  20,
	Height: 11,
	Text: `
####################
#        g         #
#    #    #    #   #
#  @ #    !    # > #
#    #    #    #   #
#        o         #
#  ^            ^  #
#    #    #    #   #
#    #  % #    #   #
#                  #
####################`,
}

// PrefabUndergroundFort - секция, пристраиваемая к готовой карте.
var PrefabUndergroundFort = PrefabTemplate{
	Name:   "UndergroundFort",
	Width:  15,
	Height: 10,
	Text: `
###############
#      g      #
#  ##     ##  #
#  #   !   #  #
#  #   %   #  #
+  #       #  +
#  ##     ##  #
#      o      #
#  ^       ^  #
###############`,
}

// Библиотека вольтов: маленькие комнаты ручной работы,
// накладываемые поверх сгенерированного уровня.
var vaultLibrary = []PrefabTemplate{
	{
		Name:     "TotallyNotATrap",
		Width:    5,
		Height:   5,
		MinDepth: 1,
		MaxDepth: 100,
		Text: `
.....
.^^^.
.^!^.
.^^^.
.....`,
	},
	{
		Name:     "Checkerboard",
		Width:    6,
		Height:   6,
		MinDepth: 2,
		MaxDepth: 100,
		Text: `
......
.#.#.#
..%...
.#.#.#
...^..
......`,
	},
	{
		Name:     "GuardedCache",
		Width:    7,
		Height:   5,
		MinDepth: 3,
		MaxDepth: 100,
		Text: `
.......
.##+##.
.#!g.#.
.#####.
.......`,
	},
}

// PrefabLevelBuilder штампует готовый шаблон как уровень целиком.
type PrefabLevelBuilder struct {
	Template PrefabTemplate
}

func NewPrefabLevelBuilder(t PrefabTemplate) *PrefabLevelBuilder {
	return &PrefabLevelBuilder{Template: t}
}

func (b *PrefabLevelBuilder) Name() string { return "PrefabLevelBuilder" }

func (b *PrefabLevelBuilder) BuildInitialMap(_ *rand.Rand, build *BuilderMap) error {
	rows, err := b.Template.parse()
	if err != nil {
		return err
	}
	b.Template.stamp(rows, build, 0, 0)
	build.TakeSnapshot()

	if build.StartingPosition == nil {
		start, ok := centerScanStart(build.Map)
		if !ok {
			return fmt.Errorf("prefab %q has no floor tiles", b.Template.Name)
		}
		build.StartingPosition = &start
	}
	return nil
}

// Горизонтальное/вертикальное размещение секции.
type HorizontalPlacement uint8
type VerticalPlacement uint8

const (
	PlaceLeft HorizontalPlacement = iota
	PlaceCenterH
	PlaceRight
)

const (
	PlaceTop VerticalPlacement = iota
	PlaceCenterV
	PlaceBottom
)

// PrefabSectionalBuilder штампует секцию фиксированного размера
// в вычисленную позицию поверх ранее сгенерированной базы.
type PrefabSectionalBuilder struct {
	Template PrefabTemplate
	H        HorizontalPlacement
	V        VerticalPlacement
}

func NewPrefabSectionalBuilder(t PrefabTemplate, h HorizontalPlacement, v VerticalPlacement) *PrefabSectionalBuilder {
	return &PrefabSectionalBuilder{Template: t, H: h, V: v}
}

func (b *PrefabSectionalBuilder) Name() string { return "PrefabSectionalBuilder" }

func (b *PrefabSectionalBuilder) BuildMetaMap(_ *rand.Rand, build *BuilderMap) error {
	rows, err := b.Template.parse()
	if err != nil {
		return err
	}

	m := build.Map
	var ox, oy int
	switch b.H {
	case PlaceLeft:
		ox = 0
	case PlaceCenterH:
		ox = (m.Width - b.Template.Width) / 2
	case PlaceRight:
		ox = m.Width - b.Template.Width - 1
	}
	switch b.V {
	case PlaceTop:
		oy = 0
	case PlaceCenterV:
		oy = (m.Height - b.Template.Height) / 2
	case PlaceBottom:
		oy = m.Height - b.Template.Height - 1
	}

	// Спавны базовой генерации внутри секции больше не актуальны
	section := domain.NewRect(ox, oy, b.Template.Width, b.Template.Height)
	build.RetainSpawns(func(req domain.SpawnRequest) bool {
		x, y := m.XY(req.Idx)
		return !section.Contains(x, y)
	})

	b.Template.stamp(rows, build, ox, oy)
	build.TakeSnapshot()
	return nil
}

// PrefabVaultsBuilder накладывает 1-3 вольта ручной работы на готовый
// уровень. Вольт ставится только туда, где его след (плюс однотайловый
// зазор) целиком лежит на полу и не пересекает уже поставленные вольты.
type PrefabVaultsBuilder struct {
	Library   []PrefabTemplate
	MaxVaults int
}

func NewPrefabVaultsBuilder() *PrefabVaultsBuilder {
	return &PrefabVaultsBuilder{Library: vaultLibrary, MaxVaults: 3}
}

func (b *PrefabVaultsBuilder) Name() string { return "PrefabVaultsBuilder" }

func (b *PrefabVaultsBuilder) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map

	// Отбираем шаблоны, допустимые на этой глубине
	var eligible []PrefabTemplate
	for _, v := range b.Library {
		if m.Depth >= v.MinDepth && m.Depth <= v.MaxDepth {
			eligible = append(eligible, v)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	nVaults := randRange(rng, 1, b.MaxVaults)
	usedTiles := mapset.New[int]()

	for i := 0; i < nVaults; i++ {
		vault := eligible[rng.Intn(len(eligible))]
		rows, err := vault.parse()
		if err != nil {
			return err
		}

		// Все позиции, где след вольта с зазором лежит на полу
		// и не задевает прежние вольты
		var candidates []domain.Position
		for y := 1; y < m.Height-vault.Height-1; y++ {
			for x := 1; x < m.Width-vault.Width-1; x++ {
				if b.fits(m, usedTiles, x, y, vault) {
					candidates = append(candidates, domain.Position{X: x, Y: y})
				}
			}
		}
		if len(candidates) == 0 {
			continue
		}

		pos := candidates[rng.Intn(len(candidates))]
		footprint := domain.NewRect(pos.X, pos.Y, vault.Width, vault.Height)

		// Очередь спавнов внутри вольта отбрасывается:
		// ручной контент не должен разбавляться общим
		build.RetainSpawns(func(req domain.SpawnRequest) bool {
			x, y := m.XY(req.Idx)
			return !footprint.Contains(x, y)
		})

		vault.stamp(rows, build, pos.X, pos.Y)

		// Резервируем след вместе с зазором
		for y := footprint.Y1 - 1; y <= footprint.Y2+1; y++ {
			for x := footprint.X1 - 1; x <= footprint.X2+1; x++ {
				if m.InBounds(x, y) {
					usedTiles.Put(m.Idx(x, y))
				}
			}
		}
		build.TakeSnapshot()
	}
	return nil
}

// fits проверяет след вольта с однотайловым зазором.
func (b *PrefabVaultsBuilder) fits(m *domain.Map, used mapset.Set[int], ox, oy int, vault PrefabTemplate) bool {
	for y := oy - 1; y <= oy+vault.Height; y++ {
		for x := ox - 1; x <= ox+vault.Width; x++ {
			if !m.InBounds(x, y) {
				return false
			}
			idx := m.Idx(x, y)
			if m.Tiles[idx] != domain.TileFloor || used.Has(idx) {
				return false
			}
		}
	}
	return true
}
