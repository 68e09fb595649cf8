// Command mapview пошагово проигрывает снапшоты генерации уровня в терминале.
// Управление: стрелки/пробел - по этапам, g - новая генерация, q/Esc - выход.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/gdamore/tcell/v2"

	"deepforge-server/internal/domain"
	"deepforge-server/internal/engine"
)

type viewer struct {
	screen tcell.Screen
	cfg    engine.Config
	depth  int

	level *engine.Level
	stage int
}

func main() {
	var seed int64
	var depth, width, height int
	flag.Int64Var(&seed, "seed", 0, "Master world seed (0 for random)")
	flag.IntVar(&depth, "depth", 1, "dungeon depth to generate")
	flag.IntVar(&width, "width", 80, "level width in tiles")
	flag.IntVar(&height, "height", 50, "level height in tiles")
	flag.Parse()

	cfg := engine.NewConfig()
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.MapWidth = width
	cfg.MapHeight = height
	cfg.RecordHistory = true

	v := &viewer{cfg: cfg, depth: depth}
	if err := v.run(); err != nil {
		fmt.Fprintf(os.Stderr, "mapview: %v\n", err)
		os.Exit(1)
	}
}

func (v *viewer) run() error {
	if err := v.generate(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	v.screen = screen

	v.draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			v.draw()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return nil
			}
			v.draw()
		}
	}
}

// handleKey возвращает false, когда пора выходить.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight:
		v.step(1)
	case tcell.KeyLeft:
		v.step(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.step(1)
		case 'g':
			// Новый уровень с производным сидом
			v.cfg.Seed = rand.New(rand.NewSource(v.cfg.Seed)).Int63()
			if err := v.generate(); err == nil {
				v.stage = 0
			}
		}
	}
	return true
}

func (v *viewer) generate() error {
	level, err := engine.NewLevel(v.cfg, v.depth)
	if err != nil {
		return err
	}
	v.level = level
	v.stage = 0
	return nil
}

func (v *viewer) step(dir int) {
	v.stage += dir
	if v.stage < 0 {
		v.stage = 0
	}
	// Последний "этап" - готовый уровень с сущностями
	if v.stage > len(v.level.History) {
		v.stage = len(v.level.History)
	}
}

func (v *viewer) draw() {
	v.screen.Clear()

	final := v.stage >= len(v.level.History)
	m := v.level.Map
	if !final {
		m = v.level.History[v.stage]
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tile := m.Tiles[m.Idx(x, y)]
			v.screen.SetContent(x, y+1, rune(tile.Glyph()), nil, tileStyle(tile))
		}
	}
	if final {
		for _, e := range v.level.Entities {
			if e.Render == nil || !e.IsAlive() {
				continue
			}
			style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
			if e.Render.Symbol == '@' {
				style = style.Foreground(tcell.ColorLightGreen)
			}
			v.screen.SetContent(e.Pos.X, e.Pos.Y+1, rune(e.Render.Symbol), nil, style)
		}
	}

	v.drawStatus(m, final)
	v.screen.Show()
}

func (v *viewer) drawStatus(m *domain.Map, final bool) {
	stage := fmt.Sprintf("stage %d/%d", v.stage+1, len(v.level.History)+1)
	if final {
		stage = "final"
	}
	status := fmt.Sprintf("%s | seed %d | %s | [←/→] step [g] regen [q] quit",
		m.Name, v.cfg.Seed, stage)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue)
	for i, r := range status {
		v.screen.SetContent(i, 0, r, nil, style)
	}
}

func tileStyle(t domain.TileType) tcell.Style {
	switch t {
	case domain.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case domain.TileDownStairs, domain.TileUpStairs:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case domain.TileShallowWater, domain.TileDeepWater:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case domain.TileTree:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case domain.TileGravel:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver)
	}
}
