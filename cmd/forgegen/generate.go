package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"deepforge-server/internal/domain"
	"deepforge-server/internal/engine"
	"deepforge-server/internal/infrastructure/storage"
)

var (
	genSeed    int64
	genDepth   int
	genWidth   int
	genHeight  int
	genHistory bool
	genASCII   bool
	genOutDir  string
	genRedis   string
	genSession string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a dungeon level",
	Long: `Generate a single dungeon level and write it to disk. Examples:

  forgegen generate --seed 42 --depth 3 --ascii
  forgegen generate --seed 42 --redis localhost:6379 --session demo`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "master world seed (0 for random)")
	generateCmd.Flags().IntVar(&genDepth, "depth", 1, "dungeon depth to generate")
	generateCmd.Flags().IntVar(&genWidth, "width", 80, "level width in tiles")
	generateCmd.Flags().IntVar(&genHeight, "height", 50, "level height in tiles")
	generateCmd.Flags().BoolVar(&genHistory, "history", false, "record builder snapshots for mapview")
	generateCmd.Flags().BoolVar(&genASCII, "ascii", false, "print an ASCII preview to stdout")
	generateCmd.Flags().StringVar(&genOutDir, "out", "levels", "output directory for level files")
	generateCmd.Flags().StringVar(&genRedis, "redis", "", "redis address; when set, levels go to redis instead of disk")
	generateCmd.Flags().StringVar(&genSession, "session", "", "session name for redis storage")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genDepth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", genDepth)
	}

	cfg := engine.NewConfig()
	if genSeed != 0 {
		cfg.Seed = genSeed
	}
	cfg.MapWidth = genWidth
	cfg.MapHeight = genHeight
	cfg.RecordHistory = genHistory

	started := time.Now()
	level, err := engine.NewLevel(cfg, genDepth)
	if err != nil {
		return fmt.Errorf("failed to generate level: %w", err)
	}

	fmt.Printf("⛏️  %s (seed %d, %dx%d) built in %s\n",
		level.Map.Name, cfg.Seed, level.Map.Width, level.Map.Height, time.Since(started).Round(time.Millisecond))
	fmt.Printf("   entities: %d, snapshots: %d\n", len(level.Entities), len(level.History))

	if genASCII {
		printASCII(os.Stdout, level.Map, level.Entities)
	}

	if genRedis != "" {
		return saveToRedis(cmd.Context(), level)
	}

	svc := storage.NewLevelService(genOutDir)
	path, err := svc.Save(level.Map, level.Entities)
	if err != nil {
		return fmt.Errorf("failed to save level: %w", err)
	}
	fmt.Printf("   saved to %s\n", path)
	return nil
}

func saveToRedis(ctx context.Context, level *engine.Level) error {
	if genSession == "" {
		return fmt.Errorf("--session is required with --redis")
	}
	repo, err := storage.NewLevelRepository(&storage.RedisConfig{
		Client: redis.NewClient(&redis.Options{Addr: genRedis}),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := repo.Save(ctx, genSession, level.Map, level.Entities); err != nil {
		return fmt.Errorf("failed to store level in redis: %w", err)
	}
	fmt.Printf("   stored as level:%s:%d\n", genSession, level.Depth)
	return nil
}

// printASCII выводит карту глифами тайлов, поверх - сущности.
func printASCII(w *os.File, m *domain.Map, entities []*domain.Entity) {
	overlay := make(map[int]byte, len(entities))
	for _, e := range entities {
		if e.Render == nil {
			continue
		}
		overlay[m.Idx(e.Pos.X, e.Pos.Y)] = e.Render.Symbol
	}
	line := make([]byte, m.Width)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := m.Idx(x, y)
			if g, ok := overlay[idx]; ok {
				line[x] = g
				continue
			}
			line[x] = m.Tiles[idx].Glyph()
		}
		fmt.Fprintln(w, string(line))
	}
}
