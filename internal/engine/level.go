package engine

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"deepforge-server/internal/domain"
	"deepforge-server/internal/spatial"
	"deepforge-server/internal/spawn"
	"deepforge-server/pkg/logger"
	"deepforge-server/pkg/mapgen"
)

// Level - собранный уровень: карта, сущности, игрок и spatial-индекс.
// Индекс принадлежит уровню, глобального состояния нет.
type Level struct {
	Map      *domain.Map
	Index    *spatial.Index
	Entities []*domain.Entity
	Player   *domain.Entity
	Depth    int

	// Снапшоты генерации, если включена история
	History []*domain.Map
}

// NewLevel генерирует уровень глубины depth. Случайная сборка может
// провалиться (например, WFC исчерпал попытки) - тогда перезапускаемся
// с производным сидом, после MaxBuildAttempts уходим в fallback-цепочку.
func NewLevel(cfg Config, depth int) (*Level, error) {
	log := logger.WithComponent("engine").WithField("depth", depth)
	levelSeed := cfg.Seed + int64(depth)
	name := fmt.Sprintf("Шахта, ярус %d", depth)

	var chain *mapgen.BuilderChain
	built := false
	for attempt := 0; attempt < cfg.MaxBuildAttempts; attempt++ {
		attemptSeed := levelSeed + int64(attempt)*1_000_003
		rng := rand.New(rand.NewSource(attemptSeed))

		chain = mapgen.RandomBuilderChain(rng, cfg.MapWidth, cfg.MapHeight, depth, name)
		if cfg.RecordHistory {
			chain.WithHistory()
		}
		if err := chain.BuildMap(rng); err != nil {
			log.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"error":   err,
			}).Warn("level generation attempt failed, retrying with derived seed")
			continue
		}
		built = true
		break
	}

	if !built {
		log.Warn("random generation exhausted, falling back to the simple chain")
		chain = mapgen.FallbackBuilderChain(cfg.MapWidth, cfg.MapHeight, depth, name)
		if cfg.RecordHistory {
			chain.WithHistory()
		}
		if err := chain.BuildMap(rand.New(rand.NewSource(levelSeed))); err != nil {
			return nil, fmt.Errorf("fallback chain failed on depth %d: %w", depth, err)
		}
	}

	build := chain.BuildData
	if build.StartingPosition == nil {
		return nil, fmt.Errorf("depth %d: chain produced no starting position", depth)
	}

	factory := spawn.NewFactory(build.Map)
	if err := chain.SpawnEntities(factory.Spawn); err != nil {
		return nil, fmt.Errorf("depth %d: %w", depth, err)
	}
	player := factory.SpawnPlayer(*build.StartingPosition)

	level := &Level{
		Map:      build.Map,
		Index:    spatial.NewIndex(len(build.Map.Tiles)),
		Entities: factory.Entities(),
		Player:   player,
		Depth:    depth,
		History:  build.History,
	}
	level.Index.Rebuild(level.Map, level.Entities)

	log.WithFields(logrus.Fields{
		"entities": len(level.Entities),
		"floor":    level.Map.CountTiles(domain.TileFloor),
	}).Info("level ready")
	return level, nil
}

// FindEntity возвращает сущность по ID или nil.
func (l *Level) FindEntity(id domain.EntityID) *domain.Entity {
	for _, e := range l.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}
