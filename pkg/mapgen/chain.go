package mapgen

import (
	"errors"
	"fmt"
	"math/rand"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

// Ошибки композиции цепочки. Это ошибки программиста:
// их нельзя молча глотать, цепочка собрана неверно.
var (
	ErrNoInitialBuilder = errors.New("mapgen: build chain has no initial builder (call StartWith first)")
	ErrNoRooms          = errors.New("mapgen: builder requires rooms, but none were produced")
	ErrNoCorridors      = errors.New("mapgen: builder requires corridors, but none were produced")
	ErrNoStartingPos    = errors.New("mapgen: builder requires a starting position, but none was set")
)

// InitialBuilder создает первый черновик карты с нуля.
type InitialBuilder interface {
	Name() string
	BuildInitialMap(rng *rand.Rand, build *BuilderMap) error
}

// MetaBuilder трансформирует уже существующий BuilderMap на месте.
type MetaBuilder interface {
	Name() string
	BuildMetaMap(rng *rand.Rand, build *BuilderMap) error
}

// SpawnFunc - внешняя фабрика сущностей. Разрешает имя шаблона
// и создает сущность в клетке idx. Ядро не знает, как устроены сущности.
type SpawnFunc func(idx int, template string) error

// BuilderChain - упорядоченный конвейер: один initial-билдер,
// затем ноль и более мета-билдеров над общим BuilderMap.
type BuilderChain struct {
	starter  InitialBuilder
	builders []MetaBuilder

	BuildData *BuilderMap
}

// NewBuilderChain создает пустую цепочку для уровня depth размером width x height.
func NewBuilderChain(width, height, depth int, name string) *BuilderChain {
	return &BuilderChain{
		BuildData: NewBuilderMap(width, height, depth, name),
	}
}

// WithHistory включает запись снапшотов для визуализации.
func (c *BuilderChain) WithHistory() *BuilderChain {
	c.BuildData.EnableHistory = true
	return c
}

// StartWith задает единственный initial-билдер.
// Повторный вызов - ошибка композиции, падаем сразу.
func (c *BuilderChain) StartWith(builder InitialBuilder) *BuilderChain {
	if c.starter != nil {
		panic("mapgen: BuilderChain already has an initial builder")
	}
	c.starter = builder
	return c
}

// With добавляет мета-билдер в конец конвейера. Порядок имеет значение:
// поздние стадии видят результат ранних.
func (c *BuilderChain) With(builder MetaBuilder) *BuilderChain {
	c.builders = append(c.builders, builder)
	return c
}

// BuildMap прогоняет initial-билдер и мета-билдеры по порядку.
func (c *BuilderChain) BuildMap(rng *rand.Rand) error {
	if c.starter == nil {
		return ErrNoInitialBuilder
	}

	chainLog := logger.WithComponent("mapgen").WithField("map", c.BuildData.Map.Name)

	chainLog.WithField("builder", c.starter.Name()).Debug("running initial builder")
	if err := c.starter.BuildInitialMap(rng, c.BuildData); err != nil {
		return fmt.Errorf("initial builder %s: %w", c.starter.Name(), err)
	}

	for _, meta := range c.builders {
		chainLog.WithField("builder", meta.Name()).Debug("running meta builder")
		if err := meta.BuildMetaMap(rng, c.BuildData); err != nil {
			return fmt.Errorf("meta builder %s: %w", meta.Name(), err)
		}
	}

	chainLog.WithFields(map[string]interface{}{
		"floor_tiles": c.BuildData.Map.CountTiles(domain.TileFloor),
		"spawns":      len(c.BuildData.SpawnList),
		"snapshots":   len(c.BuildData.History),
	}).Info("map generation complete")

	return nil
}

// SpawnEntities передает накопленный спавн-лист внешней фабрике сущностей.
func (c *BuilderChain) SpawnEntities(spawn SpawnFunc) error {
	for _, req := range c.BuildData.SpawnList {
		if err := spawn(req.Idx, req.Template); err != nil {
			return fmt.Errorf("spawn %q at %d: %w", req.Template, req.Idx, err)
		}
	}
	return nil
}
