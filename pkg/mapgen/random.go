package mapgen

import (
	"math/rand"

	"deepforge-server/pkg/logger"
)

// RandomBuilderChain собирает случайную цепочку генерации уровня.
// Выбор начинается с броска между комнатной и бесформенной
// архитектурой, дальше навешиваются мета-шаги.
func RandomBuilderChain(rng *rand.Rand, width, height, depth int, name string) *BuilderChain {
	chain := NewBuilderChain(width, height, depth, name)

	if rng.Intn(2) == 0 {
		randomRoomChain(rng, chain, depth)
	} else {
		randomShapelessChain(rng, chain, depth)
	}

	// Изредка пересобираем результат в том же стиле
	if rng.Intn(20) == 0 {
		chain.With(NewWFCBuilder())
		chain.With(NewAreaStartingPosition(XCenter, YCenter))
		chain.With(NewCullUnreachable())
		chain.With(NewVoronoiSpawning(DefaultSpawnTable(depth)))
		chain.With(NewDistantExit())
	}

	if rng.Intn(3) == 0 {
		chain.With(NewNoiseOverlay())
	}
	if rng.Intn(6) == 0 {
		chain.With(NewPrefabSectionalBuilder(PrefabUndergroundFort, PlaceCenterH, PlaceCenterV))
	}
	chain.With(NewPrefabVaultsBuilder())

	logger.WithComponent("mapgen").
		WithField("depth", depth).
		Debug("Assembled random builder chain")
	return chain
}

// randomRoomChain: генераторы, оперирующие списком комнат.
func randomRoomChain(rng *rand.Rand, chain *BuilderChain, depth int) {
	switch rng.Intn(3) {
	case 0:
		chain.StartWith(NewSimpleMapBuilder())
		// SimpleMapBuilder рисует комнаты и коридоры сам
		chain.With(NewRoomBasedSpawner(DefaultSpawnTable(depth)))
		return
	case 1:
		chain.StartWith(NewBSPDungeonBuilder())
	case 2:
		chain.StartWith(NewBSPInteriorBuilder())
		chain.With(NewRoomBasedSpawner(DefaultSpawnTable(depth)))
		return
	}

	// BSPDungeonBuilder только размечает комнаты, рисуем и соединяем
	if rng.Intn(2) == 0 {
		chain.With(NewRoomSorter(randomRoomSort(rng)))
	}
	chain.With(NewRoomDrawer())
	if rng.Intn(2) == 0 {
		chain.With(NewDoglegCorridors())
	} else {
		chain.With(NewNearestCorridors())
	}
	chain.With(NewRoomBasedSpawner(DefaultSpawnTable(depth)))
	if rng.Intn(2) == 0 {
		chain.With(NewCorridorSpawner(DefaultSpawnTable(depth)))
	}
}

// randomShapelessChain: генераторы без комнат; вход, выход и спавны
// восстанавливаются мета-шагами.
func randomShapelessChain(rng *rand.Rand, chain *BuilderChain, depth int) {
	switch rng.Intn(8) {
	case 0:
		chain.StartWith(NewCellularAutomataBuilder())
	case 1:
		chain.StartWith(DrunkardsWalkOpenArea())
	case 2:
		chain.StartWith(DrunkardsWalkOpenHalls())
	case 3:
		chain.StartWith(DrunkardsWalkWindingPassages())
	case 4:
		chain.StartWith(NewMazeBuilder())
	case 5:
		vb := NewVoronoiCellBuilder()
		vb.Metric = randomDistanceMetric(rng)
		chain.StartWith(vb)
	case 6:
		chain.StartWith(randomDLAConfig(rng))
	case 7:
		chain.StartWith(NewPrefabLevelBuilder(PrefabGuardPost))
	}

	chain.With(NewAreaStartingPosition(randomXStart(rng), randomYStart(rng)))
	chain.With(NewCullUnreachable())
	chain.With(NewVoronoiSpawning(DefaultSpawnTable(depth)))
	chain.With(NewDistantExit())
}

// FallbackBuilderChain - гарантированно успешная цепочка на случай,
// когда случайная сборка исчерпала попытки.
func FallbackBuilderChain(width, height, depth int, name string) *BuilderChain {
	chain := NewBuilderChain(width, height, depth, name)
	chain.StartWith(NewSimpleMapBuilder())
	chain.With(NewRoomBasedSpawner(DefaultSpawnTable(depth)))
	return chain
}

func randomRoomSort(rng *rand.Rand) RoomSort {
	return RoomSort(rng.Intn(5))
}

func randomDistanceMetric(rng *rand.Rand) DistanceMetric {
	return DistanceMetric(rng.Intn(3))
}

func randomXStart(rng *rand.Rand) XStart {
	return XStart(rng.Intn(3))
}

func randomYStart(rng *rand.Rand) YStart {
	return YStart(rng.Intn(3))
}

func randomDLAConfig(rng *rand.Rand) *DLABuilder {
	switch rng.Intn(3) {
	case 0:
		return DLAWalkInwardsConfig()
	case 1:
		return DLACentralAttractorConfig()
	default:
		return DLAInsectoidConfig()
	}
}
