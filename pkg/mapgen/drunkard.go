package mapgen

import (
	"math/rand"

	"deepforge-server/internal/domain"
)

// DrunkSpawnMode определяет, откуда стартует очередной пьяный землекоп.
type DrunkSpawnMode uint8

const (
	// DrunkStartingPoint - всегда из центра карты (центральный аттрактор)
	DrunkStartingPoint DrunkSpawnMode = iota
	// DrunkRandomPoint - из случайной клетки (открытые области)
	DrunkRandomPoint
)

// DrunkardsWalkBuilder вырезает пещеры случайными блужданиями:
// каждый землекоп делает случайные шаги по сторонам света и превращает
// пройденные клетки в пол, пока не истратит срок жизни.
type DrunkardsWalkBuilder struct {
	SpawnMode       DrunkSpawnMode
	DrunkenLifetime int
	FloorPercent    int // целевая доля пола от всей карты
}

// Варианты из практики: открытая область, центральный аттрактор,
// длинные извилистые проходы.

func DrunkardsWalkOpenArea() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{SpawnMode: DrunkRandomPoint, DrunkenLifetime: 400, FloorPercent: 50}
}

func DrunkardsWalkOpenHalls() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{SpawnMode: DrunkStartingPoint, DrunkenLifetime: 400, FloorPercent: 50}
}

func DrunkardsWalkWindingPassages() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{SpawnMode: DrunkStartingPoint, DrunkenLifetime: 100, FloorPercent: 40}
}

func (b *DrunkardsWalkBuilder) Name() string { return "DrunkardsWalkBuilder" }

func (b *DrunkardsWalkBuilder) BuildInitialMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map

	// Семя: центр карты всегда пол, он же стартовая позиция
	startX, startY := m.Width/2, m.Height/2
	m.Tiles[m.Idx(startX, startY)] = domain.TileFloor
	build.StartingPosition = &domain.Position{X: startX, Y: startY}

	totalTiles := m.Width * m.Height
	desiredFloor := totalTiles * b.FloorPercent / 100
	floorCount := m.CountTiles(domain.TileFloor)

	// Бюджет землекопов: на тесной карте цель по полу может быть
	// недостижима (вырезается только внутренность), тогда останавливаемся
	// с тем, что успели выкопать.
	budget := totalTiles

	digger := 0
	for floorCount < desiredFloor && budget > 0 {
		budget--
		var x, y int
		switch b.SpawnMode {
		case DrunkStartingPoint:
			x, y = startX, startY
		case DrunkRandomPoint:
			if digger == 0 {
				// Первый всегда из старта, чтобы структура была связана с ним
				x, y = startX, startY
			} else {
				x = randRange(rng, 1, m.Width-2)
				y = randRange(rng, 1, m.Height-2)
			}
		}

		didSomething := false
		for life := 0; life < b.DrunkenLifetime; life++ {
			idx := m.Idx(x, y)
			if m.Tiles[idx] == domain.TileWall {
				m.Tiles[idx] = domain.TileFloor
				didSomething = true
			}

			switch rng.Intn(4) {
			case 0:
				if x > 1 {
					x--
				}
			case 1:
				if x < m.Width-2 {
					x++
				}
			case 2:
				if y > 1 {
					y--
				}
			case 3:
				if y < m.Height-2 {
					y++
				}
			}
		}
		if didSomething {
			build.TakeSnapshot()
		}

		digger++
		floorCount = m.CountTiles(domain.TileFloor)
	}

	return nil
}
