package mapgen

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"deepforge-server/internal/domain"
)

// NoiseOverlay раскрашивает готовый пол когерентным шумом Перлина:
// низины становятся мелкой водой, возвышенности - травой, середина
// местами гравием. Используются только проходимые тайлы, так что
// достижимость, проверенная ранее по цепочке, не нарушается.
type NoiseOverlay struct {
	Alpha  float64
	Beta   float64
	Levels int32
	Scale  float64
}

func NewNoiseOverlay() *NoiseOverlay {
	return &NoiseOverlay{Alpha: 2, Beta: 2, Levels: 3, Scale: 0.1}
}

func (n *NoiseOverlay) Name() string { return "NoiseOverlay" }

func (n *NoiseOverlay) BuildMetaMap(rng *rand.Rand, build *BuilderMap) error {
	m := build.Map
	gen := perlin.NewPerlinRandSource(n.Alpha, n.Beta, n.Levels, rand.NewSource(rng.Int63()))

	for i, tile := range m.Tiles {
		if tile != domain.TileFloor {
			continue
		}
		x, y := m.XY(i)
		v := gen.Noise2D(float64(x)*n.Scale, float64(y)*n.Scale)

		switch {
		case v < -0.3:
			m.Tiles[i] = domain.TileShallowWater
		case v > 0.4:
			m.Tiles[i] = domain.TileGrass
		case v > 0.25:
			m.Tiles[i] = domain.TileGravel
		}
	}
	build.TakeSnapshot()
	return nil
}
