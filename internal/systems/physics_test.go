package systems

import (
	"testing"

	"deepforge-server/internal/domain"
)

func TestHasLineOfSight(t *testing.T) {
	m := openMap(12, 12)
	// Перегородка x=6, с бойницей на y=3
	for y := 1; y < 11; y++ {
		m.Tiles[m.Idx(6, y)] = domain.TileWall
	}
	m.Tiles[m.Idx(6, 3)] = domain.TileFloor

	tests := []struct {
		name string
		from domain.Position
		to   domain.Position
		want bool
	}{
		{"same point", domain.Position{X: 2, Y: 2}, domain.Position{X: 2, Y: 2}, true},
		{"adjacent", domain.Position{X: 2, Y: 2}, domain.Position{X: 3, Y: 2}, true},
		{"open corridor", domain.Position{X: 1, Y: 1}, domain.Position{X: 5, Y: 1}, true},
		{"through wall", domain.Position{X: 2, Y: 7}, domain.Position{X: 10, Y: 7}, false},
		{"through loophole", domain.Position{X: 4, Y: 3}, domain.Position{X: 8, Y: 3}, true},
		{"diagonal open", domain.Position{X: 1, Y: 1}, domain.Position{X: 4, Y: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLineOfSight(m, tt.from, tt.to); got != tt.want {
				t.Errorf("HasLineOfSight(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestLineOfSightSymmetryThroughWall(t *testing.T) {
	m := openMap(12, 12)
	for y := 1; y < 11; y++ {
		m.Tiles[m.Idx(6, y)] = domain.TileWall
	}
	a := domain.Position{X: 2, Y: 5}
	b := domain.Position{X: 10, Y: 5}
	if HasLineOfSight(m, a, b) || HasLineOfSight(m, b, a) {
		t.Error("wall must block sight in both directions")
	}
}

func TestOpaqueTreeBlocksSight(t *testing.T) {
	m := openMap(12, 12)
	m.Tiles[m.Idx(5, 5)] = domain.TileTree

	from := domain.Position{X: 2, Y: 5}
	to := domain.Position{X: 9, Y: 5}
	if HasLineOfSight(m, from, to) {
		t.Error("trees are opaque and must block sight")
	}
	// Но по мелкой воде взгляд проходит
	m.Tiles[m.Idx(5, 5)] = domain.TileShallowWater
	if !HasLineOfSight(m, from, to) {
		t.Error("shallow water must not block sight")
	}
}
