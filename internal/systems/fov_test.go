package systems

import (
	"testing"

	"deepforge-server/internal/domain"
)

func TestFOVCenterAlwaysVisible(t *testing.T) {
	m := openMap(20, 20)
	pos := domain.Position{X: 10, Y: 10}
	visible := ComputeVisibleTiles(m, pos, domain.VisionRadius)
	if !visible[m.Idx(pos.X, pos.Y)] {
		t.Fatal("observer tile must be visible")
	}
}

func TestFOVBlindObserver(t *testing.T) {
	m := openMap(20, 20)
	visible := ComputeVisibleTiles(m, domain.Position{X: 10, Y: 10}, 0)
	if len(visible) != 0 {
		t.Fatalf("blind observer sees %d tiles", len(visible))
	}
}

func TestFOVRespectsRadius(t *testing.T) {
	m := openMap(30, 30)
	pos := domain.Position{X: 15, Y: 15}
	radius := 5
	visible := ComputeVisibleTiles(m, pos, radius)

	for idx := range visible {
		x, y := m.XY(idx)
		dx, dy := x-pos.X, y-pos.Y
		if dx*dx+dy*dy >= (radius+1)*(radius+1) {
			t.Errorf("tile (%d,%d) outside radius %d is visible", x, y, radius)
		}
	}
}

func TestFOVWallCastsShadow(t *testing.T) {
	m := openMap(20, 20)
	pos := domain.Position{X: 5, Y: 10}
	// Стена прямо на восток от наблюдателя
	m.Tiles[m.Idx(7, 10)] = domain.TileWall

	visible := ComputeVisibleTiles(m, pos, domain.VisionRadius)
	if !visible[m.Idx(7, 10)] {
		t.Fatal("the wall itself must be visible")
	}
	if visible[m.Idx(9, 10)] {
		t.Error("tile directly behind the wall must be shadowed")
	}
}

func TestUpdateFieldOfViewAccumulatesRevealed(t *testing.T) {
	m := openMap(40, 20)

	UpdateFieldOfView(m, domain.Position{X: 5, Y: 10}, domain.VisionRadius)
	if !m.Visible[m.Idx(5, 10)] || !m.Revealed[m.Idx(5, 10)] {
		t.Fatal("first viewpoint not marked")
	}

	UpdateFieldOfView(m, domain.Position{X: 30, Y: 10}, domain.VisionRadius)
	// Видимость перезаписана, память осталась
	if m.Visible[m.Idx(5, 10)] {
		t.Error("old viewpoint must not stay visible")
	}
	if !m.Revealed[m.Idx(5, 10)] {
		t.Error("old viewpoint must stay revealed")
	}
	if !m.Visible[m.Idx(30, 10)] {
		t.Error("new viewpoint must be visible")
	}
}
