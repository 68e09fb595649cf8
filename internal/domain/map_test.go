package domain

import "testing"

func TestMapIndexRoundTrip(t *testing.T) {
	m := NewMap(80, 50, 1, "test")

	// Для всех валидных координат Idx -> XY должно быть обратимо
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := m.Idx(x, y)
			gx, gy := m.XY(idx)
			if gx != x || gy != y {
				t.Fatalf("round trip failed for (%d,%d): idx=%d -> (%d,%d)", x, y, idx, gx, gy)
			}
		}
	}
}

func TestNewMapAllWalls(t *testing.T) {
	m := NewMap(10, 10, 1, "test")

	if len(m.Tiles) != 100 || len(m.Revealed) != 100 || len(m.Visible) != 100 {
		t.Fatalf("parallel arrays must have width*height elements")
	}
	for i, tile := range m.Tiles {
		if tile != TileWall {
			t.Errorf("tile %d: expected wall, got %v", i, tile)
		}
	}
}

func TestIdxChecked(t *testing.T) {
	m := NewMap(10, 10, 1, "test")

	tests := []struct {
		name    string
		x, y    int
		wantErr bool
	}{
		{"inside", 5, 5, false},
		{"corner", 9, 9, false},
		{"negative x", -1, 5, true},
		{"negative y", 5, -1, true},
		{"x too big", 10, 5, true},
		{"y too big", 5, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.IdxChecked(tt.x, tt.y)
			if (err != nil) != tt.wantErr {
				t.Errorf("IdxChecked(%d,%d) err=%v, wantErr=%v", tt.x, tt.y, err, tt.wantErr)
			}
		})
	}
}

func TestMapClone(t *testing.T) {
	m := NewMap(5, 5, 1, "test")
	m.Tiles[m.Idx(2, 2)] = TileFloor

	clone := m.Clone()
	clone.Tiles[clone.Idx(2, 2)] = TileDeepWater

	// Клон не должен влиять на оригинал
	if m.Tiles[m.Idx(2, 2)] != TileFloor {
		t.Error("clone mutation leaked into original map")
	}
}

func TestRectIntersect(t *testing.T) {
	r1 := NewRect(0, 0, 10, 10)
	r2 := NewRect(5, 5, 10, 10) // Пересекается
	r3 := NewRect(20, 20, 5, 5) // Не пересекается

	if !r1.Intersect(r2) {
		t.Error("rects should intersect")
	}
	if r1.Intersect(r3) {
		t.Error("rects should NOT intersect")
	}
}

func TestRectCenter(t *testing.T) {
	r := NewRect(10, 10, 5, 5)
	cx, cy := r.Center()
	if cx != 12 || cy != 12 {
		t.Errorf("expected center (12,12), got (%d,%d)", cx, cy)
	}
}
