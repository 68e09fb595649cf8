package server

import (
	"deepforge-server/internal/domain"
	"deepforge-server/internal/engine"
	"deepforge-server/pkg/api"
)

// tileColor - палитра тайлов для клиента.
func tileColor(t domain.TileType) string {
	switch t {
	case domain.TileWall:
		return "#57534E"
	case domain.TileDownStairs, domain.TileUpStairs:
		return "#FACC15"
	case domain.TileShallowWater:
		return "#38BDF8"
	case domain.TileDeepWater:
		return "#1D4ED8"
	case domain.TileGrass:
		return "#4ADE80"
	case domain.TileTree:
		return "#166534"
	case domain.TileRoad, domain.TileGravel:
		return "#A8A29E"
	default:
		return "#D6D3D1"
	}
}

// buildTileViews разворачивает карту в плоский список DTO.
func buildTileViews(m *domain.Map) []api.TileView {
	tiles := make([]api.TileView, 0, len(m.Tiles))
	for idx, t := range m.Tiles {
		x, y := m.XY(idx)
		tiles = append(tiles, api.TileView{
			X:          x,
			Y:          y,
			Symbol:     string(t.Glyph()),
			Color:      tileColor(t),
			IsWall:     !t.IsWalkable(),
			IsVisible:  m.Visible[idx],
			IsExplored: m.Revealed[idx],
		})
	}
	return tiles
}

// BuildSnapshotFrame - один шаг генерации для визуализатора.
func BuildSnapshotFrame(m *domain.Map, depth, stage, seq int) api.MapFrame {
	return api.MapFrame{
		Type:  api.FrameSnapshot,
		Seq:   seq,
		Stage: stage,
		Depth: depth,
		Grid:  &api.GridMeta{Width: m.Width, Height: m.Height},
		Map:   buildTileViews(m),
	}
}

// BuildLevelFrame - полный снимок уровня с живыми сущностями.
func BuildLevelFrame(level *engine.Level, seq int) api.MapFrame {
	frame := api.MapFrame{
		Type:  api.FrameLevel,
		Seq:   seq,
		Depth: level.Depth,
		Grid:  &api.GridMeta{Width: level.Map.Width, Height: level.Map.Height},
		Map:   buildTileViews(level.Map),
	}

	for _, e := range level.Entities {
		if !e.IsAlive() {
			continue
		}
		view := api.EntityView{
			ID:   e.ID.String(),
			Type: e.Type,
			Name: e.Name,
		}
		view.Pos.X = e.Pos.X
		view.Pos.Y = e.Pos.Y
		if e.Render != nil {
			view.Render.Symbol = string(e.Render.Symbol)
			view.Render.Color = e.Render.Color
		}
		if e.Stats != nil {
			view.Stats = &api.StatsView{
				HP:       e.Stats.HP,
				MaxHP:    e.Stats.MaxHP,
				Strength: e.Stats.Strength,
				IsDead:   e.Stats.IsDead,
			}
		}
		frame.Entities = append(frame.Entities, view)
	}
	return frame
}
