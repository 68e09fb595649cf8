package spawn

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

// Factory превращает спавн-лист генератора в сущности уровня.
// ID раздаются монотонным счетчиком, упакованным вместе с глубиной:
// одинаковый порядок заявок дает одинаковые ID.
type Factory struct {
	depth    int16
	next     uint64
	m        *domain.Map
	entities []*domain.Entity
	log      *logrus.Entry
}

func NewFactory(m *domain.Map) *Factory {
	return &Factory{
		depth: int16(m.Depth),
		m:     m,
		log:   logger.WithComponent("spawn"),
	}
}

// Spawn реализует mapgen.SpawnFunc. Неизвестный шаблон - ошибка
// композиции контента, падаем сразу.
func (f *Factory) Spawn(idx int, template string) error {
	tpl, ok := Templates[template]
	if !ok {
		return fmt.Errorf("spawn: unknown template %q", template)
	}
	if idx < 0 || idx >= len(f.m.Tiles) {
		return fmt.Errorf("spawn: index %d outside map %dx%d", idx, f.m.Width, f.m.Height)
	}

	x, y := f.m.XY(idx)
	entity := tpl.Instantiate(f.nextID(), domain.Position{X: x, Y: y})
	f.entities = append(f.entities, entity)

	f.log.WithFields(logrus.Fields{
		"template": template,
		"id":       entity.ID.String(),
		"pos":      entity.Pos,
	}).Debug("spawned entity")
	return nil
}

// SpawnPlayer ставит игрока на стартовую позицию уровня.
func (f *Factory) SpawnPlayer(pos domain.Position) *domain.Entity {
	player := Player.Instantiate(f.nextID(), pos)
	f.entities = append(f.entities, player)
	return player
}

// Entities возвращает все созданные сущности в порядке создания.
func (f *Factory) Entities() []*domain.Entity {
	return f.entities
}

func (f *Factory) nextID() domain.EntityID {
	id := domain.PackEntityID(f.depth, f.next)
	f.next++
	return id
}
