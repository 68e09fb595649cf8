package spawn

import (
	"deepforge-server/internal/domain"
)

// EntityTemplate определяет шаблон для создания сущности.
// Ключ в каталоге совпадает с именем в спавн-таблицах генератора.
type EntityTemplate struct {
	Name      string
	Type      string
	Render    domain.RenderComponent
	Stats     domain.StatsComponent
	Physics   domain.PhysicsComponent
	Narrative domain.NarrativeComponent
}

// Instantiate создает сущность из шаблона на заданной позиции.
func (t EntityTemplate) Instantiate(id domain.EntityID, pos domain.Position) *domain.Entity {
	entity := &domain.Entity{
		ID:   id,
		Type: t.Type,
		Name: t.Name,
		Pos:  pos,
		Render: &domain.RenderComponent{
			Symbol: t.Render.Symbol,
			Color:  t.Render.Color,
		},
		Physics: &domain.PhysicsComponent{
			BlocksTile: t.Physics.BlocksTile,
		},
	}

	// Stats есть только у существ
	if t.Stats.HP > 0 {
		entity.Stats = &domain.StatsComponent{
			HP:       t.Stats.HP,
			MaxHP:    t.Stats.HP,
			Strength: t.Stats.Strength,
		}
	}
	if t.Narrative.Description != "" {
		entity.Narrative = &domain.NarrativeComponent{
			Description: t.Narrative.Description,
		}
	}
	return entity
}

// --- ВРАГИ ---

var Goblin = EntityTemplate{
	Name: "Goblin",
	Type: domain.EntityTypeEnemy,
	Render: domain.RenderComponent{
		Symbol: 'g',
		Color:  "#22C55E",
	},
	Narrative: domain.NarrativeComponent{
		Description: "Мелкий пакостный гоблин, воровато оглядывается.",
	},
	Stats: domain.StatsComponent{
		HP:       15,
		Strength: 2,
	},
	Physics: domain.PhysicsComponent{BlocksTile: true},
}

var Orc = EntityTemplate{
	Name: "Orc",
	Type: domain.EntityTypeEnemy,
	Render: domain.RenderComponent{
		Symbol: 'O',
		Color:  "#DC2626",
	},
	Narrative: domain.NarrativeComponent{
		Description: "Огромный зеленокожий орк с тяжелой дубиной.",
	},
	Stats: domain.StatsComponent{
		HP:       30,
		Strength: 5,
	},
	Physics: domain.PhysicsComponent{BlocksTile: true},
}

// --- ПРЕДМЕТЫ ---

var HealthPotion = EntityTemplate{
	Name: "Health Potion",
	Type: domain.EntityTypeItem,
	Render: domain.RenderComponent{
		Symbol: '!',
		Color:  "#DC2626",
	},
	Narrative: domain.NarrativeComponent{
		Description: "Красное зелье, восстанавливающее здоровье.",
	},
}

var Rations = EntityTemplate{
	Name: "Rations",
	Type: domain.EntityTypeItem,
	Render: domain.RenderComponent{
		Symbol: '%',
		Color:  "#D97706",
	},
	Narrative: domain.NarrativeComponent{
		Description: "Сверток дорожного пайка.",
	},
}

var MagicMissileScroll = EntityTemplate{
	Name: "Magic Missile Scroll",
	Type: domain.EntityTypeItem,
	Render: domain.RenderComponent{
		Symbol: '?',
		Color:  "#06B6D4",
	},
	Narrative: domain.NarrativeComponent{
		Description: "Свиток с искрящимися рунами.",
	},
}

var ConfusionScroll = EntityTemplate{
	Name: "Confusion Scroll",
	Type: domain.EntityTypeItem,
	Render: domain.RenderComponent{
		Symbol: '?',
		Color:  "#EC4899",
	},
	Narrative: domain.NarrativeComponent{
		Description: "Свиток, от которого рябит в глазах.",
	},
}

// --- ЛОВУШКИ И РЕКВИЗИТ ---

var BearTrap = EntityTemplate{
	Name: "Bear Trap",
	Type: domain.EntityTypeProp,
	Render: domain.RenderComponent{
		Symbol: '^',
		Color:  "#9CA3AF",
	},
	Narrative: domain.NarrativeComponent{
		Description: "Ржавый капкан, полускрытый пылью.",
	},
}

// Player - шаблон игрока. Он не спавнится таблицами,
// фабрика ставит его отдельно на стартовую позицию.
var Player = EntityTemplate{
	Name: "Player",
	Type: domain.EntityTypePlayer,
	Render: domain.RenderComponent{
		Symbol: '@',
		Color:  "#FCD34D",
	},
	Stats: domain.StatsComponent{
		HP:       100,
		Strength: 8,
	},
	Physics: domain.PhysicsComponent{BlocksTile: true},
}

// Templates - каталог всех доступных шаблонов по имени из спавн-таблиц.
var Templates = map[string]EntityTemplate{
	"Goblin":               Goblin,
	"Orc":                  Orc,
	"Health Potion":        HealthPotion,
	"Rations":              Rations,
	"Magic Missile Scroll": MagicMissileScroll,
	"Confusion Scroll":     ConfusionScroll,
	"Bear Trap":            BearTrap,
}
