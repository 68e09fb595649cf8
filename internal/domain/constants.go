package domain

// Типы сущностей
const (
	EntityTypePlayer = "PLAYER"
	EntityTypeEnemy  = "ENEMY"
	EntityTypeItem   = "ITEM"
	EntityTypeProp   = "PROP" // ловушки, двери, лестницы
)

// Параметры восприятия
const (
	VisionRadius = 8
)

// SpawnRequest - заявка генератора на создание сущности.
// Idx - индекс клетки карты, Template - имя шаблона из каталога спавна.
type SpawnRequest struct {
	Idx      int    `json:"idx"`
	Template string `json:"template"`
}
