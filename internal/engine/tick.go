package engine

import (
	"github.com/sirupsen/logrus"

	"deepforge-server/internal/domain"
	"deepforge-server/internal/systems"
	"deepforge-server/pkg/logger"
)

// MoveCommand - намерение сущности сдвинуться на (DX, DY) в этом тике.
type MoveCommand struct {
	Entity domain.EntityID
	DX, DY int
}

// RunTick исполняет один игровой тик: полная переиндексация,
// затем команды движения, затем ход врагов. Системы внутри тика
// опираются на инкрементальные обновления индекса.
func (l *Level) RunTick(commands []MoveCommand) {
	tickLog := logger.WithComponent("engine").WithField("depth", l.Depth)

	// Переиндексация до любых решений: снимает дрейф позиции и индекса
	l.Index.Rebuild(l.Map, l.Entities)

	for _, cmd := range commands {
		e := l.FindEntity(cmd.Entity)
		if e == nil || !e.IsAlive() {
			tickLog.WithField("entity_id", cmd.Entity).Debug("move command for a missing or dead entity, dropped")
			continue
		}
		l.executeMove(e, cmd.DX, cmd.DY, tickLog)
	}

	l.runEnemyTurns(tickLog)

	if l.Player != nil && l.Player.IsAlive() {
		systems.UpdateFieldOfView(l.Map, l.Player.Pos, domain.VisionRadius)
	}
}

func (l *Level) executeMove(e *domain.Entity, dx, dy int, log *logrus.Entry) {
	res := systems.CalculateMove(e, dx, dy, l.Map, l.Index)
	switch {
	case res.HasMoved:
		systems.ApplyMove(e, res, l.Map, l.Index)
	case res.HasTarget:
		target := l.FindEntity(res.BlockedBy)
		if target != nil {
			l.resolveAttack(e, target, log)
		}
	}
}

// resolveAttack - минимальный контактный бой: урон равен силе атакующего.
func (l *Level) resolveAttack(attacker, target *domain.Entity, log *logrus.Entry) {
	if attacker.Stats == nil || target.Stats == nil {
		return
	}
	target.Stats.HP -= attacker.Stats.Strength
	log.WithFields(logrus.Fields{
		"attacker": attacker.Name,
		"target":   target.Name,
		"hp_left":  target.Stats.HP,
	}).Debug("melee hit")

	if target.Stats.HP <= 0 {
		target.Stats.HP = 0
		target.Stats.IsDead = true
		// Клетка освобождается в тот же тик, не дожидаясь переиндексации
		l.Index.RemoveEntity(target.ID, l.Map.Idx(target.Pos.X, target.Pos.Y))
		log.WithField("target", target.Name).Info("entity died")
	}
}

// runEnemyTurns: враги, видящие игрока, делают шаг к нему.
func (l *Level) runEnemyTurns(log *logrus.Entry) {
	if l.Player == nil || !l.Player.IsAlive() {
		return
	}
	for _, e := range l.Entities {
		if e.Type != domain.EntityTypeEnemy || !e.IsAlive() {
			continue
		}
		if e.Pos.DistanceTo(l.Player.Pos) > domain.VisionRadius {
			continue
		}
		if !systems.HasLineOfSight(l.Map, e.Pos, l.Player.Pos) {
			continue
		}
		dx, dy := e.Pos.DirectionTo(l.Player.Pos)
		l.executeMove(e, dx, dy, log)
	}
}
