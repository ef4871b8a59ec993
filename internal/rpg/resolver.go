package rpg

import "github.com/rocketscienceinc/minigames-backend/internal/entity"

// act runs the pre-action status check and the primary effect for one actor.
func (that *Game) act(index int, kind entity.ActionKind) ([]Event, int, bool) {
	actor := that.Actor(index)
	if actor.Status.Active() && actor.Status.Kind.Stuns() {
		return []Event{{Kind: EventSkipped, Actor: index, Target: NoTarget, Action: kind, Status: actor.Status.Kind}}, NoTarget, true
	}

	target := that.pickTarget(index, kind)

	return that.resolve(index, kind, target), target, false
}

func (that *Game) pickTarget(index int, kind entity.ActionKind) int {
	if kind == entity.ActionSupport {
		if index == OpponentIndex {
			return OpponentIndex
		}

		return that.weakestPlayer()
	}

	if index != OpponentIndex {
		return OpponentIndex
	}

	if kind == entity.ActionUltimate {
		return TargetAllPlayers
	}

	living := that.livingPlayers()

	return living[that.RNG.IntN(len(living))]
}

func (that *Game) resolve(index int, kind entity.ActionKind, target int) []Event {
	archetype := that.Actor(index).Archetype

	switch kind {
	case entity.ActionBasic:
		return that.strike(index, target, kind, archetype.BasicDamage)
	case entity.ActionSpecial:
		if !that.RNG.Chance(archetype.SpecialHitChance) {
			return []Event{{Kind: EventMiss, Actor: index, Target: target, Action: kind}}
		}

		return that.strike(index, target, kind, archetype.SpecialDamage)
	case entity.ActionSupport:
		restored := that.Actor(target).Heal(archetype.HealAmount)
		return []Event{{Kind: EventHeal, Actor: index, Target: target, Action: kind, Amount: restored}}
	case entity.ActionUltimate:
		if target != TargetAllPlayers {
			return that.strike(index, target, kind, archetype.UltimateDamage)
		}

		var events []Event
		for _, i := range that.livingPlayers() {
			events = append(events, that.strike(index, i, kind, archetype.UltimateDamage)...)
		}

		return events
	default:
		return nil
	}
}

func (that *Game) strike(source, target int, kind entity.ActionKind, amount float64) []Event {
	victim := that.Actor(target)
	lost := victim.Damage(amount)

	events := []Event{{Kind: EventDamage, Actor: source, Target: target, Action: kind, Amount: lost}}
	if victim.IsDead() {
		return append(events, Event{Kind: EventDeath, Actor: target, Target: NoTarget})
	}

	if kind == entity.ActionBasic {
		return events
	}

	return append(events, that.afflict(source, target)...)
}

// afflict rolls the source archetype's status against a living target that carries none.
func (that *Game) afflict(source, target int) []Event {
	archetype := that.Actor(source).Archetype
	victim := that.Actor(target)

	if !archetype.AppliesStatus || victim.Status.Active() {
		return nil
	}

	if !that.RNG.Chance(archetype.StatusChance) {
		return nil
	}

	if !victim.ApplyStatus(archetype.Status, archetype.StatusDuration) {
		return nil
	}

	return []Event{{Kind: EventStatusApplied, Actor: source, Target: target, Status: archetype.Status, Amount: float64(archetype.StatusDuration)}}
}

// settle is the post-action resolution of the acting actor: ongoing status effect, countdown,
// clear at zero, then cooldown countdown and the cost of the action just taken.
func (that *Game) settle(index int, kind entity.ActionKind, skipped bool) []Event {
	actor := that.Actor(index)
	if actor.IsDead() {
		return nil
	}

	var events []Event

	status := actor.Status.Kind
	if actor.Status.Active() && status.DealsDamage() {
		lost := actor.Damage(that.Opponent.Archetype.StatusDamage)
		events = append(events, Event{Kind: EventStatusTick, Actor: index, Target: NoTarget, Status: status, Amount: lost})

		if actor.IsDead() {
			return append(events, Event{Kind: EventDeath, Actor: index, Target: NoTarget})
		}
	}

	if actor.CountdownStatus() {
		events = append(events, Event{Kind: EventStatusCleared, Actor: index, Target: NoTarget, Status: status})
	}

	actor.TickCooldowns()
	if !skipped {
		actor.SetCooldown(kind, actor.Archetype.Cooldown(kind))
	}

	return events
}
