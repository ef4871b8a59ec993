package entity

type ActionKind string

const (
	ActionNone     ActionKind = ""
	ActionBasic    ActionKind = "basic"
	ActionSpecial  ActionKind = "special"
	ActionSupport  ActionKind = "support"
	ActionUltimate ActionKind = "ultimate"
)

// ActionKinds lists every submittable action in a fixed order.
var ActionKinds = []ActionKind{ActionBasic, ActionSpecial, ActionSupport, ActionUltimate}

func (that ActionKind) IsValid() bool {
	switch that {
	case ActionBasic, ActionSpecial, ActionSupport, ActionUltimate:
		return true
	default:
		return false
	}
}

func (that ActionKind) IsAttack() bool {
	return that == ActionBasic || that == ActionSpecial || that == ActionUltimate
}

type StatusKind string

const (
	StatusNone   StatusKind = ""
	StatusBurn   StatusKind = "burn"
	StatusPoison StatusKind = "poison"
	StatusStun   StatusKind = "stun"
)

func (that StatusKind) IsValid() bool {
	switch that {
	case StatusNone, StatusBurn, StatusPoison, StatusStun:
		return true
	default:
		return false
	}
}

func (that StatusKind) Stuns() bool {
	return that == StatusStun
}

func (that StatusKind) DealsDamage() bool {
	return that == StatusBurn || that == StatusPoison
}

// Status is a timed modifier; Remaining counts post-action resolutions left.
type Status struct {
	Kind      StatusKind
	Remaining int
}

func (that Status) Active() bool {
	return that.Kind != StatusNone && that.Remaining > 0
}

type Outcome string

const (
	OutcomeNone Outcome = "none"
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)

func (that Outcome) IsValid() bool {
	switch that {
	case OutcomeNone, OutcomeWin, OutcomeLose, OutcomeDraw:
		return true
	default:
		return false
	}
}

// ActionRecord is the last action taken, kept for resumption replay.
type ActionRecord struct {
	Kind    ActionKind
	Actor   int
	Target  int
	Skipped bool
}

// NoAction is the record of a session where nobody has moved yet.
var NoAction = ActionRecord{Kind: ActionNone, Actor: -1, Target: -1}

func (that ActionRecord) IsEmpty() bool {
	return that.Kind == ActionNone
}

// Actor is a participant: a human player slot or the synthetic opponent.
type Actor struct {
	Name      string
	Archetype *Archetype
	Health    float64
	Status    Status
	Cooldowns map[ActionKind]int
}

func NewActor(name string, archetype *Archetype) *Actor {
	return &Actor{
		Name:      name,
		Archetype: archetype,
		Health:    archetype.MaxHealth,
		Cooldowns: make(map[ActionKind]int),
	}
}

func (that *Actor) MaxHealth() float64 {
	return that.Archetype.MaxHealth
}

func (that *Actor) IsDead() bool {
	return that.Health <= 0
}

func (that *Actor) HealthRatio() float64 {
	return that.Health / that.MaxHealth()
}

// SetHealth stores health clamped to [0, MaxHealth].
func (that *Actor) SetHealth(health float64) {
	switch {
	case health < 0:
		that.Health = 0
	case health > that.MaxHealth():
		that.Health = that.MaxHealth()
	default:
		that.Health = health
	}

	if that.IsDead() {
		that.Status = Status{}
	}
}

// Damage returns the health actually lost.
func (that *Actor) Damage(amount float64) float64 {
	if that.IsDead() || amount <= 0 {
		return 0
	}

	before := that.Health
	that.SetHealth(that.Health - amount)

	return before - that.Health
}

// Heal returns the health actually restored. Dead actors stay dead.
func (that *Actor) Heal(amount float64) float64 {
	if that.IsDead() || amount <= 0 {
		return 0
	}

	before := that.Health
	that.SetHealth(that.Health + amount)

	return that.Health - before
}

// ApplyStatus afflicts a living actor that carries no active status.
func (that *Actor) ApplyStatus(kind StatusKind, duration int) bool {
	if that.IsDead() || that.Status.Active() || kind == StatusNone || duration <= 0 {
		return false
	}

	that.Status = Status{Kind: kind, Remaining: duration}

	return true
}

// CountdownStatus decrements the active status and clears it once exhausted.
// It reports whether the status was cleared.
func (that *Actor) CountdownStatus() bool {
	if !that.Status.Active() {
		return false
	}

	that.Status.Remaining--
	if that.Status.Remaining > 0 {
		return false
	}

	that.Status = Status{}

	return true
}

func (that *Actor) Cooldown(kind ActionKind) int {
	return that.Cooldowns[kind]
}

func (that *Actor) SetCooldown(kind ActionKind, turns int) {
	if that.Cooldowns == nil {
		that.Cooldowns = make(map[ActionKind]int)
	}

	if turns <= 0 {
		delete(that.Cooldowns, kind)
		return
	}

	that.Cooldowns[kind] = turns
}

// TickCooldowns counts every cooldown down by one turn, dropping the exhausted ones.
func (that *Actor) TickCooldowns() {
	for kind, turns := range that.Cooldowns {
		that.SetCooldown(kind, turns-1)
	}
}
