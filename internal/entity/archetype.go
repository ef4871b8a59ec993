package entity

import (
	"errors"
	"fmt"
)

type Role string

const (
	RolePlayer   Role = "player"
	RoleOpponent Role = "opponent"
)

var ErrInvalidArchetype = errors.New("invalid archetype")

// ActionWeights drives the opponent's weighted-random decision.
type ActionWeights struct {
	Basic    float64 `yaml:"basic"`
	Special  float64 `yaml:"special"`
	Support  float64 `yaml:"support"`
	Ultimate float64 `yaml:"ultimate"`
}

func (that ActionWeights) For(kind ActionKind) float64 {
	switch kind {
	case ActionBasic:
		return that.Basic
	case ActionSpecial:
		return that.Special
	case ActionSupport:
		return that.Support
	case ActionUltimate:
		return that.Ultimate
	default:
		return 0
	}
}

// Archetype is a fixed bundle of stats identifying a class of actor.
type Archetype struct {
	Tag  string `yaml:"tag"`
	Name string `yaml:"name"`
	Role Role   `yaml:"role"`

	MaxHealth float64 `yaml:"max-health"`

	BasicDamage      float64 `yaml:"basic-damage"`
	SpecialDamage    float64 `yaml:"special-damage"`
	SpecialHitChance float64 `yaml:"special-hit-chance"`
	UltimateDamage   float64 `yaml:"ultimate-damage"`
	UltimateCooldown int     `yaml:"ultimate-cooldown"`
	HealAmount       float64 `yaml:"heal-amount"`
	SupportCooldown  int     `yaml:"support-cooldown"`

	AppliesStatus  bool       `yaml:"applies-status"`
	Status         StatusKind `yaml:"status"`
	StatusChance   float64    `yaml:"status-chance"`
	StatusDuration int        `yaml:"status-duration"`
	StatusDamage   float64    `yaml:"status-damage"`

	Weights ActionWeights `yaml:"weights"`
}

// Cooldown returns the number of own turns an action stays unavailable after use.
func (that *Archetype) Cooldown(kind ActionKind) int {
	switch kind {
	case ActionUltimate:
		return that.UltimateCooldown
	case ActionSupport:
		return that.SupportCooldown
	default:
		return 0
	}
}

func (that *Archetype) IsOpponent() bool {
	return that.Role == RoleOpponent
}

func (that *Archetype) Validate() error {
	if that.Tag == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidArchetype)
	}

	if that.Role != RolePlayer && that.Role != RoleOpponent {
		return fmt.Errorf("%w: %s: unknown role %q", ErrInvalidArchetype, that.Tag, that.Role)
	}

	if that.MaxHealth <= 0 {
		return fmt.Errorf("%w: %s: max health must be positive", ErrInvalidArchetype, that.Tag)
	}

	if that.SpecialHitChance < 0 || that.SpecialHitChance > 1 || that.StatusChance < 0 || that.StatusChance > 1 {
		return fmt.Errorf("%w: %s: chances must be within [0, 1]", ErrInvalidArchetype, that.Tag)
	}

	if that.UltimateCooldown < 0 || that.SupportCooldown < 0 {
		return fmt.Errorf("%w: %s: negative cooldown", ErrInvalidArchetype, that.Tag)
	}

	if that.AppliesStatus {
		if !that.Role.canApplyStatus() {
			return fmt.Errorf("%w: %s: only opponents apply statuses", ErrInvalidArchetype, that.Tag)
		}

		if that.Status == StatusNone || !that.Status.IsValid() || that.StatusDuration <= 0 {
			return fmt.Errorf("%w: %s: status application needs a status and a positive duration", ErrInvalidArchetype, that.Tag)
		}
	}

	return nil
}

func (that Role) canApplyStatus() bool {
	return that == RoleOpponent
}
