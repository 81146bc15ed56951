// Package combat implements the tactical combat resolution core of Gridfall:
// attack validation, accuracy and critical rolls, layered damage mitigation,
// area-of-effect splash, status-effect application and ticking, death
// handling, and experience awards.
package combat

import "fmt"

// AttackKind identifies what kind of attack is being resolved.
// The zero value (KindUnknown) is intentionally invalid.
type AttackKind int

const (
	KindUnknown AttackKind = iota // zero value; intentionally invalid
	KindMelee
	KindRanged
	KindSpell
	KindAbility
)

// String returns the human-readable attack kind name.
func (k AttackKind) String() string {
	switch k {
	case KindMelee:
		return "melee"
	case KindRanged:
		return "ranged"
	case KindSpell:
		return "spell"
	case KindAbility:
		return "ability"
	default:
		return "unknown"
	}
}

// ParseAttackKind converts boundary text (UI, AI tool calls, network
// handlers) into an AttackKind.
//
// Postcondition: Returns a valid kind or an error; never KindUnknown with a
// nil error.
func ParseAttackKind(s string) (AttackKind, error) {
	switch s {
	case "melee":
		return KindMelee, nil
	case "ranged":
		return KindRanged, nil
	case "spell":
		return KindSpell, nil
	case "ability":
		return KindAbility, nil
	default:
		return KindUnknown, fmt.Errorf("unknown attack kind %q", s)
	}
}

// DamageType selects which of the target's defenses mitigates the damage.
type DamageType int

const (
	Physical DamageType = iota
	Magical
	Spiritual
	// True damage bypasses defense entirely.
	True
)

// String returns the human-readable damage type name.
func (d DamageType) String() string {
	switch d {
	case Physical:
		return "physical"
	case Magical:
		return "magical"
	case Spiritual:
		return "spiritual"
	case True:
		return "true"
	default:
		return "unknown"
	}
}

// ParseDamageType converts boundary text into a DamageType. The empty string
// maps to Spiritual, the ability default.
func ParseDamageType(s string) (DamageType, error) {
	switch s {
	case "physical":
		return Physical, nil
	case "magical":
		return Magical, nil
	case "spiritual", "":
		return Spiritual, nil
	case "true":
		return True, nil
	default:
		return Physical, fmt.Errorf("unknown damage type %q", s)
	}
}

// Action is the transient descriptor for one attack attempt: constructed from
// the attacker's derived stats, equipment, and (for abilities) the ability
// definition; consumed by a single resolution call; discarded.
type Action struct {
	AttackerID string
	TargetID   string
	Kind       AttackKind
	AbilityID  string

	BaseDamage float64
	DamageType DamageType
	Accuracy   int
	CritChance int
	Range      int
	// Penetration in [0,1] scales the target's effective defense down.
	Penetration float64

	Area         bool
	AreaRadius   int
	FriendlyFire bool

	MPCost int

	// AppliesStatus names the effect attached on hit; empty for none.
	AppliesStatus  string
	StatusDuration int

	luaOnHit string
}

// Result tags how an attack resolved.
type Result int

const (
	ResultMiss Result = iota
	ResultHit
	ResultCritical
)

// String returns the human-readable result label.
func (r Result) String() string {
	switch r {
	case ResultMiss:
		return "miss"
	case ResultHit:
		return "hit"
	case ResultCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// StatusApplication records one (target, effect) attachment in an Outcome.
type StatusApplication struct {
	TargetID string
	Effect   string
}

// Outcome is the transient result of one resolved attack, returned to the
// caller and used to build the emitted AttackResolved event; never stored.
type Outcome struct {
	Action Action
	Result Result
	// Damage is the total HP removed across the primary target and splash.
	Damage int
	// TargetsHit lists ids actually damaged: primary first, then splash.
	TargetsHit    []string
	StatusApplied []StatusApplication
	MPSpent       int
	Experience    int
}
