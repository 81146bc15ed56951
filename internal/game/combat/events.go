package combat

// EventType identifies the type of a combat event.
type EventType string

const (
	// TypeAttackResolved records a fully resolved attack, hit or miss.
	TypeAttackResolved EventType = "combat.attack_resolved"
	// TypeUnitDied records a unit's HP reaching zero. Emitted exactly once
	// per unit regardless of how the killing damage arrived.
	TypeUnitDied EventType = "combat.unit_died"
	// TypeStatusApplied records a status effect landing on a unit.
	TypeStatusApplied EventType = "combat.status_applied"
	// TypeStatusExpired records a status effect reaching zero duration.
	TypeStatusExpired EventType = "combat.status_expired"
	// TypeStatusDamage records a damage-over-time (or heal-over-time) tick.
	TypeStatusDamage EventType = "combat.status_damage"
)

// Event is the closed set of notifications the combat core publishes.
// Downstream consumers (rendering, AI, network broadcast, the battle log)
// subscribe through a Sink; the core does not care who listens.
type Event interface {
	EventType() EventType
}

// AttackResolved is emitted after every attack resolution, including misses.
type AttackResolved struct {
	AttackerID string
	TargetID   string
	Kind       AttackKind
	AbilityID  string
	Result     Result
	Damage     int
	TargetsHit []string
	MPSpent    int
	Experience int
}

// EventType implements Event.
func (AttackResolved) EventType() EventType { return TypeAttackResolved }

// UnitDied is emitted when a unit's HP reaches zero. KillerID is empty when
// the death came from a status tick with no attributable attacker.
type UnitDied struct {
	UnitID   string
	KillerID string
}

// EventType implements Event.
func (UnitDied) EventType() EventType { return TypeUnitDied }

// StatusApplied is emitted when a status effect lands on a unit.
type StatusApplied struct {
	UnitID   string
	Effect   string
	Duration int
}

// EventType implements Event.
func (StatusApplied) EventType() EventType { return TypeStatusApplied }

// StatusExpired is emitted when a status effect's duration reaches zero.
type StatusExpired struct {
	UnitID string
	Effect string
}

// EventType implements Event.
func (StatusExpired) EventType() EventType { return TypeStatusExpired }

// StatusDamage is emitted for each DoT/HoT payload applied during a tick.
// Negative Damage is a heal.
type StatusDamage struct {
	UnitID string
	Effect string
	Damage int
}

// EventType implements Event.
func (StatusDamage) EventType() EventType { return TypeStatusDamage }

// Sink receives combat events as they are emitted. Implementations must not
// call back into the emitting System.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit implements Sink.
func (f SinkFunc) Emit(e Event) { f(e) }

// NopSink discards all events.
var NopSink Sink = SinkFunc(func(Event) {})

// MultiSink fans events out to every sink in order.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			s.Emit(e)
		}
	})
}
