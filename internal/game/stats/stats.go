// Package stats implements the per-unit attribute and resource model for
// Gridfall combat: HP/MP pools, the nine base attributes, derived combat
// stats, and the named temporary/equipment modifier deltas layered on top.
package stats

// Attribute names one of the nine base attributes.
type Attribute string

const (
	Strength  Attribute = "strength"
	Fortitude Attribute = "fortitude"
	Finesse   Attribute = "finesse"
	Wisdom    Attribute = "wisdom"
	Wonder    Attribute = "wonder"
	Worthy    Attribute = "worthy"
	Faith     Attribute = "faith"
	Spirit    Attribute = "spirit"
	Speed     Attribute = "speed"
)

// Attributes lists all nine base attributes in canonical order.
var Attributes = []Attribute{
	Strength, Fortitude, Finesse, Wisdom, Wonder, Worthy, Faith, Spirit, Speed,
}

// Component holds one unit's resource pools, base attributes, and derived
// combat stats. It is not safe for concurrent use; the owning battle session
// serialises access.
//
// Invariant: 0 <= CurrentHP <= MaxHP and 0 <= CurrentMP <= MaxMP after every
// mutation. Alive == (CurrentHP > 0) after every HP mutation.
type Component struct {
	Level int

	base map[Attribute]int

	MaxHP     int
	CurrentHP int
	MaxMP     int
	CurrentMP int

	PhysicalAttack  int
	MagicalAttack   int
	SpiritualAttack int

	PhysicalDefense  int
	MagicalDefense   int
	SpiritualDefense int

	Accuracy       int
	CriticalChance int
	DodgeChance    int
	MovePoints     int
	Initiative     int

	Alive bool

	tempModifiers  map[Attribute]int
	equipmentBonus map[Attribute]int
}

// New creates a Component at the given level with the given base attributes,
// computes all derived stats, and fills HP/MP to max.
//
// Precondition: level >= 1; attribute values must be >= 0 (negative values
// are clamped to 0).
// Postcondition: CurrentHP == MaxHP, CurrentMP == MaxMP, Alive is true.
func New(level int, base map[Attribute]int) *Component {
	c := &Component{
		Level:          level,
		base:           make(map[Attribute]int, len(Attributes)),
		tempModifiers:  make(map[Attribute]int),
		equipmentBonus: make(map[Attribute]int),
	}
	for _, a := range Attributes {
		v := base[a]
		if v < 0 {
			v = 0
		}
		c.base[a] = v
	}
	c.CalculateDerivedStats()
	c.CurrentHP = c.MaxHP
	c.CurrentMP = c.MaxMP
	c.Alive = true
	return c
}

// BaseAttribute returns the unmodified base value for a.
func (c *Component) BaseAttribute(a Attribute) int {
	return c.base[a]
}

// SetBaseAttribute sets the base value for a (level-up or permanent buff) and
// recomputes derived stats, preserving current/max resource ratios.
//
// Precondition: value >= 0 (negative values are clamped to 0).
func (c *Component) SetBaseAttribute(a Attribute, value int) {
	if value < 0 {
		value = 0
	}
	c.base[a] = value
	c.CalculateDerivedStats()
}

// EffectiveAttribute returns base + temporary modifier + equipment bonus for a.
// Unknown names contribute 0 from every map rather than erroring.
func (c *Component) EffectiveAttribute(a Attribute) int {
	return c.base[a] + c.tempModifiers[a] + c.equipmentBonus[a]
}

// ApplyTemporaryModifier adds value to the current temporary modifier for a,
// stacking with any existing delta. Duration bookkeeping is the caller's
// responsibility: the status-effect tick drives expiry by calling
// RemoveTemporaryModifier with the same value when time elapses.
func (c *Component) ApplyTemporaryModifier(a Attribute, value int) {
	if value == 0 {
		return
	}
	c.tempModifiers[a] += value
	if c.tempModifiers[a] == 0 {
		delete(c.tempModifiers, a)
	}
}

// RemoveTemporaryModifier subtracts value from the temporary modifier for a.
// If the subtraction overshoots past zero the modifier is clamped to zero.
// A modifier that reaches exactly zero has its key deleted so the map does
// not grow without bound.
//
// Postcondition: ApplyTemporaryModifier(a, v) followed by
// RemoveTemporaryModifier(a, v) restores the prior effective value exactly.
func (c *Component) RemoveTemporaryModifier(a Attribute, value int) {
	prev, ok := c.tempModifiers[a]
	if !ok {
		return
	}
	next := prev - value
	// Overshoot past zero clamps to zero: removing more than was applied
	// must not invert the modifier's sign.
	if (prev > 0 && next < 0) || (prev < 0 && next > 0) {
		next = 0
	}
	if next == 0 {
		delete(c.tempModifiers, a)
		return
	}
	c.tempModifiers[a] = next
}

// SetEquipmentBonus records an attribute-level equipment bonus, replacing any
// existing bonus for a. A zero value deletes the key.
func (c *Component) SetEquipmentBonus(a Attribute, value int) {
	if value == 0 {
		delete(c.equipmentBonus, a)
		return
	}
	c.equipmentBonus[a] = value
}

// Heal raises CurrentHP by amount, clamped to MaxHP.
//
// Precondition: amount <= 0 is a no-op returning 0.
// Postcondition: Returns the HP actually restored; CurrentHP <= MaxHP.
func (c *Component) Heal(amount int) int {
	if amount <= 0 || !c.Alive {
		return 0
	}
	healed := amount
	if c.CurrentHP+healed > c.MaxHP {
		healed = c.MaxHP - c.CurrentHP
	}
	c.CurrentHP += healed
	return healed
}

// RestoreMP raises CurrentMP by amount, clamped to MaxMP.
//
// Postcondition: Returns the MP actually restored; CurrentMP <= MaxMP.
func (c *Component) RestoreMP(amount int) int {
	if amount <= 0 {
		return 0
	}
	restored := amount
	if c.CurrentMP+restored > c.MaxMP {
		restored = c.MaxMP - c.CurrentMP
	}
	c.CurrentMP += restored
	return restored
}

// TakeDamage reduces CurrentHP by amount, flooring at zero, and reports
// whether this damage killed the unit. A non-positive amount is a no-op.
// Damage to an already-dead unit is a no-op; death is reported exactly once.
//
// Postcondition: CurrentHP >= 0; Alive == (CurrentHP > 0).
func (c *Component) TakeDamage(amount int) (died bool) {
	if amount <= 0 || !c.Alive {
		return false
	}
	c.CurrentHP -= amount
	if c.CurrentHP <= 0 {
		c.CurrentHP = 0
		c.Alive = false
		return true
	}
	return false
}

// ConsumeMP deducts amount from CurrentMP, failing without mutation when the
// pool is insufficient. The re-check here guards against MP drained between
// validation and deduction.
//
// Postcondition: Returns true iff amount was deducted; CurrentMP >= 0.
func (c *Component) ConsumeMP(amount int) bool {
	if amount < 0 {
		return false
	}
	if c.CurrentMP < amount {
		return false
	}
	c.CurrentMP -= amount
	return true
}
