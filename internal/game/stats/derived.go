package stats

// Derived-stat formulas. These are the documented defaults; combat balance
// tuning happens in config.CombatConfig, which scales on top of these values
// rather than editing them per unit.

// BaseCriticalChance is the flat floor the finesse/worthy crit scaling
// builds on. Combat substitutes its per-kind base for this floor when
// constructing an action.
const BaseCriticalChance = 5

// CalculateDerivedStats recomputes every derived stat as a pure function of
// the nine base attributes and level. Current HP/MP are rescaled so the
// current/max ratio is preserved when the max values change; a level-up never
// resets pools to full and never leaves a stale current above the new max.
//
// Postcondition: 0 <= CurrentHP <= MaxHP; 0 <= CurrentMP <= MaxMP;
// Alive is unchanged for living units (a rescale never kills).
func (c *Component) CalculateDerivedStats() {
	hpRatio := ratio(c.CurrentHP, c.MaxHP)
	mpRatio := ratio(c.CurrentMP, c.MaxMP)

	// Formulas read effective values so temporary modifiers and equipment
	// attribute bonuses flow into derived stats.
	str := c.EffectiveAttribute(Strength)
	fort := c.EffectiveAttribute(Fortitude)
	fin := c.EffectiveAttribute(Finesse)
	wis := c.EffectiveAttribute(Wisdom)
	won := c.EffectiveAttribute(Wonder)
	wor := c.EffectiveAttribute(Worthy)
	fai := c.EffectiveAttribute(Faith)
	spi := c.EffectiveAttribute(Spirit)
	spd := c.EffectiveAttribute(Speed)

	c.MaxHP = 20 + fort*5 + str*2 + c.Level*8
	c.MaxMP = 10 + wis*4 + won*2 + c.Level*4

	c.PhysicalAttack = 5 + str*2 + fin/2
	c.MagicalAttack = 5 + won*2 + wis/2
	c.SpiritualAttack = 5 + fai*2 + spi/2

	c.PhysicalDefense = 2 + fort + fort/2
	c.MagicalDefense = 2 + wis + won/2
	c.SpiritualDefense = 2 + spi + fai/2

	c.Accuracy = clamp(85+fin/2, 5, 99)
	c.CriticalChance = clamp(BaseCriticalChance+fin/3+wor/4, 0, 60)
	c.DodgeChance = clamp(spd/2+fin/4, 0, 50)
	c.MovePoints = 3 + spd/3
	c.Initiative = spd + fin/2

	c.CurrentHP = rescale(hpRatio, c.MaxHP)
	c.CurrentMP = rescale(mpRatio, c.MaxMP)

	// A living unit whose pool rounds down to zero keeps 1 HP: recomputation
	// is never a damage source.
	if c.Alive && c.CurrentHP == 0 && hpRatio > 0 {
		c.CurrentHP = 1
	}
}

// ratio returns current/max as a float, or -1 when max is zero (signalling
// "no prior pool": the caller fills to max).
func ratio(current, max int) float64 {
	if max <= 0 {
		return -1
	}
	return float64(current) / float64(max)
}

// rescale maps a preserved ratio onto a new max. A sentinel ratio of -1
// fills the pool.
func rescale(r float64, max int) int {
	if r < 0 {
		return max
	}
	v := int(r*float64(max) + 0.5)
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
