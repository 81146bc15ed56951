package stats

// Snapshot is the plain data form of a Component for external serialization.
// The combat core defines no wire format; hosting layers marshal Snapshot
// however they like.
type Snapshot struct {
	Level          int               `yaml:"level" json:"level"`
	Attributes     map[Attribute]int `yaml:"attributes" json:"attributes"`
	CurrentHP      int               `yaml:"current_hp" json:"current_hp"`
	CurrentMP      int               `yaml:"current_mp" json:"current_mp"`
	TempModifiers  map[Attribute]int `yaml:"temp_modifiers,omitempty" json:"temp_modifiers,omitempty"`
	EquipmentBonus map[Attribute]int `yaml:"equipment_bonus,omitempty" json:"equipment_bonus,omitempty"`
}

// Snapshot captures the component's persistent fields. Derived stats are
// omitted: they are recomputed, never stored.
func (c *Component) Snapshot() Snapshot {
	s := Snapshot{
		Level:      c.Level,
		Attributes: make(map[Attribute]int, len(c.base)),
		CurrentHP:  c.CurrentHP,
		CurrentMP:  c.CurrentMP,
	}
	for a, v := range c.base {
		s.Attributes[a] = v
	}
	if len(c.tempModifiers) > 0 {
		s.TempModifiers = make(map[Attribute]int, len(c.tempModifiers))
		for a, v := range c.tempModifiers {
			s.TempModifiers[a] = v
		}
	}
	if len(c.equipmentBonus) > 0 {
		s.EquipmentBonus = make(map[Attribute]int, len(c.equipmentBonus))
		for a, v := range c.equipmentBonus {
			s.EquipmentBonus[a] = v
		}
	}
	return s
}

// FromSnapshot reconstructs a Component from its data form. Derived stats are
// recomputed from the attributes; pools are clamped into [0, max].
//
// Postcondition: FromSnapshot(c.Snapshot()) reproduces c's field values.
func FromSnapshot(s Snapshot) *Component {
	c := New(s.Level, s.Attributes)
	for a, v := range s.TempModifiers {
		c.tempModifiers[a] = v
	}
	for a, v := range s.EquipmentBonus {
		c.equipmentBonus[a] = v
	}
	// Modifiers feed the derived formulas, so maxima must be recomputed
	// before the stored pools are clamped against them.
	c.CalculateDerivedStats()
	c.CurrentHP = clamp(s.CurrentHP, 0, c.MaxHP)
	c.CurrentMP = clamp(s.CurrentMP, 0, c.MaxMP)
	c.Alive = c.CurrentHP > 0
	return c
}
