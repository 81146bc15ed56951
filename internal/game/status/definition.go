// Package status implements named status effects for Gridfall combat:
// static YAML-loaded definitions and the per-unit active set with
// tick-driven duration tracking.
package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EffectDef is the static definition of a status effect, loaded from YAML or
// taken from the compiled-in defaults.
type EffectDef struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	DurationTicks int    `yaml:"duration_ticks"`
	// DamagePerTick is the DoT payload applied on every tick the effect is
	// active. Negative values heal; the mechanism is symmetric.
	DamagePerTick int `yaml:"damage_per_tick"`
	// SelfAccuracy shifts the accuracy of attacks made by the afflicted unit
	// (blind is negative, focused is positive).
	SelfAccuracy int `yaml:"self_accuracy"`
	// TargetedAccuracy shifts the accuracy of attacks made against the
	// afflicted unit (dodge_boost is negative, stunned is positive).
	TargetedAccuracy int `yaml:"targeted_accuracy"`
	// Attribute and AttributeDelta describe a temporary attribute modifier
	// applied for the effect's lifetime (buff_attack, buff_defense).
	Attribute      string `yaml:"attribute"`
	AttributeDelta int    `yaml:"attribute_delta"`
}

// Registry holds all known EffectDefs keyed by name.
type Registry struct {
	defs map[string]*EffectDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*EffectDef)}
}

// Register adds def to the registry, overwriting any existing entry with the
// same name.
//
// Precondition: def must not be nil and def.Name must not be empty.
func (r *Registry) Register(def *EffectDef) {
	r.defs[def.Name] = def
}

// Get returns the EffectDef for name, or (nil, false) if not found.
func (r *Registry) Get(name string) (*EffectDef, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// All returns a snapshot slice of all registered EffectDefs.
func (r *Registry) All() []*EffectDef {
	out := make([]*EffectDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// DefaultRegistry returns a Registry populated with the stock Gridfall
// effects. The battlesim and tests run off these; production deployments
// layer LoadDirectory on top.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range []*EffectDef{
		{Name: "poison", DurationTicks: 3, DamagePerTick: 4},
		{Name: "burn", DurationTicks: 2, DamagePerTick: 6},
		{Name: "freeze", DurationTicks: 1, SelfAccuracy: -15},
		{Name: "stun", DurationTicks: 1, TargetedAccuracy: 15},
		{Name: "blind", DurationTicks: 2, SelfAccuracy: -25},
		{Name: "focused", DurationTicks: 2, SelfAccuracy: 10},
		{Name: "dodge_boost", DurationTicks: 2, TargetedAccuracy: -10},
		{Name: "buff_attack", DurationTicks: 3, Attribute: "strength", AttributeDelta: 3},
		{Name: "buff_defense", DurationTicks: 3, Attribute: "fortitude", AttributeDelta: 3},
		{Name: "regen", DurationTicks: 3, DamagePerTick: -5},
	} {
		r.Register(def)
	}
	return r
}

// LoadDirectory reads every *.yaml file in dir, parses each as an EffectDef,
// and registers it into reg (overriding defaults with the same name).
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns an error if any file fails to parse; reg may be
// partially updated on error.
func LoadDirectory(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading status effect dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		var def EffectDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if def.Name == "" {
			return fmt.Errorf("parsing %q: effect name must not be empty", path)
		}
		if def.DurationTicks <= 0 {
			return fmt.Errorf("parsing %q: duration_ticks must be > 0", path)
		}
		reg.Register(&def)
	}
	return nil
}
