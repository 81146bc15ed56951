// Package ability provides data-driven special abilities: YAML-loaded
// definitions carrying dice-expression damage, resource costs, area shapes,
// applied status effects, and optional Lua on-hit hooks.
package ability

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gridfall/server/internal/game/dice"
)

// Def is the static definition of one special ability.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Damage is a dice expression, e.g. "2d8+4", rolled per use and added to
	// the scaled spiritual attack stat.
	Damage string `yaml:"damage"`
	// DamageType overrides the spiritual default: "physical", "magical",
	// "spiritual", or "true".
	DamageType string `yaml:"damage_type"`
	Accuracy   int    `yaml:"accuracy"`
	CritChance int    `yaml:"crit_chance"`
	Range      int    `yaml:"range"`
	MPCost     int    `yaml:"mp_cost"`
	// Penetration in [0,1] scales the target's effective defense down.
	Penetration float64 `yaml:"penetration"`

	Area         bool `yaml:"area"`
	AreaRadius   int  `yaml:"area_radius"`
	FriendlyFire bool `yaml:"friendly_fire"`

	// AppliesStatus names a status effect attached on hit; StatusDuration of
	// 0 falls back to the effect definition's own duration.
	AppliesStatus  string `yaml:"applies_status"`
	StatusDuration int    `yaml:"status_duration"`

	// LuaOnHit is an optional script body run after a hit is rolled and
	// before damage is applied; it may adjust the pending action.
	LuaOnHit string `yaml:"lua_on_hit"`
}

// Validate checks the definition's invariants.
func (d *Def) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if d.Damage != "" {
		if _, err := dice.Parse(d.Damage); err != nil {
			errs = append(errs, fmt.Sprintf("damage: %v", err))
		}
	}
	switch d.DamageType {
	case "", "physical", "magical", "spiritual", "true":
	default:
		errs = append(errs, fmt.Sprintf("damage_type %q unknown", d.DamageType))
	}
	if d.Accuracy < 1 || d.Accuracy > 100 {
		errs = append(errs, fmt.Sprintf("accuracy must be 1-100, got %d", d.Accuracy))
	}
	if d.CritChance < 0 || d.CritChance > 100 {
		errs = append(errs, fmt.Sprintf("crit_chance must be 0-100, got %d", d.CritChance))
	}
	if d.Range < 1 {
		errs = append(errs, fmt.Sprintf("range must be >= 1, got %d", d.Range))
	}
	if d.MPCost < 0 {
		errs = append(errs, fmt.Sprintf("mp_cost must be >= 0, got %d", d.MPCost))
	}
	if d.Penetration < 0 || d.Penetration > 1 {
		errs = append(errs, fmt.Sprintf("penetration must be in [0,1], got %g", d.Penetration))
	}
	if d.Area && d.AreaRadius < 1 {
		errs = append(errs, fmt.Sprintf("area_radius must be >= 1 for area abilities, got %d", d.AreaRadius))
	}
	if d.StatusDuration < 0 {
		errs = append(errs, fmt.Sprintf("status_duration must be >= 0, got %d", d.StatusDuration))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ability %q: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Registry holds all known ability Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Defs.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// DefaultRegistry returns a Registry populated with the stock Gridfall
// abilities used by the battlesim and tests.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range []*Def{
		{
			ID: "venom_strike", Name: "Venom Strike",
			Damage: "1d8+2", DamageType: "physical",
			Accuracy: 85, CritChance: 10, Range: 1, MPCost: 6,
			AppliesStatus: "poison",
		},
		{
			ID: "fireball", Name: "Fireball",
			Damage: "2d6+4", DamageType: "magical",
			Accuracy: 75, CritChance: 15, Range: 5, MPCost: 14,
			Area: true, AreaRadius: 2, AppliesStatus: "burn",
		},
		{
			ID: "soul_lance", Name: "Soul Lance",
			Damage: "2d8", Accuracy: 80, CritChance: 20, Range: 4, MPCost: 12,
			Penetration: 0.5,
		},
		{
			ID: "rally_cry", Name: "Rally Cry",
			Damage: "1d4", DamageType: "true",
			Accuracy: 95, CritChance: 0, Range: 3, MPCost: 8,
			AppliesStatus: "buff_attack",
		},
	} {
		r.Register(def)
	}
	return r
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def,
// validates it, and registers it into reg.
//
// Precondition: dir must be a readable directory.
func LoadDirectory(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading ability dir %q: %w", dir, err)
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
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return nil
}
