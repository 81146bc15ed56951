// Package config provides Viper-based configuration loading for the Gridfall
// combat server. Every tunable balance constant in the combat core lives
// here so a balance change never requires recompilation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the battle log.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// AttackKindConfig holds the per-attack-kind base numbers an action is
// constructed from.
type AttackKindConfig struct {
	// Accuracy is the base hit chance percentage before modifiers.
	Accuracy int `mapstructure:"accuracy"`
	// CritChance is the base critical chance percentage.
	CritChance int `mapstructure:"crit_chance"`
	// Range is the maximum Manhattan distance to the target.
	Range int `mapstructure:"range"`
	// DamageScale multiplies the attacker's relevant attack stat.
	DamageScale float64 `mapstructure:"damage_scale"`
	// MPCost is the mana cost; zero for melee and ranged.
	MPCost int `mapstructure:"mp_cost"`
}

// CombatConfig holds every tunable numeric constant of the resolution core.
// The defaults documented here are starting balance, not law.
type CombatConfig struct {
	Melee  AttackKindConfig `mapstructure:"melee"`
	Ranged AttackKindConfig `mapstructure:"ranged"`
	Spell  AttackKindConfig `mapstructure:"spell"`

	// MinAccuracy and MaxAccuracy clamp final accuracy so neither guaranteed
	// hits nor guaranteed misses occur under normal modifier stacking.
	MinAccuracy int `mapstructure:"min_accuracy"`
	MaxAccuracy int `mapstructure:"max_accuracy"`

	// HeightBonusPerUnit is accuracy added per unit of height advantage.
	HeightBonusPerUnit int `mapstructure:"height_bonus_per_unit"`
	// HeightBonusCap bounds the total height accuracy bonus.
	HeightBonusCap int `mapstructure:"height_bonus_cap"`
	// LongRangePenalty applies when a ranged shot exceeds
	// LongRangeFraction of the attack's maximum range.
	LongRangePenalty  int     `mapstructure:"long_range_penalty"`
	LongRangeFraction float64 `mapstructure:"long_range_fraction"`

	// FlankingAccuracyPenalty is subtracted from accuracy when attacking
	// into a unit's flanking zone; FlankingAccuracyRelief cancels part of it
	// and FlankingDamageBonus scales damage up. The dual bonus rewards
	// positioning twice over: relieved accuracy and extra damage.
	FlankingAccuracyPenalty int     `mapstructure:"flanking_accuracy_penalty"`
	FlankingAccuracyRelief  int     `mapstructure:"flanking_accuracy_relief"`
	FlankingDamageBonus     float64 `mapstructure:"flanking_damage_bonus"`

	// CritMultiplier scales damage on a critical, applied before mitigation.
	CritMultiplier float64 `mapstructure:"crit_multiplier"`
	// DamageVariance is the ± fraction of random damage spread.
	DamageVariance float64 `mapstructure:"damage_variance"`
	// MinDamageFraction is the guaranteed-minimum floor: this fraction of
	// pre-mitigation damage always gets through.
	MinDamageFraction float64 `mapstructure:"min_damage_fraction"`
	// DefenseSoftcap is the K in reduction = def / (def + K).
	DefenseSoftcap float64 `mapstructure:"defense_softcap"`

	// AreaFalloffFloor is the damage fraction at the edge of an area radius;
	// falloff is linear from 1.0 at the center.
	AreaFalloffFloor float64 `mapstructure:"area_falloff_floor"`

	// StatusDurations overrides effect definition durations by name.
	StatusDurations map[string]int `mapstructure:"status_durations"`

	// XPBase is experience for defeating an equal-level target outright;
	// XPLevelDeltaScale shifts it per level of difference, and XPMinAward is
	// the floor so even a much lower-level target grants something.
	XPBase            int     `mapstructure:"xp_base"`
	XPLevelDeltaScale float64 `mapstructure:"xp_level_delta_scale"`
	XPMinAward        int     `mapstructure:"xp_min_award"`
}

// KindConfig returns the AttackKindConfig for the named attack kind. Ability
// attacks carry their numbers in their definitions, so only the three
// built-in kinds resolve here.
func (c CombatConfig) KindConfig(kind string) (AttackKindConfig, bool) {
	switch kind {
	case "melee":
		return c.Melee, true
	case "ranged":
		return c.Ranged, true
	case "spell":
		return c.Spell, true
	default:
		return AttackKindConfig{}, false
	}
}

// DataConfig points at the data-definition directories.
type DataConfig struct {
	// EffectsDir holds status effect YAML overrides; empty uses built-ins.
	EffectsDir string `mapstructure:"effects_dir"`
	// AbilitiesDir holds ability YAML definitions; empty uses built-ins.
	AbilitiesDir string `mapstructure:"abilities_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Data     DataConfig     `mapstructure:"data"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if the configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string

	for _, kind := range []struct {
		name string
		cfg  AttackKindConfig
	}{
		{"melee", c.Melee}, {"ranged", c.Ranged}, {"spell", c.Spell},
	} {
		if kind.cfg.Accuracy < 1 || kind.cfg.Accuracy > 100 {
			errs = append(errs, fmt.Sprintf("combat.%s.accuracy must be 1-100, got %d", kind.name, kind.cfg.Accuracy))
		}
		if kind.cfg.CritChance < 0 || kind.cfg.CritChance > 100 {
			errs = append(errs, fmt.Sprintf("combat.%s.crit_chance must be 0-100, got %d", kind.name, kind.cfg.CritChance))
		}
		if kind.cfg.Range < 1 {
			errs = append(errs, fmt.Sprintf("combat.%s.range must be >= 1, got %d", kind.name, kind.cfg.Range))
		}
		if kind.cfg.DamageScale <= 0 {
			errs = append(errs, fmt.Sprintf("combat.%s.damage_scale must be > 0, got %g", kind.name, kind.cfg.DamageScale))
		}
		if kind.cfg.MPCost < 0 {
			errs = append(errs, fmt.Sprintf("combat.%s.mp_cost must be >= 0, got %d", kind.name, kind.cfg.MPCost))
		}
	}

	if c.MinAccuracy < 0 || c.MaxAccuracy > 100 || c.MinAccuracy >= c.MaxAccuracy {
		errs = append(errs, fmt.Sprintf("combat accuracy band [%d,%d] must satisfy 0 <= min < max <= 100", c.MinAccuracy, c.MaxAccuracy))
	}
	if c.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("combat.crit_multiplier must be >= 1, got %g", c.CritMultiplier))
	}
	if c.DamageVariance < 0 || c.DamageVariance >= 1 {
		errs = append(errs, fmt.Sprintf("combat.damage_variance must be in [0,1), got %g", c.DamageVariance))
	}
	if c.MinDamageFraction < 0 || c.MinDamageFraction > 1 {
		errs = append(errs, fmt.Sprintf("combat.min_damage_fraction must be in [0,1], got %g", c.MinDamageFraction))
	}
	if c.DefenseSoftcap <= 0 {
		errs = append(errs, fmt.Sprintf("combat.defense_softcap must be > 0, got %g", c.DefenseSoftcap))
	}
	if c.AreaFalloffFloor < 0 || c.AreaFalloffFloor > 1 {
		errs = append(errs, fmt.Sprintf("combat.area_falloff_floor must be in [0,1], got %g", c.AreaFalloffFloor))
	}
	if c.LongRangeFraction <= 0 || c.LongRangeFraction > 1 {
		errs = append(errs, fmt.Sprintf("combat.long_range_fraction must be in (0,1], got %g", c.LongRangeFraction))
	}
	for name, dur := range c.StatusDurations {
		if dur <= 0 {
			errs = append(errs, fmt.Sprintf("combat.status_durations[%s] must be > 0, got %d", name, dur))
		}
	}
	if c.XPBase < 0 {
		errs = append(errs, fmt.Sprintf("combat.xp_base must be >= 0, got %d", c.XPBase))
	}
	if c.XPMinAward < 0 {
		errs = append(errs, fmt.Sprintf("combat.xp_min_award must be >= 0, got %d", c.XPMinAward))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path (optional: an empty path
// uses defaults only), applies GRIDFALL_-prefixed environment variable
// overrides, and validates the result.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("GRIDFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the compiled-in configuration defaults.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	cfg, err := Load("")
	if err != nil {
		panic("config: default configuration invalid: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "gridfall")
	v.SetDefault("database.password", "gridfall")
	v.SetDefault("database.name", "gridfall")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("combat.melee.accuracy", 90)
	v.SetDefault("combat.melee.crit_chance", 10)
	v.SetDefault("combat.melee.range", 1)
	v.SetDefault("combat.melee.damage_scale", 1.0)
	v.SetDefault("combat.melee.mp_cost", 0)

	v.SetDefault("combat.ranged.accuracy", 80)
	v.SetDefault("combat.ranged.crit_chance", 10)
	v.SetDefault("combat.ranged.range", 5)
	v.SetDefault("combat.ranged.damage_scale", 0.85)
	v.SetDefault("combat.ranged.mp_cost", 0)

	v.SetDefault("combat.spell.accuracy", 75)
	v.SetDefault("combat.spell.crit_chance", 15)
	v.SetDefault("combat.spell.range", 6)
	v.SetDefault("combat.spell.damage_scale", 1.0)
	v.SetDefault("combat.spell.mp_cost", 10)

	v.SetDefault("combat.min_accuracy", 5)
	v.SetDefault("combat.max_accuracy", 95)
	v.SetDefault("combat.height_bonus_per_unit", 5)
	v.SetDefault("combat.height_bonus_cap", 15)
	v.SetDefault("combat.long_range_penalty", 10)
	v.SetDefault("combat.long_range_fraction", 0.75)
	v.SetDefault("combat.flanking_accuracy_penalty", 10)
	v.SetDefault("combat.flanking_accuracy_relief", 10)
	v.SetDefault("combat.flanking_damage_bonus", 0.25)
	v.SetDefault("combat.crit_multiplier", 1.75)
	v.SetDefault("combat.damage_variance", 0.15)
	v.SetDefault("combat.min_damage_fraction", 0.1)
	v.SetDefault("combat.defense_softcap", 50.0)
	v.SetDefault("combat.area_falloff_floor", 0.4)
	v.SetDefault("combat.xp_base", 50)
	v.SetDefault("combat.xp_level_delta_scale", 0.15)
	v.SetDefault("combat.xp_min_award", 1)

	v.SetDefault("data.effects_dir", "")
	v.SetDefault("data.abilities_dir", "")
}
