package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// AttackSnapshot is the mutable view of a pending hit passed to an ability's
// on-hit hook. The hook may adjust Damage, DamageType, and StatusEffect; the
// identity and HP fields are read-only context.
type AttackSnapshot struct {
	AbilityID    string
	AttackerName string
	TargetName   string
	AttackerHP   int
	AttackerMax  int
	TargetHP     int
	TargetMax    int
	Critical     bool

	Damage       int
	DamageType   string
	StatusEffect string
}

// Runner executes ability on-hit hooks in a fresh sandboxed VM per call so no
// state bleeds between hits and a misbehaving script cannot poison later ones.
type Runner struct {
	logger    *zap.Logger
	instLimit int
}

// NewRunner creates a Runner.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 uses the default).
func NewRunner(logger *zap.Logger, instLimit int) *Runner {
	return &Runner{logger: logger, instLimit: instLimit}
}

// RunOnHit executes script against snap. The script sees a global `attack`
// table; on success the adjustable fields are copied back into snap, with
// damage floored at zero. A script error leaves snap unchanged and is
// returned for the caller to log — a bad hook degrades to the unhooked
// ability rather than aborting the battle.
//
// Precondition: script must be non-empty; snap must be non-nil.
func (r *Runner) RunOnHit(script string, snap *AttackSnapshot) error {
	L := newSandboxedState(r.instLimit)
	defer L.Close()

	tbl := L.NewTable()
	L.SetField(tbl, "ability_id", lua.LString(snap.AbilityID))
	L.SetField(tbl, "attacker_name", lua.LString(snap.AttackerName))
	L.SetField(tbl, "target_name", lua.LString(snap.TargetName))
	L.SetField(tbl, "attacker_hp", lua.LNumber(snap.AttackerHP))
	L.SetField(tbl, "attacker_max_hp", lua.LNumber(snap.AttackerMax))
	L.SetField(tbl, "target_hp", lua.LNumber(snap.TargetHP))
	L.SetField(tbl, "target_max_hp", lua.LNumber(snap.TargetMax))
	L.SetField(tbl, "critical", lua.LBool(snap.Critical))
	L.SetField(tbl, "damage", lua.LNumber(snap.Damage))
	L.SetField(tbl, "damage_type", lua.LString(snap.DamageType))
	L.SetField(tbl, "status_effect", lua.LString(snap.StatusEffect))
	L.SetGlobal("attack", tbl)

	if err := L.DoString(script); err != nil {
		return fmt.Errorf("on-hit hook for %q: %w", snap.AbilityID, err)
	}

	if dmg, ok := L.GetField(tbl, "damage").(lua.LNumber); ok {
		d := int(dmg)
		if d < 0 {
			d = 0
		}
		snap.Damage = d
	}
	if dt, ok := L.GetField(tbl, "damage_type").(lua.LString); ok {
		snap.DamageType = string(dt)
	}
	if se, ok := L.GetField(tbl, "status_effect").(lua.LString); ok {
		snap.StatusEffect = string(se)
	}

	r.logger.Debug("ability on-hit hook ran",
		zap.String("ability_id", snap.AbilityID),
		zap.Int("damage", snap.Damage),
		zap.String("damage_type", snap.DamageType),
	)
	return nil
}
