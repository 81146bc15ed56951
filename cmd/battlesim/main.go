// Package main provides the battlesim binary: a seeded skirmish simulation
// that drives the combat core end to end and prints the result. Useful for
// balance smoke-testing and, with a database configured, for producing
// battle logs to inspect.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gridfall/server/internal/config"
	"github.com/gridfall/server/internal/game/ability"
	"github.com/gridfall/server/internal/game/combat"
	"github.com/gridfall/server/internal/game/dice"
	"github.com/gridfall/server/internal/game/grid"
	"github.com/gridfall/server/internal/game/session"
	"github.com/gridfall/server/internal/game/stats"
	"github.com/gridfall/server/internal/game/status"
	"github.com/gridfall/server/internal/game/unit"
	"github.com/gridfall/server/internal/observability"
	"github.com/gridfall/server/internal/scripting"
	"github.com/gridfall/server/internal/storage/battlelog"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses built-in defaults")
	seed := flag.Int64("seed", 1, "random seed; the same seed replays the same battle")
	maxRounds := flag.Int("rounds", 50, "maximum rounds before calling the battle a draw")
	persist := flag.Bool("persist", false, "write combat events to the configured database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	effects := status.DefaultRegistry()
	if cfg.Data.EffectsDir != "" {
		if err := status.LoadDirectory(effects, cfg.Data.EffectsDir); err != nil {
			logger.Fatal("loading status effects", zap.Error(err))
		}
	}
	abilities := ability.DefaultRegistry()
	if cfg.Data.AbilitiesDir != "" {
		if err := ability.LoadDirectory(abilities, cfg.Data.AbilitiesDir); err != nil {
			logger.Fatal("loading abilities", zap.Error(err))
		}
	}

	hooks := scripting.NewRunner(logger, scripting.DefaultInstructionLimit)
	manager := session.NewManager(cfg.Combat, effects, abilities, hooks, logger)

	var sinkFor func(string) combat.Sink
	if *persist {
		pool, err := battlelog.NewPool(context.Background(), cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		store := battlelog.NewStore(pool, logger)
		sinkFor = func(battleID string) combat.Sink {
			return store.Sink(battleID, 5*time.Second)
		}
	}

	battle := runSkirmish(manager, dice.NewSeededSource(*seed), sinkFor, *maxRounds, logger)
	report(battle, start)
}

// runSkirmish creates a two-team battle, seeds the rosters, and plays rounds
// until one team stands or the round cap hits.
func runSkirmish(manager *session.Manager, src dice.Source, sinkFor func(string) combat.Sink, maxRounds int, logger *zap.Logger) *session.Battle {
	// CreateBattle needs the sink up front, but a store sink needs the
	// battle id; create with a forwarding sink and bind it after.
	var bound combat.Sink = combat.NopSink
	forward := combat.SinkFunc(func(e combat.Event) { bound.Emit(e) })

	battle := manager.CreateBattle(src, forward)
	if sinkFor != nil {
		bound = sinkFor(battle.ID())
	}

	spawnRoster(battle)

	for round := 1; round <= maxRounds; round++ {
		battle.AdvanceRound()
		for _, u := range battle.Units() {
			if !u.Alive() {
				continue
			}
			takeTurn(battle, u, logger)
		}
		if len(battle.LivingTeams()) < 2 {
			logger.Info("battle decided", zap.Int("round", round))
			break
		}
	}
	return battle
}

func spawnRoster(b *session.Battle) {
	b.Spawn("Kara", "azure", 3, map[stats.Attribute]int{
		stats.Strength: 6, stats.Fortitude: 4, stats.Finesse: 3, stats.Speed: 4,
	}, grid.Position{X: 0, Y: 0}, grid.South, 4)
	b.Spawn("Vess", "azure", 3, map[stats.Attribute]int{
		stats.Wonder: 6, stats.Wisdom: 5, stats.Faith: 3, stats.Speed: 3,
	}, grid.Position{X: 1, Y: 0}, grid.South, 3)
	b.Spawn("Rask", "crimson", 3, map[stats.Attribute]int{
		stats.Strength: 5, stats.Fortitude: 5, stats.Worthy: 3, stats.Speed: 3,
	}, grid.Position{X: 0, Y: 6}, grid.North, 4)
	b.Spawn("Ondra", "crimson", 3, map[stats.Attribute]int{
		stats.Faith: 6, stats.Spirit: 5, stats.Finesse: 2, stats.Speed: 3,
	}, grid.Position{X: 1, Y: 6}, grid.North, 3)
}

// takeTurn plays one unit's turn with a simple doctrine: close distance,
// then attack with the strongest affordable option.
func takeTurn(b *session.Battle, u *unit.Unit, logger *zap.Logger) {
	target := nearestEnemy(b, u)
	if target == nil {
		return
	}

	stepToward(b, u, target)

	for _, attempt := range []struct {
		kind      combat.AttackKind
		abilityID string
	}{
		{combat.KindAbility, "fireball"},
		{combat.KindSpell, ""},
		{combat.KindMelee, ""},
	} {
		outcome, rej := b.ExecuteAttack(u.ID, target.ID, attempt.kind, attempt.abilityID)
		if rej != nil {
			continue
		}
		logger.Info("attack",
			zap.String("attacker", u.Name),
			zap.String("target", target.Name),
			zap.Stringer("kind", attempt.kind),
			zap.Stringer("result", outcome.Result),
			zap.Int("damage", outcome.Damage),
			zap.Int("xp", outcome.Experience),
		)
		return
	}
}

func nearestEnemy(b *session.Battle, u *unit.Unit) *unit.Unit {
	var nearest *unit.Unit
	best := -1
	for _, other := range b.Units() {
		if !other.Alive() || u.Team.SameTeam(other.Team) {
			continue
		}
		d := u.Position.DistanceTo(other.Position)
		if best < 0 || d < best {
			best = d
			nearest = other
		}
	}
	return nearest
}

// stepToward spends the unit's movement budget walking toward the target,
// one cell at a time, stopping when adjacent.
func stepToward(b *session.Battle, u *unit.Unit, target *unit.Unit) {
	for u.Position.MovementRemaining > 0 && !u.Position.IsAdjacentTo(target.Position) {
		cur := u.Position.Position
		dst := target.Position.Position
		next := cur
		switch {
		case cur.X < dst.X:
			next.X++
		case cur.X > dst.X:
			next.X--
		case cur.Y < dst.Y:
			next.Y++
		case cur.Y > dst.Y:
			next.Y--
		}
		if next == cur || !b.MoveUnit(u.ID, next) {
			return
		}
	}
}

func report(b *session.Battle, start time.Time) {
	teams := b.LivingTeams()
	switch len(teams) {
	case 1:
		fmt.Fprintf(os.Stdout, "winner: %s [%s]\n", teams[0], time.Since(start))
	case 0:
		fmt.Fprintf(os.Stdout, "mutual destruction [%s]\n", time.Since(start))
	default:
		fmt.Fprintf(os.Stdout, "draw between %v [%s]\n", teams, time.Since(start))
	}
	for _, u := range b.Units() {
		fmt.Fprintf(os.Stdout, "  %-8s %-8s hp=%d/%d mp=%d/%d alive=%v\n",
			u.Name, u.Team.Team,
			u.Stats.CurrentHP, u.Stats.MaxHP,
			u.Stats.CurrentMP, u.Stats.MaxMP,
			u.Stats.Alive,
		)
	}
}
