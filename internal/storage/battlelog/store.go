package battlelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gridfall/server/internal/game/combat"
)

// Entry is one persisted combat event.
type Entry struct {
	ID        int64
	BattleID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// Store persists combat events to the battle_events table.
type Store struct {
	pool   *Pool
	logger *zap.Logger
}

// NewStore creates a Store backed by the given pool.
//
// Precondition: pool and logger must be non-nil.
func NewStore(pool *Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Append persists one combat event for the given battle.
//
// Postcondition: Returns nil iff the event row was written.
func (s *Store) Append(ctx context.Context, battleID string, event combat.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.EventType(), err)
	}
	_, err = s.pool.DB().Exec(ctx,
		`INSERT INTO battle_events (battle_id, event_type, payload) VALUES ($1, $2, $3)`,
		battleID, string(event.EventType()), payload,
	)
	if err != nil {
		return fmt.Errorf("inserting %s event: %w", event.EventType(), err)
	}
	return nil
}

// History returns a battle's events in emission order.
//
// Postcondition: entries are ordered by insertion id ascending.
func (s *Store) History(ctx context.Context, battleID string) ([]Entry, error) {
	rows, err := s.pool.DB().Query(ctx,
		`SELECT id, battle_id, event_type, payload, created_at
		       FROM battle_events WHERE battle_id = $1 ORDER BY id`,
		battleID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying battle events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.BattleID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning battle event: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battle events: %w", err)
	}
	return entries, nil
}

// CountByType returns how many events of each type a battle produced.
func (s *Store) CountByType(ctx context.Context, battleID string) (map[string]int, error) {
	rows, err := s.pool.DB().Query(ctx,
		`SELECT event_type, COUNT(*) FROM battle_events
		       WHERE battle_id = $1 GROUP BY event_type`,
		battleID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting battle events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventType string
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("scanning event count: %w", err)
		}
		counts[eventType] = count
	}
	return counts, rows.Err()
}

// Sink adapts the store into a combat.Sink for one battle. Emit cannot
// return an error, so persistence failures are logged and dropped; the
// battle log is telemetry, not a source of truth the fight depends on.
func (s *Store) Sink(battleID string, writeTimeout time.Duration) combat.Sink {
	return combat.SinkFunc(func(e combat.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.Append(ctx, battleID, e); err != nil {
			s.logger.Warn("dropping battle event",
				zap.String("battle_id", battleID),
				zap.String("event_type", string(e.EventType())),
				zap.Error(err),
			)
		}
	})
}
