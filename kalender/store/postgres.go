package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

const writeQueueSize = 256

// PostgresStore is the remote multi-tenant adapter. Facts live in the
// session_facts table, one JSONB row per (session, key).
//
// All reads are served from an in-process overlay that is updated
// synchronously on every write, so reads immediately after a write observe
// the new fact even though the remote upsert settles in the background.
// Flush drains the pending write queue; tests and shutdown use it as the
// synchronization point.
type PostgresStore struct {
	db        *bun.DB
	sessionID string
	overlay   *MemoryStore

	mu      sync.Mutex
	writes  chan writeOp
	pending sync.WaitGroup
	closed  bool
}

type writeOp struct {
	key    string
	remove bool
}

// NewPostgresStore loads the session's persisted facts into the overlay and
// starts the background flusher.
func NewPostgresStore(ctx context.Context, db *bun.DB, sessionID string) (*PostgresStore, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	s := &PostgresStore{
		db:        db,
		sessionID: sessionID,
		overlay:   NewMemoryStore(),
		writes:    make(chan writeOp, writeQueueSize),
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	go s.flushLoop()
	return s, nil
}

func (s *PostgresStore) load(ctx context.Context) error {
	var facts []SessionFact
	err := s.db.NewSelect().
		Model(&facts).
		Where("session_id = ?", s.sessionID).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session facts: %w", err)
	}

	restore := make(map[string]json.RawMessage, len(facts))
	for _, f := range facts {
		restore[f.Key] = f.Value
	}
	s.overlay.Restore(restore)

	slog.Info("Session facts loaded",
		slog.String("type", "db"),
		slog.String("session_id", s.sessionID),
		slog.Int("fact_count", len(facts)))
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string, out any) (bool, error) {
	return s.overlay.Get(ctx, key, out)
}

func (s *PostgresStore) Set(ctx context.Context, key string, value any) error {
	if err := s.overlay.Set(ctx, key, value); err != nil {
		return err
	}
	return s.enqueue(writeOp{key: key})
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if err := s.overlay.Remove(ctx, key); err != nil {
		return err
	}
	return s.enqueue(writeOp{key: key, remove: true})
}

func (s *PostgresStore) AddToSet(ctx context.Context, key string, member string) (bool, error) {
	added, err := s.overlay.AddToSet(ctx, key, member)
	if err != nil || !added {
		return added, err
	}
	return true, s.enqueue(writeOp{key: key})
}

func (s *PostgresStore) InSet(ctx context.Context, key string, member string) (bool, error) {
	return s.overlay.InSet(ctx, key, member)
}

func (s *PostgresStore) Revision() int64 {
	return s.overlay.Revision()
}

func (s *PostgresStore) enqueue(op writeOp) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.pending.Add(1)
	s.mu.Unlock()

	s.writes <- op
	return nil
}

// Flush blocks until every queued remote write has settled.
func (s *PostgresStore) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes and stops the flusher.
func (s *PostgresStore) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.Flush(ctx); err != nil {
		return err
	}
	close(s.writes)
	return nil
}

func (s *PostgresStore) flushLoop() {
	for op := range s.writes {
		s.apply(op)
		s.pending.Done()
	}
}

func (s *PostgresStore) apply(op writeOp) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if op.remove {
		_, err := s.db.NewDelete().
			Model((*SessionFact)(nil)).
			Where("session_id = ? AND key = ?", s.sessionID, op.key).
			Exec(ctx)
		if err != nil {
			slog.Error("Failed to delete session fact",
				slog.String("type", "db"),
				slog.String("session_id", s.sessionID),
				slog.String("key", op.key),
				slog.Any("error", err))
		}
		return
	}

	raw, ok := s.overlay.raw(op.key)
	if !ok {
		// Removed again before the write settled; the delete op handles it.
		return
	}

	fact := &SessionFact{
		SessionID: s.sessionID,
		Key:       op.key,
		Value:     raw,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.NewInsert().
		Model(fact).
		On("CONFLICT (session_id, key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		slog.Error("Failed to upsert session fact",
			slog.String("type", "db"),
			slog.String("session_id", s.sessionID),
			slog.String("key", op.key),
			slog.Any("error", err))
	}
}
