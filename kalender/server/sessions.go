package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
	"github.com/vintervake/kodekalender/kalender/store"
)

const sessionCookie = "kalender_sid"

// SessionRegistry hands out one engine per session, created lazily on
// first request. With a database configured each session gets its own
// persistent store; without one, sessions live in memory only.
type SessionRegistry struct {
	mu       sync.Mutex
	catalog  *content.Catalog
	db       *store.DB
	opts     engine.Options
	hub      *Hub
	sessions map[string]*session
}

type session struct {
	engine *engine.Engine
	store  store.Store
}

func NewSessionRegistry(catalog *content.Catalog, db *store.DB, opts engine.Options, hub *Hub) *SessionRegistry {
	return &SessionRegistry{
		catalog:  catalog,
		db:       db,
		opts:     opts,
		hub:      hub,
		sessions: make(map[string]*session),
	}
}

// Engine returns the session's engine, creating store and engine on first
// use.
func (r *SessionRegistry) Engine(ctx context.Context, sessionID string) (*engine.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		return s.engine, nil
	}

	var st store.Store
	if r.db != nil {
		ps, err := store.NewPostgresStore(ctx, r.db.BunDB(), sessionID)
		if err != nil {
			return nil, err
		}
		st = ps
	} else {
		st = store.NewMemoryStore()
	}

	eng := engine.New(sessionID, r.catalog, st, r.opts)
	if r.hub != nil {
		eng.Badges().Subscribe(r.hub.BadgeObserver)
	}
	r.sessions[sessionID] = &session{engine: eng, store: st}
	return eng, nil
}

// Close flushes and closes every open session store.
func (r *SessionRegistry) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for id, s := range r.sessions {
		if err := s.engine.Flush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		if ps, ok := s.store.(*store.PostgresStore); ok {
			if err := ps.Close(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(r.sessions, id)
	}
	return firstErr
}

// sessionID reads the session cookie, minting a new ID and setting the
// cookie when absent.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := newSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
