// In-memory widget sessions keyed by random ids.
package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xob0t/bggen/pkg/raster"
	"github.com/xob0t/bggen/pkg/session"
)

type entry struct {
	sess     *session.Session
	canvas   *raster.Canvas
	lastSeen time.Time
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	opts     raster.Options
	now      func() time.Time
}

func newSessionStore(opts raster.Options) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*entry),
		opts:     opts,
		now:      time.Now,
	}
}

// create starts a fresh session with its own off-screen canvas.
func (st *sessionStore) create() (string, *entry) {
	canvas := raster.NewCanvas(st.opts)
	e := &entry{
		sess:     session.New(session.WithSurface(canvas)),
		canvas:   canvas,
		lastSeen: st.now(),
	}
	id := uuid.NewString()

	st.mu.Lock()
	st.sessions[id] = e
	st.mu.Unlock()
	return id, e
}

func (st *sessionStore) get(id string) (*entry, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if ok {
		e.lastSeen = st.now()
	}
	return e, ok
}

func (st *sessionStore) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// sweep drops sessions idle for longer than ttl and returns how many were dropped.
func (st *sessionStore) sweep(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, e := range st.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}
