package controller

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/render"
	"go.uber.org/zap"
)

// Options are the per-session controller settings.
type Options struct {
	ItemsPerPage  int
	DeleteEnabled bool
	SearchEnabled bool
	Workers       int
}

// Manager owns every open session together with the worker pool and event
// bus they share.
type Manager struct {
	catalog  catalog.Catalog
	renderer *render.Renderer
	pool     *ants.Pool
	bus      EventBus.Bus
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cat catalog.Catalog, renderer *render.Renderer, opts Options) (*Manager, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 32
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	return &Manager{
		catalog:  cat,
		renderer: renderer,
		pool:     pool,
		bus:      EventBus.New(),
		opts:     opts,
		sessions: make(map[string]*Session),
	}, nil
}

func (m *Manager) Bus() EventBus.Bus {
	return m.bus
}

func (m *Manager) Renderer() *render.Renderer {
	return m.renderer
}

// Open starts a new session and issues its initial load. The channel closes
// once that load has been applied.
func (m *Manager) Open() (*Session, <-chan struct{}) {
	s := newSession(uuid.NewString(), m.catalog, m.renderer, m.pool, m.bus, m.opts)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	zap.L().Info("catalog session opened", zap.String("namespace", "controller"), zap.String("session", s.ID))
	return s, s.Dispatch(Load{})
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Purge closes sessions idle for longer than maxIdle and returns how many were closed.
func (m *Manager) Purge(maxIdle time.Duration) int {
	deadline := time.Now().Add(-maxIdle)
	var stale []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(deadline) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		zap.L().Info("idle catalog sessions purged", zap.String("namespace", "controller"), zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Close stops every session and releases the pool.
func (m *Manager) Close() {
	m.mu.Lock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	m.pool.Release()
}
