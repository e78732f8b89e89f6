// internal/app/features/vizsessions/manager.go
package vizsessions

import (
	"sync"
	"time"

	"github.com/dalemusser/forecastviz/internal/app/system/viz"
	"go.uber.org/zap"
)

// Manager is the in-memory registry of live widget sessions. Each
// session owns one engine controller; sessions idle past the TTL are
// swept by a janitor goroutine. Widget state lives only for the
// page's session and is never persisted.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

type session struct {
	controller *viz.Controller
	lastSeen   time.Time
}

// sweepInterval is how often the janitor looks for idle sessions.
const sweepInterval = 5 * time.Minute

// NewManager creates a session manager with the given idle TTL.
func NewManager(ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Put registers a controller under id.
func (m *Manager) Put(id string, c *viz.Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &session{controller: c, lastSeen: time.Now()}
}

// Get returns the controller for id and refreshes its idle clock.
func (m *Manager) Get(id string) (*viz.Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s.controller, true
}

// Delete drops the session for id.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartJanitor launches the background sweep. Call Stop on shutdown.
func (m *Manager) StartJanitor() {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep(time.Now())
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop terminates the janitor goroutine. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			m.logger.Debug("expired idle widget session", zap.String("session_id", id))
		}
	}
}
