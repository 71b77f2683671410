package selection

import (
	"sync"
	"time"

	"journalapi/internal/catalog"
	"journalapi/internal/entity"

	"go.uber.org/zap"
)

type flowKey struct {
	session string
	domain  entity.Domain
}

// Manager owns one flow per (session, domain) and evicts idle ones.
type Manager struct {
	mu       sync.Mutex
	flows    map[flowKey]*Flow
	catalog  *catalog.Service
	quiet    time.Duration
	idle     time.Duration
	log      *zap.Logger
	done     chan struct{}
	stopOnce sync.Once
}

func NewManager(cat *catalog.Service, quiet, idle time.Duration, log *zap.Logger) *Manager {
	m := &Manager{
		flows:   make(map[flowKey]*Flow),
		catalog: cat,
		quiet:   quiet,
		idle:    idle,
		log:     log,
		done:    make(chan struct{}),
	}
	if idle > 0 {
		go m.cleanupFlows()
	}
	return m
}

// Flow returns the session's flow for d, creating a closed one on first use.
// The flow is marked used before m.mu is released, so an eviction pass cannot
// drop it out from under the caller.
func (m *Manager) Flow(sessionID string, d entity.Domain) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := flowKey{session: sessionID, domain: d}
	f, ok := m.flows[k]
	if !ok {
		f = NewFlow(d, m.catalog.Searcher(d), m.quiet, m.log)
		m.flows[k] = f
	}
	f.markUsed()
	return f
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.flows)
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Manager) cleanupFlows() {
	ticker := time.NewTicker(m.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.evictIdle(now)
		}
	}
}

func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for k, f := range m.flows {
		if now.Sub(f.idleSince()) > m.idle {
			f.Close()
			delete(m.flows, k)
			evicted++
		}
	}
	if evicted > 0 {
		m.log.Debug("evicted idle selection flows", zap.Int("count", evicted))
	}
	return evicted
}
