package questionnaire

import (
	"context"
	"fmt"
	"sync"
	"time"

	"careerpath/domain/core"
	"careerpath/internal"
)

const DefaultTTL = 2 * time.Hour

// Manager owns the live sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*Session

	bank   *Bank
	ttl    time.Duration
	now    func() time.Time
	logger *internal.Logger
}

func NewManager(bank *Bank, ttl time.Duration, logger *internal.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Manager{
		sessions: make(map[core.SessionID]*Session),
		bank:     bank,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (m *Manager) Bank() *Bank { return m.bank }

// Start opens a session over features
func (m *Manager) Start(features []string) *Session {
	s := newSession(core.NewSessionID(), features, m.bank, m.now())

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Debug("[Sessions] Started %s with %d features", s.id, len(features))
	return s
}

// Get returns a live session and marks it active
func (m *Manager) Get(id core.SessionID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	s.touch(m.now())
	return s, nil
}

// End tears a session down
func (m *Manager) End(id core.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	m.logger.Debug("[Sessions] Ended %s", id)
	return nil
}

// Sweep ends every session idle for longer than the TTL and returns how many
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastActive()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("[Sessions] Swept %d idle sessions, %d remain", removed, len(m.sessions))
	}
	return removed
}

// Run sweeps on every tick until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			m.Sweep(t)
		}
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
