package server

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/swipekit-dev/swipekit/pkg/protocol"
)

// ErrTooManySessions is returned when the session cap is reached.
var ErrTooManySessions = errors.New("server: session limit reached")

// SessionManager tracks active sessions. Unlike the per-session loop
// state, it is shared between connection goroutines and locks.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxSessions int
	logger      *slog.Logger

	totalCreated uint64
	peak         int
}

// NewSessionManager returns a manager capping concurrent sessions at
// maxSessions (0 = unlimited).
func NewSessionManager(maxSessions int, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Add registers a session, enforcing the cap.
func (m *SessionManager) Add(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return ErrTooManySessions
	}
	m.sessions[s.ID] = s
	m.totalCreated++
	if len(m.sessions) > m.peak {
		m.peak = len(m.sessions)
	}
	return nil
}

// Remove forgets a session.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Get returns the session with the given ID.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ManagerStats is a snapshot of manager-level counters.
type ManagerStats struct {
	Active       int
	Peak         int
	TotalCreated uint64
}

// Stats returns a snapshot of the manager's counters.
func (m *SessionManager) Stats() ManagerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ManagerStats{
		Active:       len(m.sessions),
		Peak:         m.peak,
		TotalCreated: m.totalCreated,
	}
}

// CloseAll closes every active session, notifying clients of shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.closeWithReason(protocol.CloseServerShutdown)
	}
	m.logger.Info("closed all sessions", "count", len(sessions))
}
