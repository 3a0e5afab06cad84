package storage

import (
	"sort"
	"sync"

	"github.com/lehigh-university-libraries/printlayout/internal/session"
)

// SessionStore keeps live layout sessions in memory.
// Nothing survives a process restart.
type SessionStore struct {
	sessions map[string]*session.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[sessionID]
	return sess, exists
}

func (s *SessionStore) Set(sessionID string, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = sess
}

// GetAll returns the sessions ordered by creation time
func (s *SessionStore) GetAll() []*session.Session {
	s.mu.RLock()
	result := make([]*session.Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes and closes the session, reporting whether it existed
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	sess, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		sess.Close()
	}
	return exists
}
