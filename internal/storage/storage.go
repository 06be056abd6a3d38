package storage

import (
	"sort"
	"time"

	"github.com/globalteceducacional/toth/internal/book"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps book sessions in memory. A session expires ttl after it
// was last stored or read.
type SessionStore struct {
	sessions *cache.Cache
	ttl      time.Duration
}

func New(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{
		sessions: cache.New(ttl, ttl/2),
		ttl:      ttl,
	}
}

// Get returns the session and extends its lifetime.
func (s *SessionStore) Get(sessionID string) (*book.Session, bool) {
	v, exists := s.sessions.Get(sessionID)
	if !exists {
		return nil, false
	}
	session := v.(*book.Session)
	s.sessions.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

func (s *SessionStore) Set(session *book.Session) {
	s.sessions.Set(session.ID, session, cache.DefaultExpiration)
}

// GetAll returns the live sessions, oldest first.
func (s *SessionStore) GetAll() []*book.Session {
	items := s.sessions.Items()
	result := make([]*book.Session, 0, len(items))
	for _, item := range items {
		result = append(result, item.Object.(*book.Session))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(sessionID string) bool {
	_, exists := s.sessions.Get(sessionID)
	s.sessions.Delete(sessionID)
	return exists
}

func (s *SessionStore) Len() int {
	return s.sessions.ItemCount()
}
