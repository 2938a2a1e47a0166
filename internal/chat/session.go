package chat

import (
	"sync"
	"time"

	"github.com/thuong-9/pydoan/internal/history"
	"github.com/thuong-9/pydoan/internal/picker"
)

// AnonymousKey is the session used by clients that send no id.
const AnonymousKey = "anonymous"

// Session is one learner's conversation. Callers hold mu for a whole turn.
type Session struct {
	mu sync.Mutex

	Pending   Pending
	Asked     picker.AskedSet
	GradeID   string
	TopicID   string
	UpdatedAt time.Time
}

// SessionStore maps client ids to sessions. Sessions live until the process
// exits; a classroom produces few enough of them.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*Session{}}
}

// Get returns the session for clientID, creating it on first use. The store
// lock covers only the lookup; the session has its own lock.
func (s *SessionStore) Get(clientID string) *Session {
	key := history.NormalizeKey(clientID)
	if key == "" {
		key = AnonymousKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		sess = &Session{Asked: picker.AskedSet{}}
		s.sessions[key] = sess
	}
	return sess
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
