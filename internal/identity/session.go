package identity

import (
	"sync"

	"github.com/julianstephens/dailies/internal/keyring"
)

// SessionStore remembers the signed-in user between runs. Load returns
// keyring.ErrNotFound when nobody is signed in.
type SessionStore interface {
	Load() (keyring.Session, error)
	Save(session keyring.Session) error
	Clear() error
}

// MemorySessionStore keeps the session for the life of the process
type MemorySessionStore struct {
	mu      sync.Mutex
	session *keyring.Session
}

func (m *MemorySessionStore) Load() (keyring.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return keyring.Session{}, keyring.ErrNotFound
	}
	return *m.session, nil
}

func (m *MemorySessionStore) Save(session keyring.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &session
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

var _ SessionStore = (*keyring.SessionStore)(nil)
