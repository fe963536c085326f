package keyring

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/dailies/internal/constants"
)

// Session is the signed-in user remembered between runs
type Session struct {
	UID        string    `json:"uid"`
	Email      string    `json:"email"`
	SignedInAt time.Time `json:"signedInAt"`
}

// SessionStore keeps the current session in the OS keyring as a JSON blob
type SessionStore struct {
	user string
}

// NewSessionStore returns a store under the default session entry.
func NewSessionStore() *SessionStore {
	return &SessionStore{user: constants.SessionKeyringUser}
}

// Load returns the saved session or ErrNotFound.
func (s *SessionStore) Load() (Session, error) {
	raw, err := get(s.user)
	if err != nil {
		return Session{}, err
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, fmt.Errorf("failed to parse stored session: %w", err)
	}
	return session, nil
}

// Save replaces the saved session.
func (s *SessionStore) Save(session Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := keyring.Set(constants.AppName, s.user, string(raw)); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// Clear forgets the saved session. Clearing an empty store is not an error.
func (s *SessionStore) Clear() error {
	if err := del(s.user); err != nil && err != ErrNotFound {
		return err
	}
	return nil
}
