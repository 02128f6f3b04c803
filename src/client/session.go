package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the signed-in user as persisted between runs.
type Principal struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) complete() bool {
	return p.UserID != 0 && p.Username != "" && p.Token != "" &&
		(p.Role == RoleUser || p.Role == RoleAdmin)
}

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// SessionStore keeps the principal in memory and mirrors it to a JSON file.
type SessionStore struct {
	mu        sync.Mutex
	path      string
	principal *Principal
}

// DefaultSessionPath is $XDG_CONFIG_HOME/movienest/session.json, falling back
// to the platform config dir.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "movienest", "session.json"), nil
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) Path() string {
	return s.path
}

// Load reads the session file. A missing file is Anonymous; a corrupt or
// incomplete one is removed and also Anonymous. Only I/O failures other than
// a missing file are returned.
func (s *SessionStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.principal = nil
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Anonymous, nil
	}
	if err != nil {
		return Anonymous, fmt.Errorf("read session: %w", err)
	}

	var p Principal
	if err := json.Unmarshal(data, &p); err != nil || !p.complete() {
		_ = os.Remove(s.path)
		return Anonymous, nil
	}
	s.principal = &p
	return Authenticated, nil
}

// Save makes p the current principal and writes it to disk with 0600
// permissions.
func (s *SessionStore) Save(p Principal) error {
	if !p.complete() {
		return errors.New("session: incomplete principal")
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	s.principal = &p
	return nil
}

// Clear forgets the principal and deletes the file.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.principal = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *SessionStore) Current() (Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

func (s *SessionStore) State() State {
	if _, ok := s.Current(); ok {
		return Authenticated
	}
	return Anonymous
}

func (s *SessionStore) IsAdmin() bool {
	p, ok := s.Current()
	return ok && p.IsAdmin()
}
