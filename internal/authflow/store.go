package authflow

import (
	"sync"

	"github.com/ecrawford/lastfm-mcp/internal/config"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
)

// Store holds the current authentication state: the in-flight request
// token (if any) and the active session (if any). Implementations are
// safe for concurrent readers; concurrent writers race benignly with
// last-writer-wins, matching the single re-authentication path the flow
// expects.
type Store interface {
	// Token returns the pending, not-yet-exchanged request token, or
	// empty when there is none.
	Token() string
	// SetToken records a pending request token. An empty value clears it.
	SetToken(token string) error
	// Session returns the active session, or nil when unauthenticated.
	Session() *lastfm.Session
	// SetSession records the active session.
	SetSession(session *lastfm.Session) error
}

// MemoryStore keeps auth state in process memory only.
type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	session *lastfm.Session
}

// NewMemoryStore creates an empty in-memory store, optionally seeded
// with a pre-existing session key and pending token (e.g. from the
// environment).
func NewMemoryStore(sessionKey, token string) *MemoryStore {
	s := &MemoryStore{token: token}
	if sessionKey != "" {
		s.session = &lastfm.Session{Key: sessionKey}
	}
	return s
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Session() *lastfm.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *MemoryStore) SetSession(session *lastfm.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

// ConfigStore persists auth state to the application config file, so a
// session survives restarts the same way the interactive auth command
// saves it.
type ConfigStore struct {
	mu  sync.Mutex
	cfg *config.Config
}

// NewConfigStore wraps a loaded config.
func NewConfigStore(cfg *config.Config) *ConfigStore {
	return &ConfigStore{cfg: cfg}
}

func (s *ConfigStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.LastFM.AuthToken
}

func (s *ConfigStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.LastFM.AuthToken = token
	return s.cfg.Save()
}

func (s *ConfigStore) Session() *lastfm.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.LastFM.SessionKey == "" {
		return nil
	}
	return &lastfm.Session{Key: s.cfg.LastFM.SessionKey}
}

func (s *ConfigStore) SetSession(session *lastfm.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.cfg.LastFM.SessionKey = ""
	} else {
		s.cfg.LastFM.SessionKey = session.Key
	}
	return s.cfg.Save()
}
