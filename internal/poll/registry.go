package poll

import (
	"math/rand"
	"strings"
	"sync"
)

// CodeLength is the size of the human-typeable session code students enter
// to join.
const CodeLength = 6

// codeAlphabet avoids the easily-confused characters (I, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Registry creates sessions and routes commands to them by code. Lookup is
// concurrency-safe; the sessions themselves serialize their own state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	events   Events
	opts     Options
}

func NewRegistry(events Events, opts Options) *Registry {
	if events == nil {
		events = NopEvents{}
	}
	return &Registry{
		sessions: make(map[string]*Session),
		events:   events,
		opts:     opts,
	}
}

// Create allocates a fresh session with a unique code. Never fails.
func (reg *Registry) Create() *Session {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	code := randomCode(CodeLength)
	for reg.sessions[code] != nil {
		code = randomCode(CodeLength)
	}
	s := newSession(code, reg.events, reg.opts)
	reg.sessions[code] = s
	return s
}

// Get finds a live session. Codes are case-insensitive on input.
func (reg *Registry) Get(code string) (*Session, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s := reg.sessions[strings.ToUpper(strings.TrimSpace(code))]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End tears down a session and severs routing for its code. The code may be
// reused by a later Create.
func (reg *Registry) End(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	reg.mu.Lock()
	s := reg.sessions[code]
	delete(reg.sessions, code)
	reg.mu.Unlock()
	if s == nil {
		return ErrSessionNotFound
	}
	s.end()
	return nil
}

// Count reports the number of live sessions.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.sessions)
}

func randomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
