// Package privilege provides credential storage and privilege elevation for
// command execution. The credential exists only in process memory, reaches
// the elevation mechanism exclusively through a child stdin pipe, and never
// appears in an argument vector, a file, or a log record.
package privilege

import (
	"strings"
	"sync"
)

// Store holds the session elevation secret. It is an explicit, injectable
// object: callers needing the same credential across many executions hold
// one Store and pass it to the Manager. Reads are concurrent; writes are
// serialized against readers.
type Store struct {
	mu     sync.RWMutex
	secret []byte
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the session credential. An empty string clears it.
func (s *Store) Set(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wipeLocked()
	if secret != "" {
		s.secret = []byte(secret)
	}
}

// Clear erases the credential, zeroing the backing memory.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipeLocked()
}

// Has reports whether a credential is present. It never returns the value.
func (s *Store) Has() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.secret) > 0
}

// snapshot returns a private copy of the secret, or nil when unset. The
// copy belongs to the caller, which must wipe it after use.
func (s *Store) snapshot() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.secret) == 0 {
		return nil
	}
	buf := make([]byte, len(s.secret))
	copy(buf, s.secret)
	return buf
}

// Redact replaces any occurrence of the stored secret in text with the
// placeholder. Used to guarantee captured output never carries the
// credential, even when a tool echoes everything it reads.
func (s *Store) Redact(text, placeholder string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.secret) == 0 || text == "" {
		return text
	}
	return strings.ReplaceAll(text, string(s.secret), placeholder)
}

func (s *Store) wipeLocked() {
	for i := range s.secret {
		s.secret[i] = 0
	}
	s.secret = nil
}
