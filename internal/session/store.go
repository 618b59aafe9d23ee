// Package session owns the per-host session cache shared by background
// sweeps and the interactive login flow.
package session

import (
	"sort"
	"sync"

	"github.com/manufgue/Monitor/internal/auth"
)

// Store maps hosts to their live session. At most one session per host: Put
// replaces, never appends. Reads take the shared lock so different hosts
// never contend; writes are serialized.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]auth.Session)}
}

// Get returns the live session for host, if any.
func (s *Store) Get(host string) (auth.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[host]
	return session, ok
}

// Put installs the session for host, replacing any prior one.
func (s *Store) Put(host string, session auth.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[host] = session
}

// Invalidate drops the session for host.
func (s *Store) Invalidate(host string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, host)
}

// Hosts returns the hosts currently holding a session, sorted.
func (s *Store) Hosts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hosts := make([]string, 0, len(s.sessions))
	for host := range s.sessions {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}
