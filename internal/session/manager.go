package session

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/manufgue/Monitor/internal/auth"
	"github.com/manufgue/Monitor/internal/model"
)

// Manager layers authentication over a Store. Concurrent renewals for one
// host collapse into a single logon, and a renewal that lost the race gets
// the winner's session back instead of logging on again, so a stale token
// can never overwrite a fresher one.
type Manager struct {
	store *Store
	auth  auth.Authenticator
	group singleflight.Group
}

// NewManager wires a Manager over the given store and authenticator.
func NewManager(store *Store, authenticator auth.Authenticator) *Manager {
	return &Manager{store: store, auth: authenticator}
}

// Store exposes the underlying session store.
func (m *Manager) Store() *Store {
	return m.store
}

// Token returns the current cookie value for host, if a session exists.
func (m *Manager) Token(host string) (string, bool) {
	session, ok := m.store.Get(host)
	if !ok || !session.Valid() {
		return "", false
	}
	return session.Cookie, true
}

// Ensure returns a token for the target, logging on lazily when none is
// stored and the credentials are valid. Authentication failure yields an
// empty token, not an error: anonymous reads are a supported deployment
// mode.
func (m *Manager) Ensure(ctx context.Context, target model.HostTarget, creds model.Credentials) string {
	if token, ok := m.Token(target.Host); ok {
		return token
	}
	if !creds.Valid() {
		return ""
	}
	token, err := m.Renew(ctx, target, creds, "")
	if err != nil {
		return ""
	}
	return token
}

// Renew obtains a fresh session for the target. stale is the token the
// caller found rejected; when the stored session has already moved past it,
// that session is returned and no logon happens. A failed logon drops the
// rejected entry so later runs do not replay it.
func (m *Manager) Renew(ctx context.Context, target model.HostTarget, creds model.Credentials, stale string) (string, error) {
	v, err, _ := m.group.Do(target.Host, func() (any, error) {
		if current, ok := m.store.Get(target.Host); ok && current.Valid() && current.Cookie != stale {
			return current.Cookie, nil
		}
		session, err := m.auth.Logon(ctx, target.Host, target.EffectivePort(), creds)
		if err != nil {
			m.store.Invalidate(target.Host)
			return "", err
		}
		m.store.Put(target.Host, session)
		return session.Cookie, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Logon authenticates explicitly and installs the session.
func (m *Manager) Logon(ctx context.Context, target model.HostTarget, creds model.Credentials) (auth.Session, error) {
	session, err := m.auth.Logon(ctx, target.Host, target.EffectivePort(), creds)
	if err != nil {
		return auth.Session{}, err
	}
	m.store.Put(target.Host, session)
	return session, nil
}

// Logoff releases the target's session on the server and locally. The local
// entry goes away even when the server call fails.
func (m *Manager) Logoff(ctx context.Context, target model.HostTarget) error {
	session, ok := m.store.Get(target.Host)
	if !ok {
		return nil
	}
	m.store.Invalidate(target.Host)
	return m.auth.Logoff(ctx, target.Host, target.EffectivePort(), session)
}
