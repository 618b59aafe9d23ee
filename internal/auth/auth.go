// Package auth turns credentials into admin API sessions. The engine only
// sees the Authenticator interface; the wire exchange lives behind it.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/manufgue/Monitor/internal/model"
)

// Session is the credential material one logon yields: the session cookie
// plus any reply headers the server expects replayed on logoff.
type Session struct {
	Cookie   string
	Headers  map[string]string
	IssuedAt time.Time
}

// Valid reports whether the session carries a usable cookie.
func (s Session) Valid() bool {
	return s.Cookie != ""
}

// AuthError reports a rejected or failed authentication exchange. Callers
// treat it as "no token available", never as a fatal condition.
type AuthError struct {
	Host string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authenticate %s: %v", e.Host, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Authenticator acquires and releases sessions for one host. Implementations
// have unspecified latency and every failure is a *AuthError.
type Authenticator interface {
	Logon(ctx context.Context, host string, port int, creds model.Credentials) (Session, error)
	Logoff(ctx context.Context, host string, port int, session Session) error
}
