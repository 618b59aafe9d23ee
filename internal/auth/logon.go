package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/model"
)

// DefaultTimeout bounds one logon or logoff exchange.
const DefaultTimeout = 20 * time.Second

// HTTPAuthenticator speaks the admin API logon endpoints over plain HTTP,
// sharing the header conventions of the counter client.
type HTTPAuthenticator struct {
	http    *http.Client
	timeout time.Duration
}

// NewHTTPAuthenticator constructs an HTTPAuthenticator with the given
// per-call bound, or DefaultTimeout when unset.
func NewHTTPAuthenticator(timeout time.Duration) *HTTPAuthenticator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPAuthenticator{
		http:    &http.Client{},
		timeout: timeout,
	}
}

type logonRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// Logon posts credentials to the host's logon endpoint. A 2xx reply must
// carry the session cookie; its X- reply headers are kept for replay on
// logoff.
func (a *HTTPAuthenticator) Logon(ctx context.Context, host string, port int, creds model.Credentials) (Session, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(logonRequest{Username: creds.User, Password: creds.Password})
	if err != nil {
		return Session{}, &AuthError{Host: host, Err: fmt.Errorf("encode credentials: %w", err)}
	}

	url := client.BaseURL(host, port) + "/native/v1/logon"
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Session{}, &AuthError{Host: host, Err: fmt.Errorf("create request: %w", err)}
	}
	client.SetAdminHeaders(req.Header, host, port)

	resp, err := a.http.Do(req)
	if err != nil {
		return Session{}, &AuthError{Host: host, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Session{}, &AuthError{
			Host: host,
			Err:  fmt.Errorf("logon rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == client.SessionCookieName {
			cookie = c.Value
			break
		}
	}
	if cookie == "" {
		return Session{}, &AuthError{Host: host, Err: errors.New("logon reply carried no session cookie")}
	}

	// The server tags session state in X- reply headers; logoff replays
	// them verbatim.
	headers := make(map[string]string)
	for name, values := range resp.Header {
		if strings.HasPrefix(strings.ToLower(name), "x-") && len(values) > 0 {
			headers[name] = values[0]
		}
	}

	return Session{Cookie: cookie, Headers: headers, IssuedAt: time.Now()}, nil
}

// Logoff releases a session, replaying the cookie and the headers logon
// returned. A missing cookie is a no-op.
func (a *HTTPAuthenticator) Logoff(ctx context.Context, host string, port int, session Session) error {
	if !session.Valid() {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	url := client.BaseURL(host, port) + "/native/v1/logoff"
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, nil)
	if err != nil {
		return &AuthError{Host: host, Err: fmt.Errorf("create request: %w", err)}
	}
	client.SetAdminHeaders(req.Header, host, port)
	for name, value := range session.Headers {
		req.Header.Set(name, value)
	}
	req.AddCookie(&http.Cookie{Name: client.SessionCookieName, Value: session.Cookie})

	resp, err := a.http.Do(req)
	if err != nil {
		return &AuthError{Host: host, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{Host: host, Err: fmt.Errorf("logoff rejected: status %d", resp.StatusCode)}
	}
	return nil
}
