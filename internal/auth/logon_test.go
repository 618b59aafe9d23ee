package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/model"
)

// splitServer extracts host and port from an httptest server URL.
func splitServer(t *testing.T, serverURL string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(serverURL, "http://"))
	if err != nil {
		t.Fatalf("split %q: %v", serverURL, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return host, port
}

func TestLogon_Success(t *testing.T) {
	var gotPath, gotOrigin string
	var gotBody logonRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOrigin = r.Header.Get("Origin")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("X-Session-Scope", "admin")
		http.SetCookie(w, &http.Cookie{Name: client.SessionCookieName, Value: "cookie-77"})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host, port := splitServer(t, srv.URL)
	a := NewHTTPAuthenticator(5 * time.Second)
	session, err := a.Logon(context.Background(), host, port, model.Credentials{User: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("Logon: %v", err)
	}

	if gotPath != "/native/v1/logon" {
		t.Errorf("path = %q, want /native/v1/logon", gotPath)
	}
	if gotOrigin != srv.URL {
		t.Errorf("Origin = %q, want %q", gotOrigin, srv.URL)
	}
	if gotBody.Username != "admin" || gotBody.Password != "secret" {
		t.Errorf("credentials = %+v, want admin/secret", gotBody)
	}
	if session.Cookie != "cookie-77" {
		t.Errorf("Cookie = %q, want cookie-77", session.Cookie)
	}
	if session.Headers["X-Session-Scope"] != "admin" {
		t.Errorf("Headers = %v, want X-Session-Scope preserved", session.Headers)
	}
	if session.IssuedAt.IsZero() {
		t.Error("IssuedAt not set")
	}
	if !session.Valid() {
		t.Error("session with cookie should be valid")
	}
}

func TestLogon_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`bad credentials`))
	}))
	defer srv.Close()

	host, port := splitServer(t, srv.URL)
	a := NewHTTPAuthenticator(5 * time.Second)
	_, err := a.Logon(context.Background(), host, port, model.Credentials{User: "u", Password: "wrong"})
	if err == nil {
		t.Fatal("expected error for rejected logon")
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error %T is not *AuthError", err)
	}
	if authErr.Host != host {
		t.Errorf("AuthError.Host = %q, want %q", authErr.Host, host)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q should mention the status", err.Error())
	}
}

func TestLogon_MissingCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host, port := splitServer(t, srv.URL)
	a := NewHTTPAuthenticator(5 * time.Second)
	_, err := a.Logon(context.Background(), host, port, model.Credentials{User: "u", Password: "p"})
	if err == nil {
		t.Fatal("expected error when the reply has no session cookie")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error %T is not *AuthError", err)
	}
}

func TestLogon_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host, port := splitServer(t, srv.URL)
	srv.Close()

	a := NewHTTPAuthenticator(time.Second)
	_, err := a.Logon(context.Background(), host, port, model.Credentials{User: "u", Password: "p"})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("unreachable authenticator should yield *AuthError, got %v", err)
	}
}

func TestLogoff_ReplaysSession(t *testing.T) {
	var gotPath, gotScope string
	var gotCookie *http.Cookie
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotScope = r.Header.Get("X-Session-Scope")
		gotCookie, _ = r.Cookie(client.SessionCookieName)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host, port := splitServer(t, srv.URL)
	a := NewHTTPAuthenticator(5 * time.Second)
	session := Session{
		Cookie:  "cookie-9",
		Headers: map[string]string{"X-Session-Scope": "admin"},
	}
	if err := a.Logoff(context.Background(), host, port, session); err != nil {
		t.Fatalf("Logoff: %v", err)
	}

	if gotPath != "/native/v1/logoff" {
		t.Errorf("path = %q, want /native/v1/logoff", gotPath)
	}
	if gotCookie == nil || gotCookie.Value != "cookie-9" {
		t.Errorf("cookie = %v, want cookie-9", gotCookie)
	}
	if gotScope != "admin" {
		t.Errorf("X-Session-Scope = %q, want admin", gotScope)
	}
}

func TestLogoff_EmptySessionIsNoOp(t *testing.T) {
	received := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = true
	}))
	defer srv.Close()

	host, port := splitServer(t, srv.URL)
	a := NewHTTPAuthenticator(5 * time.Second)
	if err := a.Logoff(context.Background(), host, port, Session{}); err != nil {
		t.Fatalf("Logoff with empty session: %v", err)
	}
	if received {
		t.Error("logoff without a cookie must not send any HTTP request")
	}
}

func TestLogoff_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	host, port := splitServer(t, srv.URL)
	a := NewHTTPAuthenticator(5 * time.Second)
	err := a.Logoff(context.Background(), host, port, Session{Cookie: "c"})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("rejected logoff should yield *AuthError, got %v", err)
	}
}
