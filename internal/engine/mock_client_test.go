package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/manufgue/Monitor/internal/auth"
	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/model"
	"github.com/manufgue/Monitor/internal/session"
)

// MockRegionClient implements client.RegionClient for testing. Every call
// is recorded so tests can assert attempt counts and token use.
type MockRegionClient struct {
	ActiveFn func(ctx context.Context, target model.HostTarget, region, token string) client.Outcome

	mu    sync.Mutex
	calls []RegionCall
}

// RegionCall captures one ActivePCT invocation.
type RegionCall struct {
	Host   string
	Region string
	Token  string
}

func (m *MockRegionClient) ActivePCT(ctx context.Context, target model.HostTarget, region, token string) client.Outcome {
	m.mu.Lock()
	m.calls = append(m.calls, RegionCall{Host: target.Host, Region: region, Token: token})
	m.mu.Unlock()
	if m.ActiveFn != nil {
		return m.ActiveFn(ctx, target, region, token)
	}
	return client.Success(nil)
}

// Calls returns a copy of the recorded invocations.
func (m *MockRegionClient) Calls() []RegionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RegionCall(nil), m.calls...)
}

// CallCount reports how many fetches one host and region pair received.
func (m *MockRegionClient) CallCount(host, region string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Host == host && c.Region == region {
			n++
		}
	}
	return n
}

// stubAuthenticator implements auth.Authenticator for testing. Logons issue
// sequentially numbered cookies unless failLogon is set.
type stubAuthenticator struct {
	failLogon bool

	mu      sync.Mutex
	logons  int
	logoffs int
}

func (a *stubAuthenticator) Logon(_ context.Context, host string, _ int, _ model.Credentials) (auth.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logons++
	if a.failLogon {
		return auth.Session{}, &auth.AuthError{Host: host, Err: errMockFailure}
	}
	return auth.Session{Cookie: fmt.Sprintf("cookie-%d", a.logons), IssuedAt: time.Now()}, nil
}

func (a *stubAuthenticator) Logoff(_ context.Context, _ string, _ int, _ auth.Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logoffs++
	return nil
}

func (a *stubAuthenticator) logonCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.logons
}

// newTestEngine builds an Engine over the mock client and a fresh session
// manager backed by the given authenticator.
func newTestEngine(mock *MockRegionClient, authenticator auth.Authenticator) *Engine {
	return New(mock, session.NewManager(session.NewStore(), authenticator))
}

// target is a shorthand constructor for queryable test targets.
func target(host string, regions ...string) model.HostTarget {
	return model.HostTarget{Host: host, Regions: regions}
}

// records builds a single-name record list with the given count.
func records(name string, count int) []model.PctRecord {
	return []model.PctRecord{{Name: name, Count: count}}
}

var errMockFailure = errors.New("mock failure")
