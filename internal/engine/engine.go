// Package engine drives the fan-out query across configured targets and
// folds per-endpoint outcomes into one aggregation result.
package engine

import (
	"context"

	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/model"
	"github.com/manufgue/Monitor/internal/session"
)

// Engine executes sweeps. Fetches are sequential, one (host, region) pair at
// a time in configured order, so remote load stays bounded and session
// handling per host stays race free within a run.
type Engine struct {
	client   client.RegionClient
	sessions *session.Manager
}

// New wires an Engine over a region client and a session manager.
func New(c client.RegionClient, sessions *session.Manager) *Engine {
	return &Engine{client: c, sessions: sessions}
}

// Sessions exposes the session manager shared with interactive flows.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Run sweeps every queryable target in order and returns the accumulated
// result. Per-endpoint failures land in FailedRegions and never abort the
// sweep; a run that obtained no data is a normal zero result.
func (e *Engine) Run(ctx context.Context, targets []model.HostTarget, creds model.Credentials) *model.AggregationResult {
	result := model.NewAggregationResult()
	for _, target := range targets {
		if !target.Queryable() {
			continue
		}
		token := e.sessions.Ensure(ctx, target, creds)
		for _, region := range target.Regions {
			outcome, usedToken := e.fetchPair(ctx, target, region, creds, token)
			token = usedToken
			fold(result, target.Host, region, outcome)
		}
	}
	return result
}

// FetchRegion runs the same bounded protocol for a single endpoint and
// returns the terminal outcome, letting callers surface the classified
// failure verbatim.
func (e *Engine) FetchRegion(ctx context.Context, target model.HostTarget, region string, creds model.Credentials) client.Outcome {
	token := e.sessions.Ensure(ctx, target, creds)
	outcome, _ := e.fetchPair(ctx, target, region, creds, token)
	return outcome
}

// fetchPair is the two-attempt protocol for one (host, region) pair: first
// attempt, then at most one session renewal and one retried fetch when the
// session was rejected and credentials allow it. The returned token seeds
// the next pair on the same host.
func (e *Engine) fetchPair(ctx context.Context, target model.HostTarget, region string, creds model.Credentials, token string) (client.Outcome, string) {
	outcome := e.client.ActivePCT(ctx, target, region, token)
	if outcome.Kind != client.OutcomeUnauthorized || !creds.Valid() {
		return outcome, token
	}

	renewed, err := e.sessions.Renew(ctx, target, creds, token)
	if err != nil {
		// No fresh session to retry with; the rejection stands.
		return outcome, token
	}
	return e.client.ActivePCT(ctx, target, region, renewed), renewed
}
