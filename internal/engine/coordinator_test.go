package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/model"
)

func TestCoordinator_SubmitCompletes(t *testing.T) {
	mock := &MockRegionClient{
		ActiveFn: func(_ context.Context, _ model.HostTarget, _, _ string) client.Outcome {
			return client.Success(records("PCT1", 4))
		},
	}
	coord := NewCoordinator(newTestEngine(mock, &stubAuthenticator{}))
	defer coord.Close()

	handle := coord.Submit([]model.HostTarget{target("h1", "R1")}, model.Credentials{})
	completion := handle.Wait()

	require.NoError(t, completion.Err)
	require.NotNil(t, completion.Result)
	assert.Equal(t, 4, completion.Result.TotalSum)
}

func TestCoordinator_SubmissionsRunInOrder(t *testing.T) {
	order := make(chan string, 2)
	mock := &MockRegionClient{
		ActiveFn: func(_ context.Context, tgt model.HostTarget, _, _ string) client.Outcome {
			order <- tgt.Host
			return client.Success(nil)
		},
	}
	coord := NewCoordinator(newTestEngine(mock, &stubAuthenticator{}))
	defer coord.Close()

	first := coord.Submit([]model.HostTarget{target("h1", "R1")}, model.Credentials{})
	second := coord.Submit([]model.HostTarget{target("h2", "R1")}, model.Credentials{})

	require.NoError(t, first.Wait().Err)
	require.NoError(t, second.Wait().Err)
	assert.Equal(t, "h1", <-order)
	assert.Equal(t, "h2", <-order)
}

func TestCoordinator_PanicBecomesRunError(t *testing.T) {
	boom := true
	mock := &MockRegionClient{
		ActiveFn: func(_ context.Context, _ model.HostTarget, _, _ string) client.Outcome {
			if boom {
				panic("exploded")
			}
			return client.Success(nil)
		},
	}
	coord := NewCoordinator(newTestEngine(mock, &stubAuthenticator{}))
	defer coord.Close()

	completion := coord.Submit([]model.HostTarget{target("h1", "R1")}, model.Credentials{}).Wait()
	require.Error(t, completion.Err)
	var runErr *RunError
	require.ErrorAs(t, completion.Err, &runErr)
	assert.Contains(t, runErr.Error(), "exploded")
	assert.Nil(t, completion.Result)

	// The worker survives the panic and keeps serving submissions.
	boom = false
	completion = coord.Submit([]model.HostTarget{target("h1", "R1")}, model.Credentials{}).Wait()
	require.NoError(t, completion.Err)
	require.NotNil(t, completion.Result)
}

func TestCoordinator_SubmitAfterClose(t *testing.T) {
	coord := NewCoordinator(newTestEngine(&MockRegionClient{}, &stubAuthenticator{}))
	coord.Close()

	completion := coord.Submit([]model.HostTarget{target("h1", "R1")}, model.Credentials{}).Wait()
	require.Error(t, completion.Err)
	assert.ErrorIs(t, completion.Err, ErrClosed)
}

func TestCoordinator_CloseIsIdempotent(t *testing.T) {
	coord := NewCoordinator(newTestEngine(&MockRegionClient{}, &stubAuthenticator{}))
	coord.Close()
	coord.Close()
}

func TestCoordinator_CloseCancelsInFlightRun(t *testing.T) {
	started := make(chan struct{})
	mock := &MockRegionClient{
		ActiveFn: func(ctx context.Context, _ model.HostTarget, _, _ string) client.Outcome {
			close(started)
			<-ctx.Done()
			return client.Transport(ctx.Err())
		},
	}
	coord := NewCoordinator(newTestEngine(mock, &stubAuthenticator{}))

	handle := coord.Submit([]model.HostTarget{target("h1", "R1")}, model.Credentials{})
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("run never started")
	}
	coord.Close()

	completion := handle.Wait()
	require.NoError(t, completion.Err)
	require.NotNil(t, completion.Result)
	assert.Equal(t, 0, completion.Result.TotalCalls)
	assert.Len(t, completion.Result.FailedRegions, 1)
}
