package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu    sync.Mutex
	calls int
	ch    chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ch: make(chan time.Time)}
}

func (c *fakeClock) After(time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.ch
}

func (c *fakeClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Fire releases the poller currently waiting on the clock.
func (c *fakeClock) Fire() { c.ch <- time.Now() }

func TestStopsAfterOneIssueWhenPredicateMatches(t *testing.T) {
	clock := newFakeClock()
	p := Start(context.Background(),
		func(context.Context) (string, error) { return "FOUND", nil },
		func(s string) bool { return s == "FOUND" },
		WithClock(clock))

	resp, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, "FOUND", resp)
	assert.Equal(t, 1, p.Issued())
	assert.Equal(t, 0, clock.Calls(), "no second issue may be scheduled")
	assert.Equal(t, Stopped, p.State())
	assert.False(t, p.Canceled())
}

func TestCancelAfterNIssues(t *testing.T) {
	const n = 3
	clock := newFakeClock()
	issued := make(chan int, n+1)
	count := 0

	p := Start(context.Background(),
		func(context.Context) (int, error) {
			count++
			issued <- count
			return count, nil
		},
		func(int) bool { return false },
		WithClock(clock))

	for i := 1; i <= n; i++ {
		assert.Equal(t, i, <-issued)
		if i < n {
			clock.Fire()
		}
	}

	p.Cancel()
	p.Cancel()
	last, err := p.Wait()
	require.NoError(t, err, "cancellation is not an error")
	assert.Equal(t, n, last)
	assert.Equal(t, n, p.Issued())
	assert.True(t, p.Canceled())
	assert.Equal(t, Stopped, p.State())

	select {
	case extra := <-issued:
		t.Fatalf("unexpected issue #%d after cancel", extra)
	default:
	}
}

func TestIssueErrorAbortsPoll(t *testing.T) {
	boom := errors.New("transport failure")
	clock := newFakeClock()
	p := Start(context.Background(),
		func(context.Context) (string, error) { return "", boom },
		func(string) bool { return false },
		WithClock(clock))

	_, err := p.Wait()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, p.Issued())
	assert.Equal(t, 0, clock.Calls())
}

func TestCancelDoesNotUndoInFlightIssue(t *testing.T) {
	clock := newFakeClock()
	started := make(chan struct{})
	release := make(chan struct{})
	var sawCancelledCtx bool

	p := Start(context.Background(),
		func(ctx context.Context) (string, error) {
			close(started)
			<-release
			sawCancelledCtx = ctx.Err() != nil
			return "GIT_LOADING", nil
		},
		func(s string) bool { return s == "FOUND" },
		WithClock(clock))

	<-started
	p.Cancel()
	close(release)

	resp, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, "GIT_LOADING", resp, "in-flight result is kept")
	assert.False(t, sawCancelledCtx)
	assert.Equal(t, 1, p.Issued())
	assert.Equal(t, 0, clock.Calls())
}

func TestContextCancellationStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := newFakeClock()
	issued := make(chan struct{}, 1)

	p := Start(ctx,
		func(context.Context) (int, error) {
			issued <- struct{}{}
			return 0, nil
		},
		func(int) bool { return false },
		WithClock(clock))

	<-issued
	cancel()
	_, err := p.Wait()
	require.NoError(t, err)
	assert.True(t, p.Canceled())
	assert.Equal(t, 1, p.Issued())
}

func TestContextEndingMidIssueIsCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	clock := newFakeClock()
	calls := 0

	p := Start(ctx,
		func(ctx context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "GIT_LOADING", nil
			}
			<-ctx.Done()
			return "", ctx.Err()
		},
		func(s string) bool { return s == "FOUND" },
		WithClock(clock))

	clock.Fire()
	resp, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, "GIT_LOADING", resp)
	assert.True(t, p.Canceled())
	assert.Equal(t, 2, p.Issued())
}

func TestUntil(t *testing.T) {
	stop := Until(func(m map[string]string) string { return m["FLOW_YML_STATUS"] }, "FOUND", "NOT_FOUND", "ERROR")

	tests := []struct {
		status string
		want   bool
	}{
		{"FOUND", true},
		{"NOT_FOUND", true},
		{"ERROR", true},
		{"GIT_LOADING", false},
		{"SOMETHING_NEW", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stop(map[string]string{"FLOW_YML_STATUS": tt.status}), tt.status)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "waiting", Waiting.String())
	assert.Equal(t, "unknown", State(42).String())
}
