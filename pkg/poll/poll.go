// Package poll repeatedly issues a request until a caller-supplied predicate
// accepts the response, the request fails, or the caller cancels.
package poll

import (
	"context"
	"sync"
	"time"

	"flowci-console/pkg/backoff"
	"flowci-console/pkg/log"

	"github.com/google/uuid"
)

// DefaultInterval is the fixed delay between two issues.
const DefaultInterval = 2 * time.Second

// State is the lifecycle state of a Poller.
type State int

const (
	// Idle means the poller has not issued anything yet.
	Idle State = iota
	// Issuing means a request is in flight.
	Issuing
	// Waiting means the poller sleeps before the next issue.
	Waiting
	// Stopped is terminal: the predicate matched, an issue failed, or the poller was cancelled.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Issuing:
		return "issuing"
	case Waiting:
		return "waiting"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Clock abstracts timers so tests can drive the poller deterministically.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Option configures a Poller.
type Option func(*options)

type options struct {
	policy backoff.Policy
	clock  Clock
}

// WithInterval sets a fixed delay between issues.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.policy = backoff.Fixed(d) }
}

// WithPolicy sets the delay policy. The default is a fixed DefaultInterval.
func WithPolicy(p backoff.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// Poller drives one polling sequence. It is safe for concurrent use.
type Poller[R any] struct {
	id    uuid.UUID
	issue func(context.Context) (R, error)
	stop  func(R) bool
	opts  options

	mu       sync.Mutex
	state    State
	issued   int
	last     R
	err      error
	canceled bool

	cancelCh   chan struct{}
	cancelOnce sync.Once
	done       chan struct{}
}

// Start begins polling in a new goroutine: issue is invoked immediately, and
// again after each delay for as long as stop rejects the response.
//
// An error from issue ends the sequence and is reported by Wait, unless ctx has
// ended by then. Cancelling ctx behaves like Cancel, even mid-issue. The context passed to issue is ctx itself, so Cancel never
// aborts an issue that is already in flight.
func Start[R any](ctx context.Context, issue func(context.Context) (R, error), stop func(R) bool, opts ...Option) *Poller[R] {
	o := options{
		policy: backoff.Fixed(DefaultInterval),
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Poller[R]{
		id:       uuid.New(),
		issue:    issue,
		stop:     stop,
		opts:     o,
		cancelCh: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run(ctx)
	return p
}

// Cancel prevents any further issue. It is idempotent and does not block.
func (p *Poller[R]) Cancel() {
	p.cancelOnce.Do(func() {
		p.mu.Lock()
		p.canceled = true
		p.mu.Unlock()
		close(p.cancelCh)
	})
}

// Done is closed once the poller reaches Stopped.
func (p *Poller[R]) Done() <-chan struct{} { return p.done }

// Wait blocks until the poller stops and returns the last response together with
// the issue error that aborted the sequence, if any. Cancellation is not an error.
func (p *Poller[R]) Wait() (R, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.err
}

// State returns the current lifecycle state.
func (p *Poller[R]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Issued returns how many times issue has been invoked.
func (p *Poller[R]) Issued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issued
}

// Canceled reports whether Cancel was called or the context ended.
func (p *Poller[R]) Canceled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canceled
}

func (p *Poller[R]) run(ctx context.Context) {
	defer close(p.done)
	defer p.setState(Stopped)

	logger := log.With("poller", p.id.String())
	p.opts.policy.Reset()

	for {
		if ctx.Err() != nil {
			p.Cancel()
			return
		}
		if !p.beginIssue() {
			logger.Debug("Poll cancelled before issue")
			return
		}

		resp, err := p.issue(ctx)

		if err != nil && ctx.Err() != nil {
			p.Cancel()
			logger.Debug("Poll cancelled during issue", "issued", p.Issued())
			return
		}

		p.mu.Lock()
		if err != nil {
			p.err = err
			p.mu.Unlock()
			logger.Debug("Poll aborted", "issued", p.Issued(), "error", err)
			return
		}
		p.last = resp
		canceled := p.canceled
		p.mu.Unlock()

		if p.stop(resp) {
			logger.Debug("Poll finished", "issued", p.Issued())
			return
		}
		if canceled {
			return
		}

		p.setState(Waiting)
		select {
		case <-p.opts.clock.After(p.opts.policy.Next()):
		case <-p.cancelCh:
			return
		case <-ctx.Done():
			p.Cancel()
			return
		}
	}
}

// beginIssue moves to Issuing unless the poller was cancelled meanwhile.
func (p *Poller[R]) beginIssue() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceled {
		return false
	}
	p.state = Issuing
	p.issued++
	return true
}

func (p *Poller[R]) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Until builds a stop predicate that matches when field(response) is one of terminal.
// Values outside terminal, including unrecognized ones, keep the poll running.
func Until[R any, T comparable](field func(R) T, terminal ...T) func(R) bool {
	set := make(map[T]struct{}, len(terminal))
	for _, t := range terminal {
		set[t] = struct{}{}
	}
	return func(r R) bool {
		_, ok := set[field(r)]
		return ok
	}
}
