// Package console wires the configuration, the HTTP transport, the dispatcher
// and the store into the object the CLI drives.
package console

import (
	"context"
	"fmt"
	"time"

	"flowci-console/internal/application/action"
	"flowci-console/internal/application/agent"
	"flowci-console/internal/application/config"
	"flowci-console/internal/application/dispatch"
	"flowci-console/internal/application/flow"
	"flowci-console/internal/application/job"
	"flowci-console/internal/application/request"
	"flowci-console/internal/application/store"
	"flowci-console/internal/application/version"
	"flowci-console/internal/domain/model"
	"flowci-console/internal/domain/state"
	"flowci-console/internal/infra/api"
	"flowci-console/pkg/backoff"
	"flowci-console/pkg/log"
	"flowci-console/pkg/poll"
	"flowci-console/pkg/yaml"

	"golang.org/x/sync/errgroup"
)

const (
	refreshAttempts   = 3
	refreshRetryBase  = 200 * time.Millisecond
	refreshRetryLimit = 2 * time.Second
)

// Console represents one session against the flow.ci API.
type Console struct {
	config     *config.Config
	store      *store.Store
	dispatcher *dispatch.Dispatcher
	retry      func() backoff.Policy
}

// Option customizes a Console.
type Option func(*options)

type options struct {
	transport dispatch.Transport
	retry     func() backoff.Policy
}

// WithTransport replaces the HTTP client built from the configuration.
func WithTransport(t dispatch.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithRetryPolicy sets the delay policy used between refresh attempts.
func WithRetryPolicy(fn func() backoff.Policy) Option {
	return func(o *options) { o.retry = fn }
}

// NewConsole creates a console. Cancelling ctx stops new requests.
func NewConsole(ctx context.Context, cfg *config.Config, opts ...Option) *Console {
	o := options{
		retry: func() backoff.Policy { return backoff.New(refreshRetryBase, refreshRetryLimit) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = api.NewClient(cfg.GetAPIBaseURL(),
			api.WithToken(cfg.GetToken()),
			api.WithTimeout(cfg.GetRequestTimeout()),
			api.WithUserAgent(version.UserAgent()),
		)
	}

	s := store.New()
	return &Console{
		config:     cfg,
		store:      s,
		dispatcher: dispatch.NewDispatcher(ctx, o.transport, s.Dispatch),
		retry:      o.retry,
	}
}

// State returns the current snapshot.
func (c *Console) State() state.State {
	return c.store.State()
}

// Subscribe registers fn for every new snapshot.
func (c *Console) Subscribe(fn store.Listener) func() {
	return c.store.Subscribe(fn)
}

// Send reduces a local intent such as a filter change.
func (c *Console) Send(a action.Action) {
	c.store.Dispatch(a)
}

// Do builds a descriptor and dispatches it. When Do returns, State reflects
// the outcome even if another goroutine was draining the store meanwhile.
// Do must not be called from a store listener.
func (c *Console) Do(ctx context.Context, build func() (request.Descriptor, error)) (any, error) {
	desc, err := build()
	if err != nil {
		return nil, err
	}
	return c.dispatch(ctx, desc)
}

func (c *Console) dispatch(ctx context.Context, desc request.Descriptor) (any, error) {
	defer c.store.Settle()
	return c.dispatcher.Dispatch(ctx, desc)
}

// Refresh reloads flows, agents and the latest jobs concurrently. Transient
// failures are retried; each attempt is a separate dispatch.
func (c *Console) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		payload, err := c.retrying(ctx, flow.Query)
		if err != nil {
			return fmt.Errorf("query flows: %w", err)
		}
		if !c.config.IsFeatureEnabled(config.FeatureLatestJobs) {
			return nil
		}

		var names []string
		for _, r := range model.Records(payload) {
			if name := r.String("name"); name != "" {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return nil
		}
		if _, err := c.retrying(ctx, func() (request.Descriptor, error) { return job.QueryLatest(names...) }); err != nil {
			return fmt.Errorf("query latest jobs: %w", err)
		}
		return nil
	})

	if c.config.IsFeatureEnabled(config.FeatureAgents) {
		g.Go(func() error {
			if _, err := c.retrying(ctx, agent.Query); err != nil {
				return fmt.Errorf("query agents: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (c *Console) retrying(ctx context.Context, build func() (request.Descriptor, error)) (any, error) {
	desc, err := build()
	if err != nil {
		return nil, err
	}
	return backoff.Retry(ctx, c.retry(), refreshAttempts, dispatch.IsRetryable, func(ctx context.Context) (any, error) {
		return c.dispatch(ctx, desc)
	})
}

// StartTest connects a flow to git and triggers a load of its definition.
func (c *Console) StartTest(ctx context.Context, id string, settings model.GitSettings) error {
	defer c.store.Settle()
	return flow.CreateTest(ctx, c.dispatcher, id, settings)
}

// CreateTest runs StartTest and waits for the result.
func (c *Console) CreateTest(ctx context.Context, id string, settings model.GitSettings) (model.YmlStatus, error) {
	if err := c.StartTest(ctx, id, settings); err != nil {
		return "", err
	}
	return c.WaitTestResult(ctx, id)
}

// WaitTestResult polls FLOW_YML_STATUS until it is terminal, ctx ends or the
// configured poll timeout elapses. A timeout or cancellation returns the last
// status seen and no error.
func (c *Console) WaitTestResult(ctx context.Context, id string) (model.YmlStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.GetPollTimeout())
	defer cancel()

	p, err := flow.PollTestResult(ctx, c.dispatcher, id, poll.WithInterval(c.config.GetPollInterval()))
	if err != nil {
		return "", err
	}
	last, err := p.Wait()
	c.store.Settle()
	if err != nil {
		return "", fmt.Errorf("poll test result of %s: %w", id, err)
	}
	if p.Canceled() {
		log.Warn("Stopped waiting for test result", "flow", id, "issued", p.Issued())
	}
	return flow.YmlStatus(last), nil
}

// SaveYml uploads a flow definition, checking its syntax first unless the
// validate_yml feature is off.
func (c *Console) SaveYml(ctx context.Context, id, text string) (string, error) {
	if c.config.IsFeatureEnabled(config.FeatureValidateYml) {
		if err := yaml.Validate(text); err != nil {
			return "", fmt.Errorf("flow %s: %w", id, err)
		}
	}
	payload, err := c.Do(ctx, func() (request.Descriptor, error) { return flow.SaveYml(id, text) })
	if err != nil {
		return "", err
	}
	s, _ := payload.(string)
	return s, nil
}

// Watch refreshes every interval until ctx ends. A failed refresh is logged
// and the next one still runs.
func (c *Console) Watch(ctx context.Context, interval time.Duration, opts ...poll.Option) error {
	refresh := func(ctx context.Context) (struct{}, error) {
		if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
			log.Warn("Refresh failed", "error", err)
		}
		return struct{}{}, nil
	}
	never := func(struct{}) bool { return false }

	opts = append([]poll.Option{poll.WithInterval(interval)}, opts...)
	p := poll.Start(ctx, refresh, never, opts...)
	_, err := p.Wait()
	return err
}

// Close rejects new requests and waits for those in flight.
func (c *Console) Close(ctx context.Context) error {
	c.dispatcher.Shutdown()
	return c.dispatcher.WaitForCompletion(ctx)
}
