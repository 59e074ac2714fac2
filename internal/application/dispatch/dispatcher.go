// Package dispatch performs request descriptors and reports their lifecycle:
// one Pending event before the transport is called, then exactly one Success
// or Failure event carrying the descriptor's indicator.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"flowci-console/internal/application/action"
	"flowci-console/internal/application/request"
	"flowci-console/pkg/log"

	"github.com/google/uuid"
)

// ErrShuttingDown is returned by Dispatch after Shutdown.
var ErrShuttingDown = errors.New("dispatcher is shutting down")

// Sink receives lifecycle events, typically store.Dispatch.
type Sink func(action.Action)

// Dispatcher turns descriptors into transport calls and lifecycle events.
// It is safe for concurrent use.
type Dispatcher struct {
	transport Transport
	sink      Sink

	mutex          sync.Mutex
	isShuttingDown bool
	active         sync.WaitGroup
	stop           func() bool
}

// NewDispatcher creates a dispatcher. Cancelling ctx initiates Shutdown.
func NewDispatcher(ctx context.Context, transport Transport, sink Sink) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		sink:      sink,
	}
	if ctx != nil {
		d.stop = context.AfterFunc(ctx, d.Shutdown)
	}
	return d
}

// Dispatch performs desc and returns its transformed payload.
//
// A descriptor that does not resolve fails with a *request.ConstructionError
// before any event is emitted. Otherwise Pending is emitted synchronously, the
// transport is called, and Success or Failure follows. A failure is returned as
// a *TransportError, or as the transform's error when the payload does not decode.
func (d *Dispatcher) Dispatch(ctx context.Context, desc request.Descriptor) (any, error) {
	call, err := desc.Call()
	if err != nil {
		return nil, err
	}

	if !d.begin() {
		return nil, ErrShuttingDown
	}
	defer d.active.Done()

	id := uuid.New()
	logger := log.With("request_id", id, "name", desc.Name)

	d.emit(action.Lifecycle{
		Phase:     action.Pending,
		Name:      desc.Name,
		Indicator: desc.Indicator,
		RequestID: id,
	})

	logger.Debug("Performing request", "method", call.Method, "path", call.Path)
	payload, err := d.perform(ctx, desc, call)
	if err != nil {
		logger.Debug("Request failed", "error", err)
		d.emit(action.Lifecycle{
			Phase:     action.Failure,
			Name:      desc.Name,
			Indicator: desc.Indicator,
			Err:       err,
			RequestID: id,
		})
		return nil, err
	}

	logger.Debug("Request succeeded")
	d.emit(action.Lifecycle{
		Phase:     action.Success,
		Name:      desc.Name,
		Indicator: desc.Indicator,
		Payload:   payload,
		RequestID: id,
	})
	return payload, nil
}

func (d *Dispatcher) perform(ctx context.Context, desc request.Descriptor, call request.Call) (any, error) {
	resp, err := d.transport.Perform(ctx, call)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransportError{Err: err}
	}
	if !resp.OK() {
		return nil, &TransportError{StatusCode: resp.Status, Body: string(resp.Data)}
	}

	payload, err := desc.Decode(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Name, err)
	}
	return payload, nil
}

func (d *Dispatcher) emit(a action.Action) {
	if d.sink != nil {
		d.sink(a)
	}
}

func (d *Dispatcher) begin() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.isShuttingDown {
		return false
	}
	d.active.Add(1)
	return true
}

// Shutdown rejects new dispatches; calls already in flight run to completion.
func (d *Dispatcher) Shutdown() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.isShuttingDown = true
}

// IsShuttingDown reports whether Shutdown was called.
func (d *Dispatcher) IsShuttingDown() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.isShuttingDown
}

// WaitForCompletion blocks until every in-flight call has emitted its terminal
// event or ctx is done. Call it after Shutdown.
func (d *Dispatcher) WaitForCompletion(ctx context.Context) error {
	if d.stop != nil {
		d.stop()
	}

	done := make(chan struct{})
	go func() {
		d.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
