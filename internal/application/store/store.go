// Package store owns the current snapshot. All reductions go through one FIFO
// queue, so exactly one reducer runs at a time and every subscriber sees every
// snapshot in reduction order.
package store

import (
	"sync"

	"flowci-console/internal/application/action"
	"flowci-console/internal/application/reducer"
	"flowci-console/internal/domain/state"
	"flowci-console/pkg/ordered"
)

// Listener receives each new snapshot.
type Listener func(state.State)

// ReduceFunc derives the next snapshot.
type ReduceFunc func(state.State, action.Action) state.State

// Option configures a Store.
type Option func(*Store)

// WithState sets the initial snapshot.
func WithState(s state.State) Option {
	return func(st *Store) { st.state = s }
}

// WithReducer replaces reducer.Reduce.
func WithReducer(fn ReduceFunc) Option {
	return func(st *Store) { st.reduce = fn }
}

// Store is safe for concurrent use.
type Store struct {
	reduce ReduceFunc

	mu        sync.Mutex
	settled   *sync.Cond
	state     state.State
	queue     []action.Action
	draining  bool
	queued    uint64
	reduced   uint64
	listeners ordered.Map[uint64, Listener]
	nextID    uint64
}

// New creates a store holding the empty skeleton.
func New(opts ...Option) *Store {
	s := &Store{
		reduce: reducer.Reduce,
		state:  state.Initial(),
	}
	s.settled = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch queues a for reduction.
//
// The first caller to find the queue idle drains it: it reduces each queued
// action in turn and notifies listeners outside the lock. A Dispatch made by a
// listener, or by another goroutine while draining is under way, only enqueues;
// the draining caller reduces it before returning. Use Settle to wait for it.
func (s *Store) Dispatch(a action.Action) {
	s.mu.Lock()
	s.queue = append(s.queue, a)
	s.queued++
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

// Settle blocks until every action queued before the call has been reduced.
// It must not be called from a Listener.
func (s *Store) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.queued
	for s.reduced < target {
		s.settled.Wait()
	}
}

// drain reduces queued actions until the queue is empty. A panicking reducer
// or listener discards whatever is still queued and releases the queue.
func (s *Store) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.queue = nil
			s.reduced = s.queued
			s.draining = false
			s.settled.Broadcast()
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.queue = nil
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		current := s.state
		s.mu.Unlock()

		snapshot := s.reduce(current, next)

		s.mu.Lock()
		s.state = snapshot
		s.reduced++
		listeners := s.listeners
		s.settled.Broadcast()
		s.mu.Unlock()

		listeners.Each(func(_ uint64, fn Listener) bool {
			fn(snapshot)
			return true
		})
	}
}

// Subscribe registers fn for every future snapshot and returns a function
// that removes it. Unsubscribing twice is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = s.listeners.Set(id, fn)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = s.listeners.Delete(id)
	}
}
