// Package state holds the immutable store tree the reducers fold lifecycle
// events into. Every helper returns a new value; a snapshot handed to a
// subscriber stays valid for as long as it is held.
package state

import (
	"flowci-console/internal/domain/model"
	"flowci-console/pkg/ordered"
)

// Records is an insertion-ordered collection of records keyed by derived id.
type Records = ordered.Map[string, model.Record]

// Env is an insertion-ordered set of environment variables.
type Env = ordered.Map[string, string]

// UI is transient view state: not entity data, never sent to the server.
type UI struct {
	Filter    string
	HasFilter bool
	// Pending holds the request keys that have a request in flight.
	Pending ordered.Map[string, bool]
	// Errors holds the last failure message per request key.
	Errors ordered.Map[string, string]
}

// IsPending reports whether a request with key is in flight.
func (u UI) IsPending(key string) bool {
	return u.Pending.Has(key)
}

// Error returns the last failure recorded for key.
func (u UI) Error(key string) (string, bool) {
	return u.Errors.Get(key)
}

// MarkPending flags key as in flight.
func (u UI) MarkPending(key string) UI {
	u.Pending = u.Pending.Set(key, true)
	return u
}

// Succeed clears the in-flight flag and any previous error of key.
func (u UI) Succeed(key string) UI {
	u.Pending = u.Pending.Delete(key)
	u.Errors = u.Errors.Delete(key)
	return u
}

// Fail clears the in-flight flag of key and records msg.
func (u UI) Fail(key, msg string) UI {
	u.Pending = u.Pending.Delete(key)
	u.Errors = u.Errors.Set(key, msg)
	return u
}

// SetFilter stores the active list filter.
func (u UI) SetFilter(filter string) UI {
	u.Filter = filter
	u.HasFilter = true
	return u
}

// ClearFilter removes the active list filter.
func (u UI) ClearFilter() UI {
	u.Filter = ""
	u.HasFilter = false
	return u
}

// FlowState is the flows branch of the store.
type FlowState struct {
	Data Records
	// Status maps a flow name to its latest job.
	Status Records
	// Yml maps a flow id to its definition; absent until loaded.
	Yml ordered.Map[string, string]
	// EditEnvs maps a flow id to the variables being edited.
	EditEnvs ordered.Map[string, Env]
	UI       UI
}

// AgentState is the agents branch of the store.
type AgentState struct {
	Data Records
	UI   UI
}

// State is the root snapshot.
type State struct {
	Flows  FlowState
	Agents AgentState
}

// Initial returns the empty skeleton the store starts from and resets to.
func Initial() State {
	return State{}
}

// ReplaceData swaps the whole collection for records, keyed by id, in order.
func (s FlowState) ReplaceData(records []model.Record) FlowState {
	s.Data = collect(records)
	return s
}

// Upsert merges r into the record stored under id, creating it when absent.
// The stored record always carries id.
func (s FlowState) Upsert(id string, r model.Record) FlowState {
	s.Data = upsert(s.Data, id, r)
	return s
}

// Remove deletes the record stored under id.
func (s FlowState) Remove(id string) FlowState {
	s.Data = s.Data.Delete(id)
	return s
}

// ReplaceStatus swaps the latest-job collection.
func (s FlowState) ReplaceStatus(status Records) FlowState {
	s.Status = status
	return s
}

// SetYml stores the definition text of a flow.
func (s FlowState) SetYml(flowID, text string) FlowState {
	s.Yml = s.Yml.Set(flowID, text)
	return s
}

// ReleaseYml forgets the definition text of a flow.
func (s FlowState) ReleaseYml(flowID string) FlowState {
	s.Yml = s.Yml.Delete(flowID)
	return s
}

// Release forgets the record, definition and edited variables of a flow.
func (s FlowState) Release(flowID string) FlowState {
	s.Data = s.Data.Delete(flowID)
	s.Yml = s.Yml.Delete(flowID)
	s.EditEnvs = s.EditEnvs.Delete(flowID)
	return s
}

// EditEnv returns the variables being edited for a flow.
func (s FlowState) EditEnv(flowID string) (Env, bool) {
	return s.EditEnvs.Get(flowID)
}

// ReplaceData swaps the agent collection for records, keyed by id, in order.
func (s AgentState) ReplaceData(records []model.Record) AgentState {
	s.Data = collect(records)
	return s
}

func collect(records []model.Record) Records {
	pairs := make([]ordered.Pair[string, model.Record], 0, len(records))
	for _, r := range records {
		pairs = append(pairs, ordered.Pair[string, model.Record]{Key: r.ID(), Value: r})
	}
	return ordered.Of(pairs...)
}

func upsert(data Records, id string, r model.Record) Records {
	if existing, ok := data.Get(id); ok {
		return data.Set(id, existing.Merge(r).WithID(id))
	}
	return data.Set(id, r.WithID(id))
}
