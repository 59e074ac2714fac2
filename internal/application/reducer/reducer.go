// Package reducer folds actions into store snapshots. Every function here is
// pure and total: it never mutates its input and never panics on a well-formed
// action; anything it does not recognize leaves the state as it was.
package reducer

import (
	"strings"

	"flowci-console/internal/application/action"
	"flowci-console/internal/domain/state"
)

// Reduce derives the next snapshot from s and a.
func Reduce(s state.State, a action.Action) state.State {
	switch a := a.(type) {
	case action.Lifecycle:
		switch domain(a.Name) {
		case "flow", "job":
			s.Flows = Flow(s.Flows, a)
		case "agent":
			s.Agents = Agent(s.Agents, a)
		}
	case action.SetFilter:
		s.Flows.UI = s.Flows.UI.SetFilter(a.Filter)
	case action.ClearFilter:
		s.Flows.UI = s.Flows.UI.ClearFilter()
	case action.ReleaseYml:
		s.Flows = s.Flows.ReleaseYml(a.FlowID)
	case action.Release:
		s.Flows = s.Flows.Release(a.FlowID)
	case action.Reset:
		return state.Initial()
	}
	return s
}

func domain(name action.Name) string {
	d, _, _ := strings.Cut(string(name), "/")
	return d
}

// track applies the in-flight and error bookkeeping every lifecycle event
// carries. It reports whether the event is a Success whose fold must run.
func track(ui state.UI, e action.Lifecycle) (state.UI, bool) {
	key := e.Key()
	switch e.Phase {
	case action.Pending:
		return ui.MarkPending(key), false
	case action.Failure:
		msg := "request failed"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return ui.Fail(key, msg), false
	case action.Success:
		return ui.Succeed(key), true
	default:
		return ui, false
	}
}
