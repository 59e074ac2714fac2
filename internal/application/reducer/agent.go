package reducer

import (
	"flowci-console/internal/application/action"
	"flowci-console/internal/domain/model"
	"flowci-console/internal/domain/state"
)

// Agent folds agent lifecycle events into the agents branch.
func Agent(s state.AgentState, e action.Lifecycle) state.AgentState {
	var fold bool
	if s.UI, fold = track(s.UI, e); !fold {
		return s
	}

	switch e.Name {
	case action.AgentQuery:
		var records []model.Record
		for _, r := range model.Records(e.Payload) {
			records = append(records, model.AgentID(r))
		}
		return s.ReplaceData(records)
	}
	return s
}
