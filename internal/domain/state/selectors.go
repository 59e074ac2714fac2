package state

import (
	"strings"

	"flowci-console/internal/domain/model"
)

// Visible returns the flows matching the active filter, in store order.
// Without a filter every flow is visible.
func (s FlowState) Visible() []model.Record {
	out := make([]model.Record, 0, s.Data.Len())
	filter := strings.ToLower(s.UI.Filter)
	s.Data.Each(func(id string, r model.Record) bool {
		if !s.UI.HasFilter || strings.Contains(strings.ToLower(id), filter) {
			out = append(out, r)
		}
		return true
	})
	return out
}

// Latest returns the latest job of a flow.
func (s FlowState) Latest(flowName string) (model.Record, bool) {
	return s.Status.Get(flowName)
}
