package reducer

import (
	"fmt"
	"sort"

	"flowci-console/internal/application/action"
	"flowci-console/internal/domain/model"
	"flowci-console/internal/domain/state"
)

// Flow folds flow and job lifecycle events into the flows branch.
func Flow(s state.FlowState, e action.Lifecycle) state.FlowState {
	var fold bool
	if s.UI, fold = track(s.UI, e); !fold {
		return s
	}

	ind := e.Indicator
	switch e.Name {
	case action.FlowQuery:
		var records []model.Record
		for _, r := range model.Records(e.Payload) {
			records = append(records, model.FlowID(r))
		}
		return s.ReplaceData(records)

	case action.FlowGet, action.FlowCreate, action.FlowChangeStatus, action.FlowUpdateEnv,
		action.FlowRemoveEnv, action.FlowLoadYml, action.FlowSetTrigger:
		r, ok := model.AsRecord(e.Payload)
		if !ok {
			return s
		}
		r = model.FlowID(r)
		id := ind.ID()
		if id == "" {
			id = r.ID()
		}
		if id == "" {
			return s
		}
		return s.Upsert(id, r)

	case action.FlowRemove:
		return s.Remove(ind.ID())

	case action.FlowPollEnv:
		id := ind.ID()
		if id == "" {
			return s
		}
		return s.Upsert(id, model.Record{model.IDField: id, model.EnvsField: e.Payload})

	case action.FlowGetYml, action.FlowSaveYml:
		text, _ := e.Payload.(string)
		return s.SetYml(ind.FlowID(), text)

	case action.FlowGetEditEnvs:
		return s.LoadEditEnvs(ind.FlowID(), asEnv(e.Payload))

	case action.FlowSaveEditEnvs:
		return s.SaveEditEnvs(ind.FlowID(), asEnv(ind[action.IndicatorEnvs]))

	case action.FlowRemoveEditEnvs:
		return s.RemoveEditEnv(ind.FlowID(), ind.String(action.IndicatorName))

	case action.JobQueryLatest:
		var latest state.Records
		for _, job := range model.Records(e.Payload) {
			job = model.JobID(job)
			latest = latest.Set(job.String("name"), job)
		}
		return s.ReplaceStatus(latest)
	}
	return s
}

// asEnv accepts the shapes an env batch arrives in. Plain Go maps carry no
// order, so their keys are sorted.
func asEnv(v any) state.Env {
	switch env := v.(type) {
	case state.Env:
		return env
	case map[string]string:
		var out state.Env
		for _, k := range sortedKeys(env) {
			out = out.Set(k, env[k])
		}
		return out
	case map[string]any:
		var out state.Env
		for _, k := range sortedKeys(env) {
			out = out.Set(k, fmt.Sprint(env[k]))
		}
		return out
	default:
		return state.Env{}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

