// Package flow builds the request descriptors of the flows API and composes
// them into multi-step tasks. Builders are pure; they only fail when a route
// parameter is missing.
package flow

import (
	"flowci-console/internal/application/action"
	"flowci-console/internal/application/request"
	"flowci-console/internal/domain/model"
	"flowci-console/pkg/ordered"
)

const paramFlowName = "flowName"

func byID(id string) request.Indicator {
	return request.Indicator{action.IndicatorID: id}
}

func byFlowID(id string) request.Indicator {
	return request.Indicator{action.IndicatorFlowID: id}
}

// Query lists every flow.
func Query() (request.Descriptor, error) {
	return request.New(action.FlowQuery, "/flows",
		request.WithTransform(request.FlowIDs),
	)
}

// Get fetches one flow.
func Get(id string) (request.Descriptor, error) {
	return request.New(action.FlowGet, "/flows/:flowName",
		request.WithParam(paramFlowName, id),
		request.WithIndicator(byID(id)),
		request.WithTransform(request.FlowIDs),
	)
}

// Create registers a new flow named id.
func Create(id string) (request.Descriptor, error) {
	return request.New(action.FlowCreate, "/flows/:flowName",
		request.WithMethod(request.POST),
		request.WithParam(paramFlowName, id),
		request.WithIndicator(byID(id)),
		request.WithTransform(request.FlowIDs),
	)
}

// ChangeStatus moves a flow to status.
func ChangeStatus(id, status string) (request.Descriptor, error) {
	return request.New(action.FlowChangeStatus, "/flows/:flowName/status/:status",
		request.WithMethod(request.PATCH),
		request.WithParam(paramFlowName, id),
		request.WithParam("status", status),
		request.WithIndicator(byID(id)),
		request.WithTransform(request.FlowIDs),
	)
}

// Remove deletes a flow.
func Remove(id string) (request.Descriptor, error) {
	return request.New(action.FlowRemove, "/flows/:flowName",
		request.WithMethod(request.DELETE),
		request.WithParam(paramFlowName, id),
		request.WithIndicator(byID(id)),
		request.WithTransform(request.FlowIDs),
	)
}

// UpdateEnv sets environment variables on a flow.
func UpdateEnv(id string, env ordered.Map[string, string]) (request.Descriptor, error) {
	return request.New(action.FlowUpdateEnv, "/flows/:flowName/env",
		request.WithMethod(request.PATCH),
		request.WithParam(paramFlowName, id),
		request.WithBody(env),
		request.WithIndicator(byID(id)),
		request.WithTransform(request.FlowIDs),
	)
}

// RemoveEnv deletes environment variables from a flow.
func RemoveEnv(id string, names ...string) (request.Descriptor, error) {
	return request.New(action.FlowRemoveEnv, "/flows/:flowName/env",
		request.WithMethod(request.DELETE),
		request.WithParam(paramFlowName, id),
		request.WithBody(names),
		request.WithIndicator(byID(id)),
		request.WithTransform(request.FlowIDs),
	)
}

// DoneCreate connects a created flow to its git repository.
func DoneCreate(id string, settings model.GitSettings) (request.Descriptor, error) {
	return UpdateEnv(id, model.CreateEnv(settings))
}

// LoadYml asks the server to fetch the flow definition from git.
func LoadYml(id string) (request.Descriptor, error) {
	return request.New(action.FlowLoadYml, "/flows/:flowName/yml/load",
		request.WithParam(paramFlowName, id),
		request.WithTransform(request.FlowIDs),
	)
}

// PollEnv reads the environment of a flow; used to watch FLOW_YML_STATUS.
func PollEnv(id string) (request.Descriptor, error) {
	return request.New(action.FlowPollEnv, "/flows/:flowName/env",
		request.WithParam(paramFlowName, id),
		request.WithIndicator(byID(id)),
	)
}

// SetTrigger updates the trigger settings of a flow. The trigger fields are
// sent as the request body.
func SetTrigger(id string, trigger map[string]any) (request.Descriptor, error) {
	opts := []request.Option{
		request.WithMethod(request.POST),
		request.WithParam(paramFlowName, id),
		request.WithTransform(request.FlowIDs),
	}
	for k, v := range trigger {
		if k == paramFlowName {
			continue
		}
		opts = append(opts, request.WithParam(k, v))
	}
	return request.New(action.FlowSetTrigger, "/flows/:flowName/trigger", opts...)
}

// GetEditEnvs reads the user-editable variables of a flow, in server order.
func GetEditEnvs(id string) (request.Descriptor, error) {
	return request.New(action.FlowGetEditEnvs, "/flows/:flowName/env?editable=true",
		request.WithParam(paramFlowName, id),
		request.WithIndicator(byFlowID(id)),
		request.WithTransform(request.Envs),
	)
}

// SaveEditEnvs stores a batch of edited variables. The batch travels on the
// indicator so the confirmed keys can be merged once the server accepts them.
func SaveEditEnvs(id string, envs ordered.Map[string, string]) (request.Descriptor, error) {
	return request.New(action.FlowSaveEditEnvs, "/flows/:flowName/env?verify=true",
		request.WithMethod(request.POST),
		request.WithParam(paramFlowName, id),
		request.WithBody(envs),
		request.WithIndicator(request.Indicator{
			action.IndicatorFlowID: id,
			action.IndicatorEnvs:   envs,
		}),
	)
}

// RemoveEditEnv deletes one edited variable.
func RemoveEditEnv(id, name string) (request.Descriptor, error) {
	return request.New(action.FlowRemoveEditEnvs, "/flows/:flowName/env?verify=true",
		request.WithMethod(request.DELETE),
		request.WithParam(paramFlowName, id),
		request.WithBody([]string{name}),
		request.WithIndicator(request.Indicator{
			action.IndicatorFlowID: id,
			action.IndicatorName:   name,
		}),
	)
}

// GetYml reads the definition text of a flow.
func GetYml(id string) (request.Descriptor, error) {
	return request.New(action.FlowGetYml, "/flows/:flowName/yml",
		request.WithParam(paramFlowName, id),
		request.WithIndicator(byFlowID(id)),
		request.WithTransform(request.Text),
	)
}

// SaveYml replaces the definition text of a flow.
func SaveYml(id, yml string) (request.Descriptor, error) {
	return request.New(action.FlowSaveYml, "/flows/:flowName/yml",
		request.WithMethod(request.POST),
		request.WithParam(paramFlowName, id),
		request.WithBody(yml),
		request.WithIndicator(byFlowID(id)),
		request.WithTransform(request.Text),
	)
}

// SetFilter filters the flow list.
func SetFilter(filter string) action.Action { return action.SetFilter{Filter: filter} }

// ClearFilter removes the flow list filter.
func ClearFilter() action.Action { return action.ClearFilter{} }

// ReleaseYml drops the cached definition of a flow.
func ReleaseYml(id string) action.Action { return action.ReleaseYml{FlowID: id} }

// Release drops the cached state of one flow.
func Release(id string) action.Action { return action.Release{FlowID: id} }

// Reset empties the store.
func Reset() action.Action { return action.Reset{} }
