package flow

import (
	"context"
	"fmt"

	"flowci-console/internal/application/request"
	"flowci-console/internal/domain/model"
	"flowci-console/pkg/poll"
)

// Dispatcher performs descriptors; *dispatch.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, desc request.Descriptor) (any, error)
}

// CreateTest connects a new flow to git and asks the server to load its
// definition. It stops at the first failing step.
func CreateTest(ctx context.Context, d Dispatcher, id string, settings model.GitSettings) error {
	update, err := DoneCreate(id, settings)
	if err != nil {
		return err
	}
	load, err := LoadYml(id)
	if err != nil {
		return err
	}

	if _, err := d.Dispatch(ctx, update); err != nil {
		return fmt.Errorf("update env of %s: %w", id, err)
	}
	if _, err := d.Dispatch(ctx, load); err != nil {
		return fmt.Errorf("load yml of %s: %w", id, err)
	}
	return nil
}

// PollTestResult polls the environment of a flow until FLOW_YML_STATUS reaches
// a terminal value. The returned poller reports the last environment on Wait.
func PollTestResult(ctx context.Context, d Dispatcher, id string, opts ...poll.Option) (*poll.Poller[any], error) {
	desc, err := PollEnv(id)
	if err != nil {
		return nil, err
	}

	issue := func(ctx context.Context) (any, error) {
		return d.Dispatch(ctx, desc)
	}
	return poll.Start(ctx, issue, poll.Until(YmlStatus, model.TerminalYmlStatuses...), opts...), nil
}

// YmlStatus reads FLOW_YML_STATUS from a polled environment.
func YmlStatus(envs any) model.YmlStatus {
	r, ok := model.AsRecord(envs)
	if !ok {
		return ""
	}
	return model.YmlStatus(r.String(model.EnvYmlStatus))
}
