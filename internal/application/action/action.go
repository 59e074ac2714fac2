// Package action defines everything the store reduces: lifecycle events of
// dispatched requests and local UI intents. Action is a closed sum type;
// reducers switch over its variants exhaustively.
package action

import (
	"fmt"

	"github.com/google/uuid"
)

// Action is implemented only by the variants in this package.
type Action interface {
	isAction()
}

// Name identifies a remote operation.
type Name string

const (
	FlowQuery          Name = "flow/query"
	FlowGet            Name = "flow/get"
	FlowCreate         Name = "flow/create"
	FlowChangeStatus   Name = "flow/changeStatus"
	FlowRemove         Name = "flow/remove"
	FlowUpdateEnv      Name = "flow/updateEnv"
	FlowRemoveEnv      Name = "flow/removeEnv"
	FlowLoadYml        Name = "flow/loadYml"
	FlowPollEnv        Name = "flow/pollEnv"
	FlowSetTrigger     Name = "flow/setTrigger"
	FlowGetYml         Name = "flow/getYml"
	FlowSaveYml        Name = "flow/saveYml"
	FlowGetEditEnvs    Name = "flow/getEditEnvs"
	FlowSaveEditEnvs   Name = "flow/saveEditEnvs"
	FlowRemoveEditEnvs Name = "flow/removeEditEnvs"

	AgentQuery Name = "agent/query"

	JobQueryLatest Name = "job/queryLatest"
)

// Phase is the stage of a dispatched request.
type Phase int

const (
	Pending Phase = iota
	Success
	Failure
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "PENDING"
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Lifecycle is emitted by the dispatcher: one Pending, then exactly one of
// Success or Failure, all sharing RequestID and the descriptor's Indicator.
type Lifecycle struct {
	Phase     Phase
	Name      Name
	Indicator Indicator
	// Payload is the transformed response body; set on Success only.
	Payload any
	// Err is the failure detail; set on Failure only.
	Err       error
	RequestID uuid.UUID
}

// Key correlates the events of one logical request for UI bookkeeping.
func (l Lifecycle) Key() string {
	return RequestKey(l.Name, l.Indicator)
}

// SetFilter sets the flow list filter.
type SetFilter struct {
	Filter string
}

// ClearFilter removes the flow list filter.
type ClearFilter struct{}

// ReleaseYml drops the cached definition of a flow.
type ReleaseYml struct {
	FlowID string
}

// Release drops everything cached for one flow: its record, definition and
// edited variables.
type Release struct {
	FlowID string
}

// Reset replaces the whole store with its initial skeleton.
type Reset struct{}

func (Lifecycle) isAction()   {}
func (SetFilter) isAction()   {}
func (ClearFilter) isAction() {}
func (ReleaseYml) isAction()  {}
func (Release) isAction()     {}
func (Reset) isAction()       {}
