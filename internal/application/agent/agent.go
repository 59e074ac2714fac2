// Package agent builds the request descriptors of the agents API.
package agent

import (
	"flowci-console/internal/application/action"
	"flowci-console/internal/application/request"
)

// Query lists every build agent. Each record is keyed by path.zone + path.name.
func Query() (request.Descriptor, error) {
	return request.New(action.AgentQuery, "/agents")
}
