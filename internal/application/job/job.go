// Package job builds the request descriptors of the jobs API.
package job

import (
	"flowci-console/internal/application/action"
	"flowci-console/internal/application/request"
)

// QueryLatest fetches the latest job of each named flow.
func QueryLatest(flowNames ...string) (request.Descriptor, error) {
	names := append([]string{}, flowNames...)
	return request.New(action.JobQueryLatest, "/jobs/status/latest",
		request.WithMethod(request.POST),
		request.WithBody(names),
	)
}
