package job

import (
	"testing"

	"flowci-console/internal/application/action"
	"flowci-console/internal/application/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryLatest(t *testing.T) {
	names := []string{"flowA", "flowB"}
	d, err := QueryLatest(names...)
	require.NoError(t, err)

	names[0] = "changed"
	call, err := d.Call()
	require.NoError(t, err)
	assert.Equal(t, action.JobQueryLatest, d.Name)
	assert.Equal(t, request.POST, call.Method)
	assert.Equal(t, "/jobs/status/latest", call.Path)
	assert.Equal(t, []string{"flowA", "flowB"}, call.Body)
}

func TestQueryLatestWithoutNames(t *testing.T) {
	d, err := QueryLatest()
	require.NoError(t, err)
	assert.Equal(t, []string{}, d.Body)
}
