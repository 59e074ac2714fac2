package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestKey(t *testing.T) {
	tests := []struct {
		name string
		ind  Indicator
		want string
	}{
		{"no indicator", nil, "flow/query"},
		{"single id", Indicator{"id": "flowA"}, "flow/query?id=flowA"},
		{"sorted", Indicator{"name": "FOO", "flowId": "flowA"}, "flow/query?flowId=flowA,name=FOO"},
		{"non scalar skipped", Indicator{"flowId": "flowA", "envs": map[string]string{"a": "1"}}, "flow/query?flowId=flowA"},
		{"number", Indicator{"id": 7}, "flow/query?id=7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequestKey(FlowQuery, tt.ind))
		})
	}
}

func TestIndicatorAccessors(t *testing.T) {
	ind := Indicator{"id": "flowA", "flowId": "flowB"}
	assert.Equal(t, "flowA", ind.ID())
	assert.Equal(t, "flowB", ind.FlowID())
	assert.Equal(t, "", Indicator(nil).ID())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "PENDING", Pending.String())
	assert.Equal(t, "SUCCESS", Success.String())
	assert.Equal(t, "FAILURE", Failure.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}
