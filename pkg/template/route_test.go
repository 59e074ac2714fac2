package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		route    string
		params   map[string]any
		want     string
		wantUsed []string
	}{
		{
			name:  "no placeholders",
			route: "/flows",
			want:  "/flows",
		},
		{
			name:     "single placeholder",
			route:    "/flows/:flowName",
			params:   map[string]any{"flowName": "flowA"},
			want:     "/flows/flowA",
			wantUsed: []string{"flowName"},
		},
		{
			name:     "two placeholders and extra params",
			route:    "/flows/:flowName/status/:status",
			params:   map[string]any{"flowName": "flowA", "status": "READY", "other": 1},
			want:     "/flows/flowA/status/READY",
			wantUsed: []string{"flowName", "status"},
		},
		{
			name:     "literal query string is kept",
			route:    "/flows/:flowName/env?editable=true",
			params:   map[string]any{"flowName": "flowA"},
			want:     "/flows/flowA/env?editable=true",
			wantUsed: []string{"flowName"},
		},
		{
			name:     "values are path escaped",
			route:    "/flows/:flowName",
			params:   map[string]any{"flowName": "a b/c"},
			want:     "/flows/a%20b%2Fc",
			wantUsed: []string{"flowName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, used, err := Resolve(tt.route, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, used, len(tt.wantUsed))
			for _, name := range tt.wantUsed {
				assert.Contains(t, used, name)
			}
		})
	}
}

func TestResolveMissing(t *testing.T) {
	for _, params := range []map[string]any{
		nil,
		{"flowName": ""},
		{"flowName": nil},
	} {
		_, _, err := Resolve("/flows/:flowName/status/:status", params)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingParam))

		var missing *MissingParamError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"flowName", "status"}, missing.Names)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"flowName", "status"}, Placeholders("/flows/:flowName/status/:status?x=:y"))
	assert.Empty(t, Placeholders("/agents"))
}
