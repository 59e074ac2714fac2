package yaml

import (
	"strings"
	"testing"
)

func TestJSONToYAML(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
		// Expected YAML output fragments (partial matches)
		expectedYAMLFragments []string
	}{
		{
			name:    "Simple JSON object",
			json:    `{"key": "value", "number": 42}`,
			wantErr: false,
			expectedYAMLFragments: []string{
				"key: value",
				"number: 42",
			},
		},
		{
			name:    "Nested JSON object",
			json:    `{"outer": {"inner": "value"}, "array": [1, 2, 3]}`,
			wantErr: false,
			expectedYAMLFragments: []string{
				"outer:",
				"  inner: value",
				"array:",
				"- 1",
				"- 2",
				"- 3",
			},
		},
		{
			name:    "Invalid JSON",
			json:    `{"invalid": [json}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yamlBytes, err := JSONToYAML([]byte(tt.json))
			if (err != nil) != tt.wantErr {
				t.Errorf("JSONToYAML() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			yamlStr := string(yamlBytes)
			for _, fragment := range tt.expectedYAMLFragments {
				if !strings.Contains(yamlStr, fragment) {
					t.Errorf("YAML output missing expected fragment: %q\n%s", fragment, yamlStr)
				}
			}
		})
	}
}

func TestJSONToYAMLKeepsKeyOrder(t *testing.T) {
	out, err := JSONToYAML([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`))
	if err != nil {
		t.Fatalf("JSONToYAML() error = %v", err)
	}
	s := string(out)
	if !(strings.Index(s, "zeta") < strings.Index(s, "alpha") && strings.Index(s, "alpha") < strings.Index(s, "mid")) {
		t.Errorf("expected document key order, got:\n%s", s)
	}
}

func TestValidate(t *testing.T) {
	valid := "flow:\n  - name: build\n    script: make\n"
	if err := Validate(valid); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	if err := Validate("flow: [unclosed"); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
