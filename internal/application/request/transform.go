package request

import (
	"bytes"
	"encoding/json"
	"fmt"

	"flowci-console/internal/domain/model"
	"flowci-console/pkg/ordered"
)

// Transform turns a raw response payload into what reducers fold.
// It must be pure.
type Transform func(raw []byte) (any, error)

// JSON decodes generic JSON, keeping numbers as json.Number. An empty payload
// decodes to nil.
func JSON(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

// FlowIDs decodes JSON and aliases each flow's name as its id.
func FlowIDs(raw []byte) (any, error) {
	v, err := JSON(raw)
	if err != nil {
		return nil, err
	}
	return model.FlowIDs(v), nil
}

// Envs decodes a JSON object of variables into an ordered map that keeps the
// server's key order.
func Envs(raw []byte) (any, error) {
	var env ordered.Map[string, string]
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envs: %w", err)
	}
	return env, nil
}

// Text returns the payload as a string. A JSON string literal is unquoted; an
// empty payload yields nil.
func Text(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if trimmed := bytes.TrimSpace(raw); trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s, nil
		}
	}
	return string(raw), nil
}
