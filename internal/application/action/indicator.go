package action

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Indicator is the correlation key a descriptor carries onto its events,
// e.g. {"id": "flowA"} or {"flowId": "flowA", "name": "FOO"}.
type Indicator map[string]any

// Indicator keys used by the builders.
const (
	IndicatorID     = "id"
	IndicatorFlowID = "flowId"
	IndicatorName   = "name"
	IndicatorEnvs   = "envs"
)

// ID returns the "id" entry.
func (i Indicator) ID() string { return i.String(IndicatorID) }

// FlowID returns the "flowId" entry.
func (i Indicator) FlowID() string { return i.String(IndicatorFlowID) }

// String returns a scalar entry as a string, or "" when absent or not scalar.
func (i Indicator) String(key string) string {
	s, _ := scalar(i[key])
	return s
}

// Canonical renders the scalar entries as sorted key=value pairs. Non-scalar
// entries such as an env batch do not take part in correlation.
func (i Indicator) Canonical() string {
	keys := make([]string, 0, len(i))
	for k := range i {
		if _, ok := scalar(i[k]); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := scalar(i[k])
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

// RequestKey is name followed by the canonical indicator.
func RequestKey(name Name, ind Indicator) string {
	c := ind.Canonical()
	if c == "" {
		return string(name)
	}
	return string(name) + "?" + c
}

func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}
