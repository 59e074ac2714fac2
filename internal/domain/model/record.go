package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// IDField is the key every stored record carries its derived id under.
const IDField = "id"

// Record is one remote entity as decoded from the API. Records inside the store
// are never mutated; derivations return copies.
type Record map[string]any

// AsRecord converts a decoded JSON object into a Record.
func AsRecord(v any) (Record, bool) {
	switch r := v.(type) {
	case Record:
		return r, true
	case map[string]any:
		return Record(r), true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the derived id, or "" when none is set.
func (r Record) ID() string {
	return r.String(IDField)
}

// String returns the field as a string; numbers are formatted, anything else yields "".
func (r Record) String(key string) string {
	return scalarString(r[key])
}

// Field returns a nested field following path, e.g. Field("key", "number").
func (r Record) Field(path ...string) (any, bool) {
	var cur any = r
	for _, p := range path {
		obj, ok := AsRecord(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Merge returns a copy of r with every field of patch set on it.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// WithID returns a copy of r whose id field is id.
func (r Record) WithID(id string) Record {
	out := r.Clone()
	out[IDField] = id
	return out
}

func scalarString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case json.Number:
		return n.String()
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case bool:
		return strconv.FormatBool(n)
	case fmt.Stringer:
		return n.String()
	default:
		return ""
	}
}
