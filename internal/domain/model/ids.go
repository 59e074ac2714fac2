package model

// The backend identifies flows and jobs by name; agents by zone and name.
// The derivations below copy that identity into the id field so every
// collection in the store can be keyed uniformly.

// FlowID aliases the remote name as id. Records without a name are returned unchanged.
// Applying it more than once yields the same record.
func FlowID(r Record) Record {
	name := r.String("name")
	if name == "" {
		return r
	}
	return r.WithID(name)
}

// FlowIDs applies FlowID to a decoded payload that is either a single object or
// an array of objects. Other payloads pass through untouched.
func FlowIDs(payload any) any {
	switch v := payload.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if r, ok := AsRecord(item); ok {
				out[i] = FlowID(r)
			} else {
				out[i] = item
			}
		}
		return out
	case []Record:
		out := make([]any, len(v))
		for i, r := range v {
			out[i] = FlowID(r)
		}
		return out
	default:
		if r, ok := AsRecord(payload); ok {
			return FlowID(r)
		}
		return payload
	}
}

// AgentKey is the agent id: path.zone followed by path.name.
func AgentKey(r Record) string {
	zone, _ := r.Field("path", "zone")
	name, _ := r.Field("path", "name")
	return scalarString(zone) + scalarString(name)
}

// AgentID returns a copy of r keyed by AgentKey.
func AgentID(r Record) Record {
	return r.WithID(AgentKey(r))
}

// JobKey concatenates a flow name and a build number.
func JobKey(name string, number any) string {
	return name + scalarString(number)
}

// JobBuildNumber reads the build number of a job record: key.number, falling
// back to buildNumber and number.
func JobBuildNumber(r Record) any {
	if n, ok := r.Field("key", "number"); ok {
		return n
	}
	if n, ok := r["buildNumber"]; ok {
		return n
	}
	return r["number"]
}

// JobID returns a copy of r keyed by its name and build number.
func JobID(r Record) Record {
	return r.WithID(JobKey(r.String("name"), JobBuildNumber(r)))
}

// Records extracts the object entries of an array payload.
// Non-object entries are skipped; a non-array payload yields nil.
func Records(payload any) []Record {
	switch v := payload.(type) {
	case []Record:
		return v
	case []any:
		out := make([]Record, 0, len(v))
		for _, item := range v {
			if r, ok := AsRecord(item); ok {
				out = append(out, r)
			}
		}
		return out
	default:
		return nil
	}
}
