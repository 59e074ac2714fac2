package state

// LoadEnvs merges server-returned variables into the collection being edited.
// Without a collection the server order is taken as is; otherwise known keys keep
// their position and take the server value, and unknown keys are appended in
// server order.
func LoadEnvs(existing Env, present bool, loaded Env) Env {
	if !present {
		return Env{}.Merge(loaded)
	}
	return existing.Merge(loaded)
}

// SaveEnvs applies a batch of edits. Keys already in the collection are updated
// in place. Keys new to it are gathered, in batch order, and placed in front of
// the existing keys: [a:1 b:2] + {b:3 c:4} gives [c:4 a:1 b:3].
func SaveEnvs(existing Env, batch Env) Env {
	var top Env
	next := existing
	batch.Each(func(k, v string) bool {
		if existing.Has(k) {
			next = next.Set(k, v)
		} else {
			top = top.Set(k, v)
		}
		return true
	})
	return top.Merge(next)
}

// LoadEditEnvs folds a server response for the editable variables of a flow.
func (s FlowState) LoadEditEnvs(flowID string, loaded Env) FlowState {
	existing, ok := s.EditEnvs.Get(flowID)
	s.EditEnvs = s.EditEnvs.Set(flowID, LoadEnvs(existing, ok, loaded))
	return s
}

// SaveEditEnvs folds a confirmed batch of edits. A flow without a collection
// gets one made of the batch alone.
func (s FlowState) SaveEditEnvs(flowID string, batch Env) FlowState {
	existing, _ := s.EditEnvs.Get(flowID)
	s.EditEnvs = s.EditEnvs.Set(flowID, SaveEnvs(existing, batch))
	return s
}

// RemoveEditEnv deletes one variable. It is a no-op when the flow has no collection.
func (s FlowState) RemoveEditEnv(flowID, name string) FlowState {
	existing, ok := s.EditEnvs.Get(flowID)
	if !ok {
		return s
	}
	s.EditEnvs = s.EditEnvs.Set(flowID, existing.Delete(name))
	return s
}
