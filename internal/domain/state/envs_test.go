package state

import (
	"testing"

	"flowci-console/pkg/ordered"

	"github.com/stretchr/testify/assert"
)

func env(kv ...string) Env {
	pairs := make([]ordered.Pair[string, string], 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, ordered.Pair[string, string]{Key: kv[i], Value: kv[i+1]})
	}
	return ordered.Of(pairs...)
}

func TestSaveEnvsPromotesNewKeys(t *testing.T) {
	existing := env("a", "1", "b", "2")
	got := SaveEnvs(existing, env("b", "3", "c", "4"))

	assert.Equal(t, env("c", "4", "a", "1", "b", "3").Pairs(), got.Pairs())
	assert.Equal(t, env("a", "1", "b", "2").Pairs(), existing.Pairs(), "input must stay untouched")
}

func TestSaveEnvsKeepsBatchOrderForNewKeys(t *testing.T) {
	got := SaveEnvs(env("a", "1"), env("z", "9", "y", "8", "a", "0"))
	assert.Equal(t, []string{"z", "y", "a"}, got.Keys())
	v, _ := got.Get("a")
	assert.Equal(t, "0", v)
}

func TestSaveEnvsWithoutCollection(t *testing.T) {
	got := SaveEnvs(Env{}, env("x", "1", "y", "2"))
	assert.Equal(t, env("x", "1", "y", "2").Pairs(), got.Pairs())
}

func TestLoadEnvs(t *testing.T) {
	t.Run("seeds server order", func(t *testing.T) {
		got := LoadEnvs(Env{}, false, env("b", "2", "a", "1"))
		assert.Equal(t, []string{"b", "a"}, got.Keys())
	})
	t.Run("keeps existing order and appends new keys", func(t *testing.T) {
		got := LoadEnvs(env("a", "1", "b", "2"), true, env("c", "3", "b", "20"))
		assert.Equal(t, env("a", "1", "b", "20", "c", "3").Pairs(), got.Pairs())
	})
}

func TestFlowStateEditEnvs(t *testing.T) {
	var s FlowState

	removed := s.RemoveEditEnv("flowA", "a")
	assert.Equal(t, 0, removed.EditEnvs.Len(), "remove on missing flow is a no-op")

	s = s.SaveEditEnvs("flowA", env("a", "1"))
	s = s.LoadEditEnvs("flowA", env("b", "2"))
	s = s.SaveEditEnvs("flowA", env("a", "3", "c", "4"))
	got, ok := s.EditEnv("flowA")
	assert.True(t, ok)
	assert.Equal(t, env("c", "4", "a", "3", "b", "2").Pairs(), got.Pairs())

	before := s
	s = s.RemoveEditEnv("flowA", "a")
	got, _ = s.EditEnv("flowA")
	assert.Equal(t, []string{"c", "b"}, got.Keys())

	prev, _ := before.EditEnv("flowA")
	assert.Equal(t, []string{"c", "a", "b"}, prev.Keys(), "earlier snapshot is unaffected")
}
