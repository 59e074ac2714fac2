package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsEmpty(t *testing.T) {
	var m Map[string, int]
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("a"))
	assert.Empty(t, m.Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestSetIsCopyOnWrite(t *testing.T) {
	before := Of(Pair[string, int]{"a", 1}, Pair[string, int]{"b", 2})
	after := before.Set("b", 3).Set("c", 4)

	assert.Equal(t, []string{"a", "b"}, before.Keys())
	v, _ := before.Get("b")
	assert.Equal(t, 2, v)

	assert.Equal(t, []string{"a", "b", "c"}, after.Keys())
	assert.Equal(t, []int{1, 3, 4}, after.Values())
}

func TestDelete(t *testing.T) {
	m := Of(Pair[string, int]{"a", 1}, Pair[string, int]{"b", 2})
	assert.Equal(t, []string{"b"}, m.Delete("a").Keys())
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, m.Keys(), m.Delete("missing").Keys())
}

func TestMergeKeepsExistingPositions(t *testing.T) {
	m := Of(Pair[string, int]{"a", 1}, Pair[string, int]{"b", 2})
	other := Of(Pair[string, int]{"c", 4}, Pair[string, int]{"a", 9})

	merged := m.Merge(other)
	assert.Equal(t, []Pair[string, int]{{"a", 9}, {"b", 2}, {"c", 4}}, merged.Pairs())
}

func TestJSONPreservesOrder(t *testing.T) {
	var m Map[string, string]
	require.NoError(t, json.Unmarshal([]byte(`{"z":"1","a":"2","m":"3"}`), &m))
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"2","m":"3"}`, string(out))
}

func TestEachStopsEarly(t *testing.T) {
	m := Of(Pair[string, int]{"a", 1}, Pair[string, int]{"b", 2}, Pair[string, int]{"c", 3})
	var seen []string
	m.Each(func(k string, _ int) bool {
		seen = append(seen, k)
		return k != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
