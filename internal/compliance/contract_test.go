package compliance

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// contract lists the keys each JSON object must carry. New keys may be
// added; none of these may disappear.
type contract struct {
	SchemaVersion string   `json:"schema_version"`
	Verdict       []string `json:"verdict"`
	Case          []string `json:"case"`
	Flexure       []string `json:"flexure"`
	Shear         []string `json:"shear"`
	Check         []string `json:"check"`
	Arrangement   []string `json:"arrangement"`
	Rejected      []string `json:"rejected"`
	Error         []string `json:"error"`
	StatusValues  []string `json:"status_values"`
}

func loadContract(t *testing.T) contract {
	t.Helper()
	data, err := os.ReadFile("../../testdata/contract_v1.json")
	require.NoError(t, err)
	var c contract
	require.NoError(t, json.Unmarshal(data, &c))
	return c
}

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func assertKeys(t *testing.T, obj map[string]any, keys []string, what string) {
	t.Helper()
	for _, k := range keys {
		assert.Contains(t, obj, k, "%s is missing %q", what, k)
	}
}

func TestContract_Verdict(t *testing.T) {
	c := loadContract(t)
	assert.Equal(t, c.SchemaVersion, SchemaVersion)
	assert.ElementsMatch(t, c.StatusValues, []string{string(Pass), string(Fail), string(Infeasible)})

	v, err := engine().Evaluate(request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100}))
	require.NoError(t, err)

	m := toMap(t, v)
	assertKeys(t, m, c.Verdict, "verdict")
	assert.Contains(t, c.StatusValues, m["status"])

	cases, ok := m["cases"].([]any)
	require.True(t, ok)
	require.Len(t, cases, 1)
	cm := cases[0].(map[string]any)
	assertKeys(t, cm, c.Case, "case")
	assertKeys(t, cm["flexure"].(map[string]any), c.Flexure, "flexure")
	assertKeys(t, cm["shear"].(map[string]any), c.Shear, "shear")
	assertKeys(t, cm["tension"].(map[string]any), c.Arrangement, "arrangement")

	checkList, ok := cm["checks"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, checkList)
	for _, ch := range checkList {
		assertKeys(t, ch.(map[string]any), c.Check, "check")
	}
}

func TestContract_Rejected(t *testing.T) {
	c := loadContract(t)

	v, err := engine().Evaluate(request())
	require.Error(t, err)

	m := toMap(t, v)
	assertKeys(t, m, c.Rejected, "rejected verdict")
	assert.Equal(t, string(Rejected), m["state"])
	assertKeys(t, m["error"].(map[string]any), c.Error, "error")
}

func TestContract_EmptyCollectionsAreArrays(t *testing.T) {
	v, err := engine().Evaluate(request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100}))
	require.NoError(t, err)

	m := toMap(t, v)
	for _, k := range []string{"reasons", "warnings"} {
		_, ok := m[k].([]any)
		assert.True(t, ok, "%s should encode as an array", k)
	}
}
