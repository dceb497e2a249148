package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_MarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		want string
	}{
		{"none omits status", Rule{Sequence: 0, Selection: None{}},
			`{"sequence":0,"type":"none","tagFilter":""}`},
		{"nil selection is none", Rule{Sequence: 3},
			`{"sequence":3,"type":"none","tagFilter":""}`},
		{"unset static is null", Rule{Sequence: 1, TagFilter: "fun", Selection: Static{}},
			`{"sequence":1,"type":"static","tagFilter":"fun","status":null}`},
		{"static numeric id", Rule{Selection: Static{ID: "7"}},
			`{"sequence":0,"type":"static","tagFilter":"","status":7}`},
		{"static string id", Rule{Selection: Static{ID: "abc"}},
			`{"sequence":0,"type":"static","tagFilter":"","status":"abc"}`},
		{"random list", Rule{Selection: Random{IDs: []StatusID{"2", "10"}}},
			`{"sequence":0,"type":"random","tagFilter":"","status":[2,10]}`},
		{"empty random", Rule{Selection: Random{}},
			`{"sequence":0,"type":"random","tagFilter":"","status":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.rule)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(data))
		})
	}
}

func TestRule_UnmarshalShapes(t *testing.T) {
	var rules []Rule
	data := `[
		{"sequence":0,"type":"none","tagFilter":""},
		{"sequence":1,"type":"static","tagFilter":"morning","status":3},
		{"sequence":2,"type":"random","tagFilter":"","status":[1,"2",1]},
		{"sequence":3,"type":"static","tagFilter":"","status":null}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &rules))
	require.Len(t, rules, 4)

	assert.Equal(t, None{}, rules[0].Selection)
	assert.Equal(t, Static{ID: "3"}, rules[1].Selection)
	assert.Equal(t, "morning", rules[1].TagFilter)
	assert.Equal(t, Random{IDs: []StatusID{"1", "2"}}, rules[2].Selection)
	assert.Equal(t, Static{}, rules[3].Selection)
	assert.Equal(t, 2, rules[2].Sequence)
}

func TestRule_UnmarshalNormalizesMismatchedShapes(t *testing.T) {
	var r Rule
	require.NoError(t, json.Unmarshal([]byte(`{"type":"random","status":5}`), &r))
	assert.Equal(t, Random{IDs: []StatusID{"5"}}, r.Selection)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"static","status":[4,5]}`), &r))
	assert.Equal(t, Static{ID: "4"}, r.Selection)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"none","status":[4]}`), &r))
	assert.Equal(t, None{}, r.Selection)
}

func TestRule_UnmarshalUnknownType(t *testing.T) {
	var r Rule
	err := json.Unmarshal([]byte(`{"type":"weighted","status":[1]}`), &r)
	assert.ErrorIs(t, err, ErrUnknownRuleType)
}

func TestRule_RoundTrip(t *testing.T) {
	in := []Rule{
		{Sequence: 0, TagFilter: "fun", Selection: Random{IDs: []StatusID{"4", "1"}}},
		{Sequence: 1, Selection: Static{ID: "2"}},
		{Sequence: 2, Selection: None{}},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out []Rule
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestRandom_WithIsIdempotent(t *testing.T) {
	r := Random{IDs: []StatusID{"1"}}
	r = r.With("2").With("2").With("1")
	assert.Equal(t, []StatusID{"1", "2"}, r.IDs)
}

func TestRandom_WithDoesNotAlias(t *testing.T) {
	base := Random{IDs: make([]StatusID, 1, 4)}
	base.IDs[0] = "1"
	a := base.With("2")
	b := base.With("3")
	assert.Equal(t, []StatusID{"1", "2"}, a.IDs)
	assert.Equal(t, []StatusID{"1", "3"}, b.IDs)
}

func TestRandom_Without(t *testing.T) {
	r := Random{IDs: []StatusID{"1", "2", "3"}}
	assert.Equal(t, []StatusID{"1", "3"}, r.Without("2").IDs)
	assert.Equal(t, []StatusID{"1", "2", "3"}, r.IDs)
	assert.Equal(t, []StatusID{"1", "2", "3"}, r.Without("9").IDs)
}

func TestEmptySelection(t *testing.T) {
	assert.Equal(t, None{}, EmptySelection(RuleNone))
	assert.Equal(t, Static{}, EmptySelection(RuleStatic))
	assert.Equal(t, Random{IDs: []StatusID{}}, EmptySelection(RuleRandom))
}

func TestRule_Candidates(t *testing.T) {
	assert.Nil(t, NewRule(RuleNone).Candidates())
	assert.Nil(t, NewRule(RuleStatic).Candidates())
	assert.Equal(t, []StatusID{"3"}, Rule{Selection: Static{ID: "3"}}.Candidates())
	assert.Equal(t, []StatusID{"3", "4"}, Rule{Selection: Random{IDs: []StatusID{"3", "4"}}}.Candidates())
}

func TestStatus_LabelFlattensNewlines(t *testing.T) {
	s := Status{Emoji: "☕", Text: "coffee\nthen code"}
	assert.Equal(t, "☕ coffee then code", s.Label())
	assert.Equal(t, []string{"coffee", "then code"}, s.Lines())
	assert.Equal(t, "plain", Status{Text: "plain"}.Label())
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"morning", "fun"}, ParseTags(" morning, ,fun ,"))
	assert.Equal(t, []string{}, ParseTags(""))
}

func TestStatus_DecodesNumericID(t *testing.T) {
	var statuses []Status
	require.NoError(t, json.Unmarshal([]byte(`[{"status_id":7,"status_emoji":"🎧","status_text":"Focus","tags":[]},{"status_id":"8"}]`), &statuses))
	assert.Equal(t, StatusID("7"), statuses[0].ID)
	assert.Equal(t, StatusID("8"), statuses[1].ID)

	out, err := json.Marshal(statuses[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status_id":"7"`)
}
