package tagfilter

import (
	"testing"

	"github.com/snowoball/statusrota/internal/domain"
	"github.com/stretchr/testify/assert"
)

func scenarioCatalog() []domain.Status {
	return []domain.Status{
		{ID: "1", Emoji: "🌅", Text: "A", Tags: []string{"morning"}},
		{ID: "2", Emoji: "🎉", Text: "B", Tags: []string{"morning", "fun"}},
		{ID: "3", Emoji: "💤", Text: "C", Tags: []string{}},
	}
}

func ids(statuses []domain.Status) []domain.StatusID {
	var out []domain.StatusID
	for _, s := range statuses {
		out = append(out, s.ID)
	}
	return out
}

func TestAllTags_SortedAndUnique(t *testing.T) {
	r := New(scenarioCatalog())
	assert.Equal(t, []string{"fun", "morning"}, r.AllTags())
}

func TestAllTags_EmptyCatalog(t *testing.T) {
	assert.Empty(t, New(nil).AllTags())
}

func TestEligible_MorningYieldsAAndB(t *testing.T) {
	r := New(scenarioCatalog())
	assert.Equal(t, []domain.StatusID{"1", "2"}, ids(r.Eligible("morning")))
}

func TestEligible_EmptyTagRestoresFullCatalog(t *testing.T) {
	r := New(scenarioCatalog())
	assert.Equal(t, []domain.StatusID{"1", "2", "3"}, ids(r.Eligible("")))
}

func TestEligible_ExactlyTheTaggedStatuses(t *testing.T) {
	r := New(scenarioCatalog())
	for _, tag := range r.AllTags() {
		for _, s := range r.Eligible(tag) {
			assert.True(t, s.HasTag(tag), "tag=%s status=%s", tag, s.ID)
		}
		var tagged int
		for _, s := range scenarioCatalog() {
			if s.HasTag(tag) {
				tagged++
			}
		}
		assert.Len(t, r.Eligible(tag), tagged, "tag=%s", tag)
	}
	assert.Empty(t, r.Eligible("missing"))
}

func TestResolver_IsolatedFromCallerSlice(t *testing.T) {
	catalog := scenarioCatalog()
	r := New(catalog)
	catalog[0].ID = "changed"

	_, ok := r.Lookup("1")
	assert.True(t, ok)
}

func TestLabel(t *testing.T) {
	r := New(scenarioCatalog())
	assert.Equal(t, "🎉 B", r.Label("2"))
	assert.Equal(t, "", r.Label("99"))
}
