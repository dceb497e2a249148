package service

import (
	"context"
	"testing"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetService_LoadReadsCatalogAndPresets(t *testing.T) {
	client, _ := setupClient(t)
	testutil.Seed(t, client, configapi.Statuses, testutil.ScenarioCatalog())
	testutil.Seed(t, client, configapi.Presets, []domain.Preset{
		testutil.NewTestPreset(1, "Work", testutil.WithRules(testutil.StaticRule("1"))),
	})

	obs := &recordingObserver{}
	ws, err := NewPresetService(client, obs).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ws.Catalog, 3)
	require.Len(t, ws.Presets, 1)
	assert.Equal(t, domain.Static{ID: "1"}, ws.Presets[0].Statuses[0].Selection)
	assert.Equal(t, []string{"load-presets"}, obs.names())
}

func TestPresetService_SubmitNewAllocatesNextID(t *testing.T) {
	client, st := setupClient(t)
	existing := []domain.Preset{
		testutil.NewTestPreset(4, "Four"),
		testutil.NewTestPreset(2, "Two"),
	}
	testutil.Seed(t, client, configapi.Presets, existing)

	rules := []domain.Rule{
		{Sequence: 9, Selection: domain.None{}},
		testutil.RandomRule("fun", "2"),
	}
	stored, err := NewPresetService(client).Submit(context.Background(), existing, -1, "  Evenings ", rules)
	require.NoError(t, err)

	require.Len(t, stored, 3)
	added := stored[2]
	assert.Equal(t, 5, added.ID)
	assert.Equal(t, "Evenings", added.Name)
	require.Len(t, added.Statuses, 2)
	assert.Equal(t, 0, added.Statuses[0].Sequence)
	assert.Equal(t, 1, added.Statuses[1].Sequence)
	assert.Contains(t, testutil.ReadRaw(t, st, configapi.Presets), `"name": "Evenings"`)
}

func TestPresetService_SubmitFirstPresetGetsIDOne(t *testing.T) {
	client, _ := setupClient(t)
	stored, err := NewPresetService(client).Submit(context.Background(), nil, -1, "", nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].ID)
	assert.Equal(t, "", stored[0].Name)
	assert.Empty(t, stored[0].Statuses)
}

func TestPresetService_SubmitEditReplacesInPlace(t *testing.T) {
	client, _ := setupClient(t)
	existing := []domain.Preset{
		testutil.NewTestPreset(1, "One", testutil.WithRules(testutil.StaticRule("1"))),
		testutil.NewTestPreset(2, "Two"),
	}
	testutil.Seed(t, client, configapi.Presets, existing)

	stored, err := NewPresetService(client).Submit(context.Background(), existing, 0, "Uno",
		[]domain.Rule{testutil.RandomRule("", "1", "3")})
	require.NoError(t, err)

	require.Len(t, stored, 2)
	assert.Equal(t, 1, stored[0].ID)
	assert.Equal(t, "Uno", stored[0].Name)
	assert.Equal(t, domain.Random{IDs: []domain.StatusID{"1", "3"}}, stored[0].Statuses[0].Selection)
	assert.Equal(t, "Two", stored[1].Name)
	assert.Equal(t, "One", existing[0].Name, "input collection is not mutated")
}

func TestPresetService_SubmitOutOfRange(t *testing.T) {
	client, _ := setupClient(t)
	_, err := NewPresetService(client).Submit(context.Background(), nil, 0, "x", nil)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestPresetService_DeleteWritesImmediately(t *testing.T) {
	client, st := setupClient(t)
	existing := []domain.Preset{
		testutil.NewTestPreset(1, "One"),
		testutil.NewTestPreset(2, "Two"),
	}
	testutil.Seed(t, client, configapi.Presets, existing)

	stored, err := NewPresetService(client).Delete(context.Background(), existing, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].ID)
	assert.NotContains(t, testutil.ReadRaw(t, st, configapi.Presets), `"One"`)
}

func TestPresetService_SaveFailureSurfacesTransportError(t *testing.T) {
	st := testutil.NewFailingStore(testutil.NewTestStore(t))
	client := testutil.NewTestClient(st)
	st.FailWrites.Store(true)

	obs := &recordingObserver{}
	_, err := NewPresetService(client, obs).Submit(context.Background(), nil, -1, "x", nil)
	assert.ErrorIs(t, err, configapi.ErrTransport)
	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "[]", testutil.ReadRaw(t, st, configapi.Presets))
}
