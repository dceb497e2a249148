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

func TestStatusService_SubmitNewStoresStringID(t *testing.T) {
	client, st := setupClient(t)
	catalog := testutil.ScenarioCatalog()
	testutil.Seed(t, client, configapi.Statuses, catalog)

	stored, err := NewStatusService(client).Submit(context.Background(), catalog, -1, StatusDraft{
		Emoji: "🍵",
		Text:  " Tea time ",
		Tags:  "afternoon, , break ",
	})
	require.NoError(t, err)

	require.Len(t, stored, 4)
	assert.Equal(t, domain.Status{ID: "4", Emoji: "🍵", Text: "Tea time", Tags: []string{"afternoon", "break"}}, stored[3])
	assert.Contains(t, testutil.ReadRaw(t, st, configapi.Statuses), `"status_id": "4"`)
}

func TestStatusService_SubmitEditKeepsID(t *testing.T) {
	client, _ := setupClient(t)
	catalog := testutil.ScenarioCatalog()
	testutil.Seed(t, client, configapi.Statuses, catalog)

	stored, err := NewStatusService(client).Submit(context.Background(), catalog, 1, StatusDraft{Text: "Bee"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusID("2"), stored[1].ID)
	assert.Equal(t, "Bee", stored[1].Text)
	assert.Equal(t, []string{}, stored[1].Tags)
}

func TestStatusService_Delete(t *testing.T) {
	client, _ := setupClient(t)
	catalog := testutil.ScenarioCatalog()
	testutil.Seed(t, client, configapi.Statuses, catalog)

	svc := NewStatusService(client)
	stored, err := svc.Delete(context.Background(), catalog, 2)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, listed)

	_, err = svc.Delete(context.Background(), listed, 5)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestDraftFromStatus(t *testing.T) {
	d := DraftFromStatus(testutil.ScenarioCatalog()[1])
	assert.Equal(t, "morning, fun", d.Tags)
	assert.Equal(t, "B", d.Text)
}
