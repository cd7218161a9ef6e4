package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Init(Config{Path: ":memory:"}))
}

func TestProfileOperations(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()

	p := &PrinterProfile{
		Name:       "warehouse cab",
		Kind:       "cab",
		ConfigJSON: `{"kind":"cab","name":"warehouse cab"}`,
	}
	require.NoError(t, Profiles.CreateProfile(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := Profiles.GetProfileByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Kind, got.Kind)
	assert.Equal(t, p.ConfigJSON, got.ConfigJSON)

	byName, err := Profiles.GetProfileByName(ctx, "warehouse cab")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	got.ConfigJSON = `{"kind":"cab","name":"warehouse cab","heat":80}`
	require.NoError(t, Profiles.UpdateProfile(ctx, got))

	updated, err := Profiles.GetProfileByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Contains(t, updated.ConfigJSON, `"heat":80`)

	byKind, err := Profiles.ListProfilesByKind(ctx, "cab")
	require.NoError(t, err)
	assert.Len(t, byKind, 1)

	require.NoError(t, Profiles.DeleteProfile(ctx, p.ID))
	_, err = Profiles.GetProfileByID(ctx, p.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSettingsOperations(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()

	require.NoError(t, Settings.SetSetting(ctx, "session_secret", "abc"))

	s, err := Settings.GetSetting(ctx, "session_secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", s.Value)

	require.NoError(t, Settings.SetSetting(ctx, "session_secret", "def"))
	s, err = Settings.GetSetting(ctx, "session_secret")
	require.NoError(t, err)
	assert.Equal(t, "def", s.Value)

	require.NoError(t, Settings.DeleteSetting(ctx, "session_secret"))
	_, err = Settings.GetSetting(ctx, "session_secret")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAttemptOperations(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()

	p := &PrinterProfile{Name: "bar receipt", Kind: "epson", ConfigJSON: `{"kind":"epson"}`}
	require.NoError(t, Profiles.CreateProfile(ctx, p))

	ok := &PrintAttempt{
		AttemptID:   "a-1",
		ProfileID:   p.ID,
		Successful:  true,
		DetailsJSON: `[{"key":"address","value":"10.0.0.7:80"}]`,
	}
	failed := &PrintAttempt{
		AttemptID:   "a-2",
		ProfileID:   p.ID,
		Successful:  false,
		DetailsJSON: `[{"key":"error","value":"connection refused"}]`,
	}
	require.NoError(t, Attempts.CreateAttempt(ctx, ok))
	require.NoError(t, Attempts.CreateAttempt(ctx, failed))

	got, err := Attempts.GetAttemptByAttemptID(ctx, "a-2")
	require.NoError(t, err)
	assert.False(t, got.Successful)
	assert.Contains(t, got.DetailsJSON, "connection refused")

	all, err := Attempts.ListAttempts(ctx, AttemptFilter{ProfileID: p.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyFailed := false
	failedOnly, err := Attempts.ListAttempts(ctx, AttemptFilter{ProfileID: p.ID, Successful: &onlyFailed})
	require.NoError(t, err)
	require.Len(t, failedOnly, 1)
	assert.Equal(t, "a-2", failedOnly[0].AttemptID)

	count, err := Attempts.CountAttemptsByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, Attempts.DeleteAttemptsByProfile(ctx, p.ID))
	count, err = Attempts.CountAttemptsByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
