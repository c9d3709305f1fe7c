package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/models"
)

func TestStartReturnsExistingActiveSession(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()

	first, started, err := tr.sessions.Start(ctx, surveyor, "sess-1", "P1")
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, models.SurveyActive, first.Status)
	assert.Equal(t, surveyor.ID, first.SurveyorID)

	second, started, err := tr.sessions.Start(ctx, surveyor, "sess-2", "P2")
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, "sess-1", second.ID)

	// another surveyor gets their own
	other, started, err := tr.sessions.Start(ctx, reviewer, "sess-3", "P2")
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, "sess-3", other.ID)
}

func TestStartRequiresCaller(t *testing.T) {
	tr := setupTestDB(t)

	_, _, err := tr.sessions.Start(context.Background(), auth.Caller{}, "sess-1", "")
	require.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestEndSession(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	_, _, err := tr.sessions.Start(ctx, surveyor, "sess-1", "")
	require.NoError(t, err)

	ended, err := tr.sessions.End(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.SurveyCompleted, ended.Status)
	require.NotNil(t, ended.EndedAt)

	_, err = tr.sessions.GetActive(ctx, surveyor)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = tr.sessions.End(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPauseAndResume(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	_, _, err := tr.sessions.Start(ctx, surveyor, "sess-1", "")
	require.NoError(t, err)

	paused, err := tr.sessions.Pause(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.SurveyPaused, paused.Status)

	// a paused session does not block a new one
	_, started, err := tr.sessions.Start(ctx, surveyor, "sess-2", "")
	require.NoError(t, err)
	require.True(t, started)

	_, err = tr.sessions.Resume(ctx, "sess-1")
	require.ErrorIs(t, err, ErrValidation)

	_, err = tr.sessions.End(ctx, "sess-2")
	require.NoError(t, err)
	resumed, err := tr.sessions.Resume(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.SurveyActive, resumed.Status)

	_, err = tr.sessions.Resume(ctx, "sess-2")
	require.ErrorIs(t, err, ErrValidation)
}

func TestPauseCompletedSessionIsRejected(t *testing.T) {
	tr := setupTestDB(t)
	ctx := context.Background()
	_, _, err := tr.sessions.Start(ctx, surveyor, "sess-1", "")
	require.NoError(t, err)
	ended, err := tr.sessions.End(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, ended.EndedAt)

	_, err = tr.sessions.Pause(ctx, "sess-1")
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	var got models.SurveySession
	require.NoError(t, tr.db.Where("id = ?", "sess-1").First(&got).Error)
	assert.Equal(t, models.SurveyCompleted, got.Status)
	require.NotNil(t, got.EndedAt)

	_, err = tr.sessions.Pause(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
