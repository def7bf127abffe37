package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockware/stockroom/internal/knife/domain"
	"github.com/stockware/stockroom/internal/knife/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func TestSetStatusWorkInterval(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	handler := NewSetStatusHandler(db, tracking)

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	result, err := handler.Handle(context.Background(), SetStatusCommand{
		PartID: 1, Status: domain.StatusInUse, At: start,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err := tracking.FindByPart(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInUse, tr.Status)
	assert.Equal(t, domain.InstallationInstalled, tr.InstallationState)
	require.NotNil(t, tr.WorkStartedAt)
	assert.True(t, tr.WorkStartedAt.Equal(start))

	// Going dull three and a half days later closes a 3-day interval
	result, err = handler.Handle(context.Background(), SetStatusCommand{
		PartID: 1, Status: domain.StatusDull, At: start.Add(84 * time.Hour),
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err = tracking.FindByPart(1)
	require.NoError(t, err)
	assert.Equal(t, domain.SharpStateDull, tr.SharpState)
	assert.Nil(t, tr.WorkStartedAt)
	require.NotNil(t, tr.LastIntervalDays)
	assert.Equal(t, 3, *tr.LastIntervalDays)
}

func TestSetStatusSharpeningFromDull(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	handler := NewSetStatusHandler(db, tracking)

	at := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	_, err := handler.Handle(context.Background(), SetStatusCommand{PartID: 2, Status: domain.StatusDull, At: at})
	require.NoError(t, err)

	result, err := handler.Handle(context.Background(), SetStatusCommand{
		PartID: 2, Status: domain.StatusSharpened, At: at.Add(time.Hour), Comment: "stone",
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err := tracking.FindByPart(2)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.TotalSharpenings)
	require.NotNil(t, tr.LastSharpenedAt)

	// The count always agrees with the sharpen log
	logs, err := tracking.SharpenLogsForPart(2)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "stone", logs[0].Comment)

	statusLogs, err := tracking.StatusLogsForPart(2)
	require.NoError(t, err)
	assert.Len(t, statusLogs, 2)
}

func TestSetStatusUnchanged(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	handler := NewSetStatusHandler(db, tracking)

	_, err := tracking.EnsureTracking(3)
	require.NoError(t, err)

	result, err := handler.Handle(context.Background(), SetStatusCommand{
		PartID: 3, Status: domain.StatusSharpened,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "status unchanged", result.Message)
	assert.Empty(t, result.Changed)

	logs, err := tracking.StatusLogsForPart(3)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSetStatusUnknown(t *testing.T) {
	db := testdb.New(t)
	handler := NewSetStatusHandler(db, repository.NewGormTrackingRepository(db))

	result, err := handler.Handle(context.Background(), SetStatusCommand{PartID: 4, Status: "bent"})
	require.NoError(t, err)
	assert.False(t, result.Success)
}
