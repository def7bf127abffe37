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

func TestToggleSharp(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	handler := NewToggleSharpHandler(db, tracking)

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	// sharp -> dull: state change only, no sharpening
	result, err := handler.Handle(context.Background(), ToggleSharpCommand{PartID: 1, At: at})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, AxesState{
		SharpState:        domain.SharpStateDull,
		InstallationState: domain.InstallationRemoved,
	}, result.Data)

	tr, err := tracking.FindByPart(1)
	require.NoError(t, err)
	assert.Equal(t, domain.SharpStateDull, tr.SharpState)
	assert.Equal(t, domain.StatusDull, tr.Status)
	assert.Equal(t, 0, tr.TotalSharpenings)

	logs, err := tracking.SharpenLogsForPart(1)
	require.NoError(t, err)
	assert.Empty(t, logs)

	// dull -> sharp: counts as a sharpening
	result, err = handler.Handle(context.Background(), ToggleSharpCommand{PartID: 1, At: at.Add(time.Hour)})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, AxesState{
		SharpState:        domain.SharpStateSharp,
		InstallationState: domain.InstallationRemoved,
	}, result.Data)

	tr, err = tracking.FindByPart(1)
	require.NoError(t, err)
	assert.Equal(t, domain.SharpStateSharp, tr.SharpState)
	assert.Equal(t, 1, tr.TotalSharpenings)

	logs, err = tracking.SharpenLogsForPart(1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	statusLogs, err := tracking.StatusLogsForPart(1)
	require.NoError(t, err)
	assert.Len(t, statusLogs, 2)
}

func TestToggleSharpKeepsInstallation(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	_, err := NewToggleInstallationHandler(db, tracking).Handle(context.Background(),
		ToggleInstallationCommand{PartID: 2, At: at})
	require.NoError(t, err)

	// Going dull while installed: the dull status dominates, but the
	// knife stays physically installed
	_, err = NewToggleSharpHandler(db, tracking).Handle(context.Background(),
		ToggleSharpCommand{PartID: 2, At: at.Add(time.Hour)})
	require.NoError(t, err)

	tr, err := tracking.FindByPart(2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDull, tr.Status)
	assert.Equal(t, domain.InstallationInstalled, tr.InstallationState)
}

func TestToggleInstallationInterval(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	handler := NewToggleInstallationHandler(db, tracking)

	at := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

	result, err := handler.Handle(context.Background(), ToggleInstallationCommand{PartID: 3, At: at})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, AxesState{
		SharpState:        domain.SharpStateSharp,
		InstallationState: domain.InstallationInstalled,
	}, result.Data)

	tr, err := tracking.FindByPart(3)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInUse, tr.Status)
	require.NotNil(t, tr.WorkStartedAt)

	result, err = handler.Handle(context.Background(), ToggleInstallationCommand{PartID: 3, At: at.Add(48 * time.Hour)})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err = tracking.FindByPart(3)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSharpened, tr.Status)
	assert.Nil(t, tr.WorkStartedAt)
	require.NotNil(t, tr.LastIntervalDays)
	assert.Equal(t, 2, *tr.LastIntervalDays)
}
