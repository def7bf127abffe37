package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/knife/domain"
	"github.com/stockware/stockroom/internal/knife/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func TestDeleteSharpenEntryRecomputes(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	batch := NewSharpenBatchHandler(db, catalogrepo.NewGormPartRepository(db), tracking)
	handler := NewDeleteSharpenEntryHandler(db, tracking)

	seedKnifePart(t, db, "Chef Knife", "CK-1")

	first := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(7 * 24 * time.Hour)

	_, err := batch.Handle(context.Background(), SharpenBatchCommand{PartIDs: []uint{1}, At: first})
	require.NoError(t, err)
	_, err = batch.Handle(context.Background(), SharpenBatchCommand{PartIDs: []uint{1}, At: second})
	require.NoError(t, err)

	logs, err := tracking.SharpenLogsForPart(1)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Dropping the newest entry rolls the aggregates back to the older one
	result, err := handler.Handle(context.Background(), DeleteSharpenEntryCommand{EntryID: logs[0].ID})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err := tracking.FindByPart(1)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.TotalSharpenings)
	require.NotNil(t, tr.LastSharpenedAt)
	assert.True(t, tr.LastSharpenedAt.Equal(first))

	// Dropping the last one zeroes them
	logs, err = tracking.SharpenLogsForPart(1)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	result, err = handler.Handle(context.Background(), DeleteSharpenEntryCommand{EntryID: logs[0].ID})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err = tracking.FindByPart(1)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.TotalSharpenings)
	assert.Nil(t, tr.LastSharpenedAt)
}

func TestDeleteStatusEntryRebuildsState(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	setStatus := NewSetStatusHandler(db, tracking)
	handler := NewDeleteStatusEntryHandler(db, tracking)

	at := time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC)

	_, err := setStatus.Handle(context.Background(), SetStatusCommand{PartID: 2, Status: domain.StatusInUse, At: at})
	require.NoError(t, err)
	_, err = setStatus.Handle(context.Background(), SetStatusCommand{PartID: 2, Status: domain.StatusDull, At: at.Add(24 * time.Hour)})
	require.NoError(t, err)

	logs, err := tracking.StatusLogsForPart(2)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Removing the dull row leaves the in_use row as the newest; the
	// knife goes back to work with its original start stamp
	result, err := handler.Handle(context.Background(), DeleteStatusEntryCommand{EntryID: logs[0].ID})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err := tracking.FindByPart(2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInUse, tr.Status)
	assert.Equal(t, domain.InstallationInstalled, tr.InstallationState)
	require.NotNil(t, tr.WorkStartedAt)
	assert.True(t, tr.WorkStartedAt.Equal(at))
}

func TestDeleteStatusEntryDefaults(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	setStatus := NewSetStatusHandler(db, tracking)
	handler := NewDeleteStatusEntryHandler(db, tracking)

	_, err := setStatus.Handle(context.Background(), SetStatusCommand{PartID: 3, Status: domain.StatusDull})
	require.NoError(t, err)

	logs, err := tracking.StatusLogsForPart(3)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	result, err := handler.Handle(context.Background(), DeleteStatusEntryCommand{EntryID: logs[0].ID})
	require.NoError(t, err)
	require.True(t, result.Success)

	tr, err := tracking.FindByPart(3)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSharpened, tr.Status)
	assert.Equal(t, domain.SharpStateSharp, tr.SharpState)
	assert.Equal(t, domain.InstallationRemoved, tr.InstallationState)
	assert.Nil(t, tr.WorkStartedAt)
}
