package query

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

func TestOperationsHistoryMergesNewestFirst(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	handler := NewOperationsHistoryHandler(tracking)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, tracking.AppendStatusLog(&domain.StatusLog{
		PartID: 1, OldStatus: domain.StatusSharpened, NewStatus: domain.StatusInUse,
		SharpState: domain.SharpStateSharp, InstallationState: domain.InstallationInstalled,
		ChangedAt: base,
	}))
	require.NoError(t, tracking.AppendSharpenLog(&domain.SharpenLog{
		PartID: 1, SharpenedAt: base.Add(time.Hour), Comment: "touch up",
	}))
	require.NoError(t, tracking.AppendStatusLog(&domain.StatusLog{
		PartID: 1, OldStatus: domain.StatusInUse, NewStatus: domain.StatusDull,
		SharpState: domain.SharpStateDull, InstallationState: domain.InstallationRemoved,
		ChangedAt: base.Add(2 * time.Hour),
	}))

	// Another knife's rows must not leak in
	require.NoError(t, tracking.AppendSharpenLog(&domain.SharpenLog{
		PartID: 2, SharpenedAt: base,
	}))

	operations, err := handler.Handle(context.Background(), OperationsHistoryQuery{PartID: 1})
	require.NoError(t, err)
	require.Len(t, operations, 3)

	assert.Equal(t, OperationStatusChange, operations[0].Kind)
	assert.Equal(t, domain.StatusDull, operations[0].NewStatus)
	assert.Equal(t, OperationSharpening, operations[1].Kind)
	assert.Equal(t, "touch up", operations[1].Comment)
	assert.Equal(t, OperationStatusChange, operations[2].Kind)

	for i := 1; i < len(operations); i++ {
		assert.False(t, operations[i].At.After(operations[i-1].At))
	}
}

func TestSharpenHistory(t *testing.T) {
	db := testdb.New(t)
	tracking := repository.NewGormTrackingRepository(db)
	handler := NewSharpenHistoryHandler(tracking)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, tracking.AppendSharpenLog(&domain.SharpenLog{
			PartID: 7, SharpenedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	logs, err := handler.Handle(context.Background(), SharpenHistoryQuery{PartID: 7})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.True(t, logs[0].SharpenedAt.After(logs[2].SharpenedAt))
}
