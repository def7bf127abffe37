package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	ledgerdomain "github.com/stockware/stockroom/internal/ledger/domain"
	ledgerrepo "github.com/stockware/stockroom/internal/ledger/repository"
	"github.com/stockware/stockroom/internal/task/domain"
	taskrepo "github.com/stockware/stockroom/internal/task/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func newUpdateTaskStatusHandler(db *gorm.DB) *UpdateTaskStatusHandler {
	return NewUpdateTaskStatusHandler(db,
		taskrepo.NewGormTaskRepository(db),
		catalogrepo.NewGormPartRepository(db),
		catalogrepo.NewGormEquipmentRepository(db),
		ledgerrepo.NewGormReplacementRepository(db))
}

// seedReplacementTask builds an open replacement task directly in the
// database and returns it together with its fixtures.
func seedReplacementTask(t *testing.T, db *gorm.DB, stockQty, lineQty int, description string) (*domain.Task, *catalogdomain.Part, *catalogdomain.EquipmentPart, *catalogdomain.Equipment) {
	t.Helper()
	equipment := seedEquipment(t, db, "Dough Sheeter")
	part := seedPart(t, db, "Roller", "RL-1", stockQty)
	link := seedLink(t, db, equipment.ID, part.ID)
	require.NoError(t, db.Model(link).Update("requires_replacement", true).Error)

	task := &domain.Task{
		Title:         "Swap the roller",
		Description:   description,
		Priority:      domain.PriorityHigh,
		EquipmentID:   &equipment.ID,
		Status:        domain.TaskStatusOpen,
		IsReplacement: true,
	}
	require.NoError(t, db.Create(task).Error)
	require.NoError(t, db.Create(&domain.TaskPart{
		TaskID:          task.ID,
		EquipmentPartID: link.ID,
		PartID:          part.ID,
		Qty:             lineQty,
	}).Error)
	return task, part, link, equipment
}

func TestCompleteReplacementTaskWritesOff(t *testing.T) {
	db := testdb.New(t)
	handler := newUpdateTaskStatusHandler(db)

	task, part, link, equipment := seedReplacementTask(t, db, 5, 2, "Worn out")

	result, err := handler.Handle(context.Background(), UpdateTaskStatusCommand{
		TaskID: task.ID,
		Status: domain.TaskStatusDone,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.ElementsMatch(t, []string{"tasks", "equipment", "parts", "replacements"}, result.ChangedNames())

	var stored catalogdomain.Part
	require.NoError(t, db.First(&stored, part.ID).Error)
	assert.Equal(t, 3, stored.Qty)

	var replacements []ledgerdomain.Replacement
	require.NoError(t, db.Find(&replacements).Error)
	require.Len(t, replacements, 1)
	assert.Equal(t, part.ID, replacements[0].PartID)
	assert.Equal(t, equipment.ID, replacements[0].EquipmentID)
	assert.Equal(t, 2, replacements[0].Qty)
	assert.Equal(t, "Worn out", replacements[0].Comment)

	var storedLink catalogdomain.EquipmentPart
	require.NoError(t, db.First(&storedLink, link.ID).Error)
	assert.False(t, storedLink.RequiresReplacement)

	// Completing again moves no stock
	result, err = handler.Handle(context.Background(), UpdateTaskStatusCommand{
		TaskID: task.ID,
		Status: domain.TaskStatusDone,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	require.NoError(t, db.First(&stored, part.ID).Error)
	assert.Equal(t, 3, stored.Qty)
	require.NoError(t, db.Find(&replacements).Error)
	assert.Len(t, replacements, 1)
}

func TestCompleteReplacementTaskInsufficientStock(t *testing.T) {
	db := testdb.New(t)
	handler := newUpdateTaskStatusHandler(db)

	task, part, link, _ := seedReplacementTask(t, db, 1, 2, "")

	result, err := handler.Handle(context.Background(), UpdateTaskStatusCommand{
		TaskID: task.ID,
		Status: domain.TaskStatusDone,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "insufficient stock for Roller", result.Message)

	// The whole transition rolled back
	var stored catalogdomain.Part
	require.NoError(t, db.First(&stored, part.ID).Error)
	assert.Equal(t, 1, stored.Qty)

	var storedTask domain.Task
	require.NoError(t, db.First(&storedTask, task.ID).Error)
	assert.Equal(t, domain.TaskStatusOpen, storedTask.Status)

	var storedLink catalogdomain.EquipmentPart
	require.NoError(t, db.First(&storedLink, link.ID).Error)
	assert.True(t, storedLink.RequiresReplacement)
}

func TestCancelReplacementTaskKeepsStock(t *testing.T) {
	db := testdb.New(t)
	handler := newUpdateTaskStatusHandler(db)

	task, part, link, _ := seedReplacementTask(t, db, 4, 2, "")

	result, err := handler.Handle(context.Background(), UpdateTaskStatusCommand{
		TaskID: task.ID,
		Status: domain.TaskStatusCancelled,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	var stored catalogdomain.Part
	require.NoError(t, db.First(&stored, part.ID).Error)
	assert.Equal(t, 4, stored.Qty)

	var replacements int64
	require.NoError(t, db.Model(&ledgerdomain.Replacement{}).Count(&replacements).Error)
	assert.Zero(t, replacements)

	// Cancelled tasks no longer hold the link flagged
	var storedLink catalogdomain.EquipmentPart
	require.NoError(t, db.First(&storedLink, link.ID).Error)
	assert.False(t, storedLink.RequiresReplacement)
}

func TestUpdateTaskStatusValidation(t *testing.T) {
	db := testdb.New(t)
	handler := newUpdateTaskStatusHandler(db)

	result, err := handler.Handle(context.Background(), UpdateTaskStatusCommand{TaskID: 99, Status: domain.TaskStatusDone})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "task not found", result.Message)

	result, err = handler.Handle(context.Background(), UpdateTaskStatusCommand{TaskID: 1, Status: "paused"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "unknown status: paused", result.Message)
}
