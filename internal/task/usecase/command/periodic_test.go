package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/task/domain"
	taskrepo "github.com/stockware/stockroom/internal/task/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func newSavePeriodicHandler(db *gorm.DB) *SavePeriodicTaskHandler {
	return NewSavePeriodicTaskHandler(db,
		taskrepo.NewGormPeriodicTaskRepository(db),
		catalogrepo.NewGormEquipmentRepository(db))
}

func TestSavePeriodicTaskResolvesEquipmentFromLink(t *testing.T) {
	db := testdb.New(t)
	handler := newSavePeriodicHandler(db)

	equipment := seedEquipment(t, db, "Spiral Mixer")
	part := seedPart(t, db, "Hook", "HK-1", 1)
	link := seedLink(t, db, equipment.ID, part.ID)

	result, err := handler.Handle(context.Background(), SavePeriodicTaskCommand{
		Title:           "Grease the hook",
		PeriodDays:      30,
		EquipmentPartID: &link.ID,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	var task domain.PeriodicTask
	require.NoError(t, db.Where("title = ?", "Grease the hook").First(&task).Error)
	require.NotNil(t, task.EquipmentID)
	assert.Equal(t, equipment.ID, *task.EquipmentID)
	require.NotNil(t, task.EquipmentPartID)
	assert.Equal(t, link.ID, *task.EquipmentPartID)
	assert.Equal(t, 30, task.PeriodDays)
	assert.Nil(t, task.LastCompletedAt)
}

func TestSavePeriodicTaskValidation(t *testing.T) {
	db := testdb.New(t)
	handler := newSavePeriodicHandler(db)

	equipment := seedEquipment(t, db, "Divider")
	goneLink := uint(999)

	cases := []struct {
		name string
		cmd  SavePeriodicTaskCommand
		want string
	}{
		{"empty title", SavePeriodicTaskCommand{PeriodDays: 7, EquipmentID: &equipment.ID}, "title is required"},
		{"zero period", SavePeriodicTaskCommand{Title: "t", EquipmentID: &equipment.ID}, "period_days must be positive"},
		{"no target", SavePeriodicTaskCommand{Title: "t", PeriodDays: 7}, "equipment or an equipment part is required"},
		{"unknown link", SavePeriodicTaskCommand{Title: "t", PeriodDays: 7, EquipmentPartID: &goneLink}, domain.ErrLinkGone.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := handler.Handle(context.Background(), tc.cmd)
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, tc.want, result.Message)
		})
	}
}

func TestCompletePeriodicTask(t *testing.T) {
	db := testdb.New(t)
	handler := NewCompletePeriodicTaskHandler(taskrepo.NewGormPeriodicTaskRepository(db))

	equipment := seedEquipment(t, db, "Retarder")
	task := &domain.PeriodicTask{Title: "Clean condenser", EquipmentID: &equipment.ID, PeriodDays: 14}
	require.NoError(t, db.Create(task).Error)

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	result, err := handler.Handle(context.Background(), CompletePeriodicTaskCommand{TaskID: task.ID, CompletedAt: at})
	require.NoError(t, err)
	require.True(t, result.Success)

	view, ok := result.Data.(PeriodicCompletionView)
	require.True(t, ok)
	assert.Equal(t, at.AddDate(0, 0, 14), view.NextDueAt)

	var stored domain.PeriodicTask
	require.NoError(t, db.First(&stored, task.ID).Error)
	require.NotNil(t, stored.LastCompletedAt)
	assert.Equal(t, at.Unix(), stored.LastCompletedAt.Unix())

	result, err = handler.Handle(context.Background(), CompletePeriodicTaskCommand{TaskID: 999})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "periodic task not found", result.Message)
}

func TestDeletePeriodicTasks(t *testing.T) {
	db := testdb.New(t)
	handler := NewDeletePeriodicTasksHandler(taskrepo.NewGormPeriodicTaskRepository(db))

	equipment := seedEquipment(t, db, "Packer")
	first := &domain.PeriodicTask{Title: "Check belts", EquipmentID: &equipment.ID, PeriodDays: 7}
	second := &domain.PeriodicTask{Title: "Check seals", EquipmentID: &equipment.ID, PeriodDays: 7}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	result, err := handler.Handle(context.Background(), DeletePeriodicTasksCommand{TaskIDs: []uint{first.ID, second.ID}})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "2 jobs deleted", result.Message)

	var count int64
	require.NoError(t, db.Model(&domain.PeriodicTask{}).Count(&count).Error)
	assert.Zero(t, count)

	result, err = handler.Handle(context.Background(), DeletePeriodicTasksCommand{})
	require.NoError(t, err)
	assert.False(t, result.Success)
}
