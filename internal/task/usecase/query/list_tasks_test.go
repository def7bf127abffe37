package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/task/domain"
	"github.com/stockware/stockroom/internal/testdb"
)

func seedTask(t *testing.T, db *gorm.DB, title, priority, status string, equipmentID *uint, due *time.Time) *domain.Task {
	t.Helper()
	task := &domain.Task{
		Title:       title,
		Priority:    priority,
		Status:      status,
		EquipmentID: equipmentID,
		DueDate:     due,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestListTasksOrdersByPriority(t *testing.T) {
	db := testdb.New(t)
	handler := NewListTasksHandler(db)

	category := &catalogdomain.EquipmentCategory{Name: "ovens"}
	require.NoError(t, db.Create(category).Error)
	equipment := &catalogdomain.Equipment{Name: "Deck Oven", CategoryID: category.ID}
	require.NoError(t, db.Create(equipment).Error)

	seedTask(t, db, "routine", domain.PriorityLow, domain.TaskStatusOpen, nil, nil)
	seedTask(t, db, "urgent", domain.PriorityHigh, domain.TaskStatusOpen, &equipment.ID, nil)
	seedTask(t, db, "normal", domain.PriorityMedium, domain.TaskStatusOpen, nil, nil)
	seedTask(t, db, "finished", domain.PriorityHigh, domain.TaskStatusDone, nil, nil)

	views, err := handler.Handle(context.Background(), ListTasksQuery{Status: domain.TaskStatusOpen})
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "urgent", views[0].Title)
	assert.Equal(t, "normal", views[1].Title)
	assert.Equal(t, "routine", views[2].Title)
	assert.Equal(t, "Deck Oven", views[0].EquipmentName)
	assert.Equal(t, "", views[1].EquipmentName)
}

func TestTaskHistoryFilters(t *testing.T) {
	db := testdb.New(t)
	handler := NewTaskHistoryHandler(db)

	category := &catalogdomain.EquipmentCategory{Name: "mixers"}
	require.NoError(t, db.Create(category).Error)
	equipment := &catalogdomain.Equipment{Name: "Planetary Mixer", CategoryID: category.ID}
	require.NoError(t, db.Create(equipment).Error)

	older := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	seedTask(t, db, "old fix", domain.PriorityMedium, domain.TaskStatusDone, &equipment.ID, &older)
	seedTask(t, db, "new fix", domain.PriorityMedium, domain.TaskStatusCancelled, nil, &newer)
	seedTask(t, db, "still open", domain.PriorityMedium, domain.TaskStatusOpen, nil, &newer)

	views, err := handler.Handle(context.Background(), TaskHistoryQuery{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "new fix", views[0].Title)
	assert.Equal(t, "old fix", views[1].Title)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	views, err = handler.Handle(context.Background(), TaskHistoryQuery{From: &from})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "new fix", views[0].Title)

	views, err = handler.Handle(context.Background(), TaskHistoryQuery{EquipmentID: equipment.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "old fix", views[0].Title)
}

func TestListPeriodicTasksComputesSchedule(t *testing.T) {
	db := testdb.New(t)
	handler := NewListPeriodicTasksHandler(db)

	category := &catalogdomain.EquipmentCategory{Name: "proofers"}
	require.NoError(t, db.Create(category).Error)
	equipment := &catalogdomain.Equipment{Name: "Proofer", CategoryID: category.ID}
	require.NoError(t, db.Create(equipment).Error)

	soon := time.Now().AddDate(0, 0, -28)
	far := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Create(&domain.PeriodicTask{
		Title: "almost due", EquipmentID: &equipment.ID, PeriodDays: 30, LastCompletedAt: &soon,
	}).Error)
	require.NoError(t, db.Create(&domain.PeriodicTask{
		Title: "just done", EquipmentID: &equipment.ID, PeriodDays: 30, LastCompletedAt: &far,
	}).Error)

	views, err := handler.Handle(context.Background(), ListPeriodicTasksQuery{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "almost due", views[0].Title)
	assert.Equal(t, "Proofer", views[0].EquipmentName)

	window := 7
	views, err = handler.Handle(context.Background(), ListPeriodicTasksQuery{DueWithinDays: &window})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "almost due", views[0].Title)
}
