package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	"github.com/stockware/stockroom/internal/task/domain"
	taskrepo "github.com/stockware/stockroom/internal/task/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func TestDeleteTaskReleasesLinks(t *testing.T) {
	db := testdb.New(t)
	handler := NewDeleteTaskHandler(db, taskrepo.NewGormTaskRepository(db))

	task, _, link, _ := seedReplacementTask(t, db, 3, 1, "")

	result, err := handler.Handle(context.Background(), DeleteTaskCommand{TaskID: task.ID})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.ElementsMatch(t, []string{"tasks", "equipment"}, result.ChangedNames())

	var tasks int64
	require.NoError(t, db.Model(&domain.Task{}).Count(&tasks).Error)
	assert.Zero(t, tasks)

	var lines int64
	require.NoError(t, db.Model(&domain.TaskPart{}).Count(&lines).Error)
	assert.Zero(t, lines)

	var storedLink catalogdomain.EquipmentPart
	require.NoError(t, db.First(&storedLink, link.ID).Error)
	assert.False(t, storedLink.RequiresReplacement)
}

func TestDeleteTaskNotFound(t *testing.T) {
	db := testdb.New(t)
	handler := NewDeleteTaskHandler(db, taskrepo.NewGormTaskRepository(db))

	result, err := handler.Handle(context.Background(), DeleteTaskCommand{TaskID: 42})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "task not found", result.Message)
}
