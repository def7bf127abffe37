package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	"github.com/stockware/stockroom/internal/task/domain"
	taskrepo "github.com/stockware/stockroom/internal/task/repository"
	"github.com/stockware/stockroom/internal/testdb"
)

func seedEquipment(t *testing.T, db *gorm.DB, name string) *catalogdomain.Equipment {
	t.Helper()
	category := &catalogdomain.EquipmentCategory{Name: "mixers-" + name}
	require.NoError(t, db.Create(category).Error)
	equipment := &catalogdomain.Equipment{Name: name, CategoryID: category.ID}
	require.NoError(t, db.Create(equipment).Error)
	return equipment
}

func seedPart(t *testing.T, db *gorm.DB, name, sku string, qty int) *catalogdomain.Part {
	t.Helper()
	part := &catalogdomain.Part{Name: name, SKU: sku, Qty: qty}
	require.NoError(t, db.Create(part).Error)
	return part
}

func seedLink(t *testing.T, db *gorm.DB, equipmentID, partID uint) *catalogdomain.EquipmentPart {
	t.Helper()
	link := &catalogdomain.EquipmentPart{EquipmentID: equipmentID, PartID: partID, InstalledQty: 1}
	require.NoError(t, db.Create(link).Error)
	return link
}

func newSaveTaskHandler(db *gorm.DB) *SaveTaskHandler {
	return NewSaveTaskHandler(db,
		taskrepo.NewGormTaskRepository(db),
		catalogrepo.NewGormEquipmentRepository(db))
}

func TestSaveTaskReplacementFlagsLinks(t *testing.T) {
	db := testdb.New(t)
	handler := newSaveTaskHandler(db)
	equipmentRepo := catalogrepo.NewGormEquipmentRepository(db)

	equipment := seedEquipment(t, db, "Dough Mixer")
	part := seedPart(t, db, "Drive Belt", "DB-1", 5)
	link := seedLink(t, db, equipment.ID, part.ID)

	result, err := handler.Handle(context.Background(), SaveTaskCommand{
		Title:         "Replace the belt",
		EquipmentID:   &equipment.ID,
		IsReplacement: true,
		Parts:         []TaskPartInput{{EquipmentPartID: link.ID, PartID: part.ID, Qty: 2}},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.ChangedNames(), "tasks")
	assert.Contains(t, result.ChangedNames(), "equipment")

	// A planned replacement flags the link
	loaded, err := equipmentRepo.FindLink(link.ID)
	require.NoError(t, err)
	assert.True(t, loaded.RequiresReplacement)

	var task domain.Task
	require.NoError(t, db.Preload("Parts").Where("title = ?", "Replace the belt").First(&task).Error)
	require.Len(t, task.Parts, 1)
	assert.Equal(t, 2, task.Parts[0].Qty)
	assert.Equal(t, domain.TaskStatusOpen, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)

	// Turning the task into a plain one releases the link
	result, err = handler.Handle(context.Background(), SaveTaskCommand{
		TaskID: task.ID,
		Title:  "Replace the belt",
		Status: domain.TaskStatusOpen,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	loaded, err = equipmentRepo.FindLink(link.ID)
	require.NoError(t, err)
	assert.False(t, loaded.RequiresReplacement)

	var lines int64
	require.NoError(t, db.Model(&domain.TaskPart{}).Where("task_id = ?", task.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestSaveTaskLinkChecksAreAtomic(t *testing.T) {
	db := testdb.New(t)
	handler := newSaveTaskHandler(db)

	equipmentA := seedEquipment(t, db, "Slicer")
	equipmentB := seedEquipment(t, db, "Oven")
	part := seedPart(t, db, "Bearing", "BR-1", 3)
	link := seedLink(t, db, equipmentA.ID, part.ID)

	cases := []struct {
		name string
		cmd  SaveTaskCommand
		want string
	}{
		{
			name: "foreign link",
			cmd: SaveTaskCommand{
				Title: "t", EquipmentID: &equipmentB.ID, IsReplacement: true,
				Parts: []TaskPartInput{{EquipmentPartID: link.ID, PartID: part.ID, Qty: 1}},
			},
			want: domain.ErrForeignLink.Error(),
		},
		{
			name: "mismatched part",
			cmd: SaveTaskCommand{
				Title: "t", EquipmentID: &equipmentA.ID, IsReplacement: true,
				Parts: []TaskPartInput{{EquipmentPartID: link.ID, PartID: part.ID + 10, Qty: 1}},
			},
			want: domain.ErrLinkMismatch.Error(),
		},
		{
			name: "unknown link",
			cmd: SaveTaskCommand{
				Title: "t", EquipmentID: &equipmentA.ID, IsReplacement: true,
				Parts: []TaskPartInput{{EquipmentPartID: 999, PartID: part.ID, Qty: 1}},
			},
			want: domain.ErrLinkGone.Error(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := handler.Handle(context.Background(), tc.cmd)
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, tc.want, result.Message)
		})
	}

	// Every rejected save rolled back completely
	var count int64
	require.NoError(t, db.Model(&domain.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveTaskValidation(t *testing.T) {
	db := testdb.New(t)
	handler := newSaveTaskHandler(db)

	equipment := seedEquipment(t, db, "Proofer")
	part := seedPart(t, db, "Seal", "SL-1", 2)
	link := seedLink(t, db, equipment.ID, part.ID)

	cases := []struct {
		name string
		cmd  SaveTaskCommand
	}{
		{"empty title", SaveTaskCommand{Title: "   "}},
		{"bad priority", SaveTaskCommand{Title: "t", Priority: "urgent"}},
		{"bad status", SaveTaskCommand{Title: "t", Status: "paused"}},
		{"replacement without equipment", SaveTaskCommand{Title: "t", IsReplacement: true}},
		{"replacement without parts", SaveTaskCommand{
			Title: "t", IsReplacement: true, EquipmentID: &equipment.ID,
		}},
		{"non-positive qty", SaveTaskCommand{
			Title: "t", IsReplacement: true, EquipmentID: &equipment.ID,
			Parts: []TaskPartInput{{EquipmentPartID: link.ID, PartID: part.ID, Qty: 0}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := handler.Handle(context.Background(), tc.cmd)
			require.NoError(t, err)
			assert.False(t, result.Success)
		})
	}
}
