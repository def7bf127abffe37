package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/task/domain"
)

// GormTaskRepository implements domain.TaskRepository on GORM
type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) WithTx(tx *gorm.DB) domain.TaskRepository {
	return &GormTaskRepository{db: tx}
}

func (r *GormTaskRepository) Create(task *domain.Task) error {
	return r.db.Omit("Parts").Create(task).Error
}

func (r *GormTaskRepository) Update(task *domain.Task) error {
	return r.db.Omit("Parts").Save(task).Error
}

func (r *GormTaskRepository) FindByID(id uint) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Preload("Parts").First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormTaskRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&domain.TaskPart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Task{}, id).Error
	})
}

// ReplaceParts swaps the full part-line set of a task
func (r *GormTaskRepository) ReplaceParts(taskID uint, parts []domain.TaskPart) error {
	if err := r.db.Where("task_id = ?", taskID).Delete(&domain.TaskPart{}).Error; err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}
	for i := range parts {
		parts[i].TaskID = taskID
	}
	return r.db.Create(&parts).Error
}

func (r *GormTaskRepository) EquipmentPartIDs(taskID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&domain.TaskPart{}).
		Where("task_id = ?", taskID).
		Distinct().
		Pluck("equipment_part_id", &ids).Error
	return ids, err
}

func (r *GormTaskRepository) SetStatus(taskID uint, status string) error {
	return r.db.Model(&domain.Task{}).
		Where("id = ?", taskID).
		Update("status", status).Error
}

// RefreshReplacementFlags recomputes requires_replacement for the given
// equipment links: a link is flagged while any open or on-hold
// replacement task still references it.
func (r *GormTaskRepository) RefreshReplacementFlags(linkIDs []uint) error {
	if len(linkIDs) == 0 {
		return nil
	}
	return r.db.Exec(`
		UPDATE equipment_parts
		SET requires_replacement = EXISTS (
			SELECT 1 FROM task_parts tp
			JOIN tasks t ON t.id = tp.task_id
			WHERE tp.equipment_part_id = equipment_parts.id
			  AND t.status IN (?, ?)
		)
		WHERE equipment_parts.id IN ?`,
		domain.TaskStatusOpen, domain.TaskStatusOnHold, linkIDs).Error
}

// GormPeriodicTaskRepository implements domain.PeriodicTaskRepository
// on GORM
type GormPeriodicTaskRepository struct {
	db *gorm.DB
}

func NewGormPeriodicTaskRepository(db *gorm.DB) *GormPeriodicTaskRepository {
	return &GormPeriodicTaskRepository{db: db}
}

func (r *GormPeriodicTaskRepository) WithTx(tx *gorm.DB) domain.PeriodicTaskRepository {
	return &GormPeriodicTaskRepository{db: tx}
}

func (r *GormPeriodicTaskRepository) Create(task *domain.PeriodicTask) error {
	return r.db.Create(task).Error
}

func (r *GormPeriodicTaskRepository) Update(task *domain.PeriodicTask) error {
	return r.db.Save(task).Error
}

func (r *GormPeriodicTaskRepository) FindByID(id uint) (*domain.PeriodicTask, error) {
	var task domain.PeriodicTask
	err := r.db.First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormPeriodicTaskRepository) Delete(ids []uint) error {
	return r.db.Delete(&domain.PeriodicTask{}, ids).Error
}

func (r *GormPeriodicTaskRepository) SetLastCompleted(id uint, completedAt time.Time) error {
	return r.db.Model(&domain.PeriodicTask{}).
		Where("id = ?", id).
		Update("last_completed_at", completedAt).Error
}
