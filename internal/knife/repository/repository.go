package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/knife/domain"
)

// GormTrackingRepository implements domain.TrackingRepository on GORM
type GormTrackingRepository struct {
	db *gorm.DB
}

func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

func (r *GormTrackingRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Tracking{},
		&domain.StatusLog{},
		&domain.SharpenLog{},
	)
}

func (r *GormTrackingRepository) WithTx(tx *gorm.DB) domain.TrackingRepository {
	return &GormTrackingRepository{db: tx}
}

// EnsureTracking returns the tracking row for a part, creating one in
// the default state if none exists yet
func (r *GormTrackingRepository) EnsureTracking(partID uint) (*domain.Tracking, error) {
	tracking := domain.Tracking{
		PartID:            partID,
		Status:            domain.StatusSharpened,
		SharpState:        domain.SharpStateSharp,
		InstallationState: domain.InstallationRemoved,
	}
	err := r.db.
		Where(domain.Tracking{PartID: partID}).
		FirstOrCreate(&tracking).Error
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (r *GormTrackingRepository) FindByPart(partID uint) (*domain.Tracking, error) {
	var tracking domain.Tracking
	err := r.db.Where("part_id = ?", partID).First(&tracking).Error
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (r *GormTrackingRepository) FindAll() ([]domain.Tracking, error) {
	var trackings []domain.Tracking
	err := r.db.Order("part_id").Find(&trackings).Error
	return trackings, err
}

func (r *GormTrackingRepository) Update(tracking *domain.Tracking) error {
	return r.db.Save(tracking).Error
}

func (r *GormTrackingRepository) DeleteByPart(partID uint) error {
	return r.db.Where("part_id = ?", partID).Delete(&domain.Tracking{}).Error
}

func (r *GormTrackingRepository) AppendStatusLog(entry *domain.StatusLog) error {
	return r.db.Create(entry).Error
}

func (r *GormTrackingRepository) AppendSharpenLog(entry *domain.SharpenLog) error {
	return r.db.Create(entry).Error
}

func (r *GormTrackingRepository) FindStatusLog(id uint) (*domain.StatusLog, error) {
	var entry domain.StatusLog
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormTrackingRepository) FindSharpenLog(id uint) (*domain.SharpenLog, error) {
	var entry domain.SharpenLog
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormTrackingRepository) StatusLogsForPart(partID uint) ([]domain.StatusLog, error) {
	var entries []domain.StatusLog
	err := r.db.
		Where("part_id = ?", partID).
		Order("changed_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

func (r *GormTrackingRepository) SharpenLogsForPart(partID uint) ([]domain.SharpenLog, error) {
	var entries []domain.SharpenLog
	err := r.db.
		Where("part_id = ?", partID).
		Order("sharpened_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

func (r *GormTrackingRepository) LatestStatusLog(partID uint) (*domain.StatusLog, error) {
	var entry domain.StatusLog
	err := r.db.
		Where("part_id = ?", partID).
		Order("changed_at DESC, id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SharpenStats returns the number of sharpenings recorded for a part
// and the timestamp of the most recent one
func (r *GormTrackingRepository) SharpenStats(partID uint) (int, *time.Time, error) {
	var count int64
	err := r.db.Model(&domain.SharpenLog{}).
		Where("part_id = ?", partID).
		Count(&count).Error
	if err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var latest domain.SharpenLog
	err = r.db.
		Where("part_id = ?", partID).
		Order("sharpened_at DESC, id DESC").
		First(&latest).Error
	if err != nil {
		return 0, nil, err
	}
	return int(count), &latest.SharpenedAt, nil
}

func (r *GormTrackingRepository) DeleteStatusLog(id uint) error {
	return r.db.Delete(&domain.StatusLog{}, id).Error
}

func (r *GormTrackingRepository) DeleteSharpenLog(id uint) error {
	return r.db.Delete(&domain.SharpenLog{}, id).Error
}

func (r *GormTrackingRepository) HasLogsForPart(partID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.StatusLog{}).
		Where("part_id = ?", partID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err = r.db.Model(&domain.SharpenLog{}).
		Where("part_id = ?", partID).
		Count(&count).Error
	return count > 0, err
}
