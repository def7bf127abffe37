package repository

import (
	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/ledger/domain"
)

// GormReplacementRepository implements domain.ReplacementRepository on GORM
type GormReplacementRepository struct {
	db *gorm.DB
}

func NewGormReplacementRepository(db *gorm.DB) *GormReplacementRepository {
	return &GormReplacementRepository{db: db}
}

func (r *GormReplacementRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Replacement{})
}

func (r *GormReplacementRepository) WithTx(tx *gorm.DB) domain.ReplacementRepository {
	return &GormReplacementRepository{db: tx}
}

func (r *GormReplacementRepository) Create(replacement *domain.Replacement) error {
	return r.db.Create(replacement).Error
}

func (r *GormReplacementRepository) Update(replacement *domain.Replacement) error {
	return r.db.Save(replacement).Error
}

func (r *GormReplacementRepository) FindByID(id uint) (*domain.Replacement, error) {
	var replacement domain.Replacement
	if err := r.db.First(&replacement, id).Error; err != nil {
		return nil, err
	}
	return &replacement, nil
}

func (r *GormReplacementRepository) FindAll(limit, offset int) ([]domain.Replacement, int64, error) {
	var (
		replacements []domain.Replacement
		total        int64
	)
	if err := r.db.Model(&domain.Replacement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Order("replaced_at DESC").
		Limit(limit).Offset(offset).
		Find(&replacements).Error
	if err != nil {
		return nil, 0, err
	}
	return replacements, total, nil
}

func (r *GormReplacementRepository) FindByPart(partID uint) ([]domain.Replacement, error) {
	var replacements []domain.Replacement
	err := r.db.
		Where("part_id = ?", partID).
		Order("replaced_at DESC").
		Find(&replacements).Error
	return replacements, err
}

func (r *GormReplacementRepository) HasForPart(partID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Replacement{}).
		Where("part_id = ?", partID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormReplacementRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Replacement{}, id).Error
}
