package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/catalog/domain"
)

// GormPartRepository implements domain.PartRepository on GORM
type GormPartRepository struct {
	db *gorm.DB
}

func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

func (r *GormPartRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Category{},
		&domain.Part{},
		&domain.EquipmentCategory{},
		&domain.Equipment{},
		&domain.EquipmentPart{},
		&domain.Counterparty{},
	)
}

func (r *GormPartRepository) WithTx(tx *gorm.DB) domain.PartRepository {
	return &GormPartRepository{db: tx}
}

func (r *GormPartRepository) Create(part *domain.Part) error {
	return r.db.Create(part).Error
}

func (r *GormPartRepository) Update(part *domain.Part) error {
	return r.db.Save(part).Error
}

func (r *GormPartRepository) FindByID(id uint) (*domain.Part, error) {
	var part domain.Part
	if err := r.db.First(&part, id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *GormPartRepository) FindByNameSKU(name, sku string) (*domain.Part, error) {
	var part domain.Part
	err := r.db.
		Where("LOWER(name) = ? AND LOWER(sku) = ?", strings.ToLower(name), strings.ToLower(sku)).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

// ExistsConflicting reports whether another part already uses the same
// name+sku pair, ignoring case
func (r *GormPartRepository) ExistsConflicting(name, sku string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&domain.Part{}).
		Where("LOWER(name) = ? AND LOWER(sku) = ?", strings.ToLower(name), strings.ToLower(sku))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPartRepository) FindAll(limit, offset int, search string) ([]domain.Part, int64, error) {
	var (
		parts []domain.Part
		total int64
	)
	q := r.db.Model(&domain.Part{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("name").Limit(limit).Offset(offset).Find(&parts).Error; err != nil {
		return nil, 0, err
	}
	return parts, total, nil
}

// LowStock returns parts at or below their minimum quantity
func (r *GormPartRepository) LowStock() ([]domain.Part, error) {
	var parts []domain.Part
	err := r.db.
		Where("qty <= min_qty").
		Order("name").
		Find(&parts).Error
	return parts, err
}

func (r *GormPartRepository) HasForCategory(categoryID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Part{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count > 0, err
}

// AdjustQty applies a relative stock change. Callers are responsible
// for checking availability inside the same transaction first.
func (r *GormPartRepository) AdjustQty(partID uint, delta int) error {
	return r.db.Model(&domain.Part{}).
		Where("id = ?", partID).
		Update("qty", gorm.Expr("qty + ?", delta)).Error
}

func (r *GormPartRepository) UpdatePrice(partID uint, price float64) error {
	return r.db.Model(&domain.Part{}).
		Where("id = ?", partID).
		Update("price", price).Error
}

func (r *GormPartRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Part{}, id).Error
}

// GormCategoryRepository implements domain.CategoryRepository on GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) WithTx(tx *gorm.DB) domain.CategoryRepository {
	return &GormCategoryRepository{db: tx}
}

func (r *GormCategoryRepository) Create(category *domain.Category) error {
	return r.db.Create(category).Error
}

func (r *GormCategoryRepository) Rename(id uint, name string) error {
	return r.db.Model(&domain.Category{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *GormCategoryRepository) FindByID(id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindByName(name string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindAll() ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Order("name").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Category{}, id).Error
}

// GormEquipmentRepository implements domain.EquipmentRepository on GORM
type GormEquipmentRepository struct {
	db *gorm.DB
}

func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

func (r *GormEquipmentRepository) WithTx(tx *gorm.DB) domain.EquipmentRepository {
	return &GormEquipmentRepository{db: tx}
}

func (r *GormEquipmentRepository) Create(equipment *domain.Equipment) error {
	return r.db.Create(equipment).Error
}

func (r *GormEquipmentRepository) Update(equipment *domain.Equipment) error {
	return r.db.Save(equipment).Error
}

func (r *GormEquipmentRepository) FindByID(id uint) (*domain.Equipment, error) {
	var equipment domain.Equipment
	if err := r.db.First(&equipment, id).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *GormEquipmentRepository) FindAll() ([]domain.Equipment, error) {
	var equipment []domain.Equipment
	err := r.db.Order("name").Find(&equipment).Error
	return equipment, err
}

func (r *GormEquipmentRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Equipment{}, id).Error
}

func (r *GormEquipmentRepository) AttachPart(link *domain.EquipmentPart) error {
	return r.db.Create(link).Error
}

func (r *GormEquipmentRepository) DetachPart(linkID uint) error {
	return r.db.Delete(&domain.EquipmentPart{}, linkID).Error
}

func (r *GormEquipmentRepository) FindLink(linkID uint) (*domain.EquipmentPart, error) {
	var link domain.EquipmentPart
	err := r.db.First(&link, linkID).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *GormEquipmentRepository) LinksForEquipment(equipmentID uint) ([]domain.EquipmentPart, error) {
	var links []domain.EquipmentPart
	err := r.db.Where("equipment_id = ?", equipmentID).Find(&links).Error
	return links, err
}

func (r *GormEquipmentRepository) HasLinksForPart(partID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.EquipmentPart{}).
		Where("part_id = ?", partID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormEquipmentRepository) SetRequiresReplacement(linkID uint, requires bool) error {
	return r.db.Model(&domain.EquipmentPart{}).
		Where("id = ?", linkID).
		Update("requires_replacement", requires).Error
}

// ClearRequiresReplacement resets the flag after a replacement has been
// performed for the (equipment, part) pair
func (r *GormEquipmentRepository) ClearRequiresReplacement(equipmentID, partID uint) error {
	return r.db.Model(&domain.EquipmentPart{}).
		Where("equipment_id = ? AND part_id = ?", equipmentID, partID).
		Update("requires_replacement", false).Error
}

// GormCounterpartyRepository implements domain.CounterpartyRepository on GORM
type GormCounterpartyRepository struct {
	db *gorm.DB
}

func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

func (r *GormCounterpartyRepository) WithTx(tx *gorm.DB) domain.CounterpartyRepository {
	return &GormCounterpartyRepository{db: tx}
}

func (r *GormCounterpartyRepository) Create(counterparty *domain.Counterparty) error {
	return r.db.Create(counterparty).Error
}

func (r *GormCounterpartyRepository) Update(counterparty *domain.Counterparty) error {
	return r.db.Save(counterparty).Error
}

func (r *GormCounterpartyRepository) FindByID(id uint) (*domain.Counterparty, error) {
	var counterparty domain.Counterparty
	if err := r.db.First(&counterparty, id).Error; err != nil {
		return nil, err
	}
	return &counterparty, nil
}

func (r *GormCounterpartyRepository) FindAll() ([]domain.Counterparty, error) {
	var counterparties []domain.Counterparty
	err := r.db.Order("name").Find(&counterparties).Error
	return counterparties, err
}

func (r *GormCounterpartyRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Counterparty{}, id).Error
}
