package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/order/domain"
)

// GormOrderRepository implements domain.OrderRepository on GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.OrderItem{})
}

func (r *GormOrderRepository) WithTx(tx *gorm.DB) domain.OrderRepository {
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) Create(order *domain.Order) error {
	return r.db.Create(order).Error
}

func (r *GormOrderRepository) Update(order *domain.Order) error {
	return r.db.Omit("Items").Save(order).Error
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(limit, offset int, status string) ([]domain.Order, int64, error) {
	var (
		orders []domain.Order
		total  int64
	)
	q := r.db.Model(&domain.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, id).Error
	})
}

// ReplaceItems swaps the full item set of an order
func (r *GormOrderRepository) ReplaceItems(orderID uint, items []domain.OrderItem) error {
	if err := r.db.Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.Create(&items).Error
}

func (r *GormOrderRepository) ItemsForOrder(orderID uint) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

func (r *GormOrderRepository) HasItemsForPart(partID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.OrderItem{}).
		Where("part_id = ?", partID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormOrderRepository) SetStatus(orderID uint, status string, acceptedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if acceptedAt != nil {
		updates["accepted_at"] = acceptedAt
	}
	return r.db.Model(&domain.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *GormOrderRepository) SetDriverNotified(orderID uint, notified bool) error {
	return r.db.Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("driver_notified", notified).Error
}
