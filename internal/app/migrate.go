package app

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	knifedomain "github.com/stockware/stockroom/internal/knife/domain"
	ledgerdomain "github.com/stockware/stockroom/internal/ledger/domain"
	orderdomain "github.com/stockware/stockroom/internal/order/domain"
	taskdomain "github.com/stockware/stockroom/internal/task/domain"
)

// Migrate creates the schema and seeds the built-in categories
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Part{},
		&catalogdomain.EquipmentCategory{},
		&catalogdomain.Equipment{},
		&catalogdomain.EquipmentPart{},
		&catalogdomain.Counterparty{},
		&ledgerdomain.Replacement{},
		&knifedomain.Tracking{},
		&knifedomain.StatusLog{},
		&knifedomain.SharpenLog{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&taskdomain.Task{},
		&taskdomain.TaskPart{},
		&taskdomain.PeriodicTask{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, name := range []string{catalogdomain.CategoryKnives, catalogdomain.CategoryIrons} {
		var category catalogdomain.Category
		err := db.Where("name = ?", name).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&catalogdomain.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check category %q: %w", name, err)
		}
	}
	return nil
}
