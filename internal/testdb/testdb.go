// Package testdb provides an in-memory database for tests.
package testdb

import (
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	knifedomain "github.com/stockware/stockroom/internal/knife/domain"
	ledgerdomain "github.com/stockware/stockroom/internal/ledger/domain"
	orderdomain "github.com/stockware/stockroom/internal/order/domain"
	taskdomain "github.com/stockware/stockroom/internal/task/domain"
	applogger "github.com/stockware/stockroom/pkg/logger"
)

func init() {
	applogger.Logger = zerolog.Nop()
}

// New opens a fresh in-memory database with the full schema.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}
