//go:build wireinject
// +build wireinject

package app

import (
	"database/sql"

	"github.com/google/wire"
	"gorm.io/gorm"

	cataloghttp "github.com/stockware/stockroom/internal/catalog/delivery/http"
	catalogdomain "github.com/stockware/stockroom/internal/catalog/domain"
	catalogrepo "github.com/stockware/stockroom/internal/catalog/repository"
	knifehttp "github.com/stockware/stockroom/internal/knife/delivery/http"
	knifedomain "github.com/stockware/stockroom/internal/knife/domain"
	kniferepo "github.com/stockware/stockroom/internal/knife/repository"
	knifecommand "github.com/stockware/stockroom/internal/knife/usecase/command"
	knifequery "github.com/stockware/stockroom/internal/knife/usecase/query"
	ledgerhttp "github.com/stockware/stockroom/internal/ledger/delivery/http"
	ledgerdomain "github.com/stockware/stockroom/internal/ledger/domain"
	ledgerrepo "github.com/stockware/stockroom/internal/ledger/repository"
	ledgercommand "github.com/stockware/stockroom/internal/ledger/usecase/command"
	ledgerquery "github.com/stockware/stockroom/internal/ledger/usecase/query"
	orderhttp "github.com/stockware/stockroom/internal/order/delivery/http"
	orderdomain "github.com/stockware/stockroom/internal/order/domain"
	orderrepo "github.com/stockware/stockroom/internal/order/repository"
	ordercommand "github.com/stockware/stockroom/internal/order/usecase/command"
	orderquery "github.com/stockware/stockroom/internal/order/usecase/query"
	"github.com/stockware/stockroom/internal/settings"
	taskhttp "github.com/stockware/stockroom/internal/task/delivery/http"
	taskdomain "github.com/stockware/stockroom/internal/task/domain"
	taskrepo "github.com/stockware/stockroom/internal/task/repository"
	taskcommand "github.com/stockware/stockroom/internal/task/usecase/command"
	taskquery "github.com/stockware/stockroom/internal/task/usecase/query"
	"github.com/stockware/stockroom/kafka"
)

// ProvidePartRepository provides the part repository
func ProvidePartRepository(db *gorm.DB) catalogdomain.PartRepository {
	return catalogrepo.NewGormPartRepository(db)
}

// ProvideCategoryRepository provides the category repository
func ProvideCategoryRepository(db *gorm.DB) catalogdomain.CategoryRepository {
	return catalogrepo.NewGormCategoryRepository(db)
}

// ProvideEquipmentRepository provides the equipment repository
func ProvideEquipmentRepository(db *gorm.DB) catalogdomain.EquipmentRepository {
	return catalogrepo.NewGormEquipmentRepository(db)
}

// ProvideCounterpartyRepository provides the counterparty repository
func ProvideCounterpartyRepository(db *gorm.DB) catalogdomain.CounterpartyRepository {
	return catalogrepo.NewGormCounterpartyRepository(db)
}

// ProvideReplacementRepository provides the replacement repository
func ProvideReplacementRepository(db *gorm.DB) ledgerdomain.ReplacementRepository {
	return ledgerrepo.NewGormReplacementRepository(db)
}

// ProvideTrackingRepository provides the knife tracking repository
func ProvideTrackingRepository(db *gorm.DB) knifedomain.TrackingRepository {
	return kniferepo.NewGormTrackingRepository(db)
}

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) orderdomain.OrderRepository {
	return orderrepo.NewGormOrderRepository(db)
}

// ProvideTaskRepository provides the task repository
func ProvideTaskRepository(db *gorm.DB) taskdomain.TaskRepository {
	return taskrepo.NewGormTaskRepository(db)
}

// ProvidePeriodicTaskRepository provides the periodic task repository
func ProvidePeriodicTaskRepository(db *gorm.DB) taskdomain.PeriodicTaskRepository {
	return taskrepo.NewGormPeriodicTaskRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePartRepository,
	ProvideCategoryRepository,
	ProvideEquipmentRepository,
	ProvideCounterpartyRepository,
	ProvideReplacementRepository,
	ProvideTrackingRepository,
	ProvideOrderRepository,
	ProvideTaskRepository,
	ProvidePeriodicTaskRepository,
)

var CommandSet = wire.NewSet(
	ledgercommand.NewSavePartHandler,
	ledgercommand.NewDeletePartHandler,
	ledgercommand.NewReplaceStockHandler,
	ledgercommand.NewAcceptDeliveryHandler,
	ledgercommand.NewUpdateReplacementHandler,
	ledgercommand.NewDeleteReplacementHandler,
	knifecommand.NewSetStatusHandler,
	knifecommand.NewSharpenBatchHandler,
	knifecommand.NewToggleSharpHandler,
	knifecommand.NewToggleInstallationHandler,
	knifecommand.NewDeleteSharpenEntryHandler,
	knifecommand.NewDeleteStatusEntryHandler,
	ordercommand.NewSaveOrderHandler,
	ordercommand.NewUpdateOrderStatusHandler,
	ordercommand.NewDeleteOrderHandler,
	ordercommand.NewSetDriverNotifiedHandler,
	taskcommand.NewSaveTaskHandler,
	taskcommand.NewUpdateTaskStatusHandler,
	taskcommand.NewDeleteTaskHandler,
	taskcommand.NewSavePeriodicTaskHandler,
	taskcommand.NewDeletePeriodicTasksHandler,
	taskcommand.NewCompletePeriodicTaskHandler,
)

var QuerySet = wire.NewSet(
	ledgerquery.NewLowStockHandler,
	ledgerquery.NewListReplacementsHandler,
	knifequery.NewListKnivesHandler,
	knifequery.NewSharpenHistoryHandler,
	knifequery.NewOperationsHistoryHandler,
	orderquery.NewListOrdersHandler,
	orderquery.NewGetOrderHandler,
	taskquery.NewListTasksHandler,
	taskquery.NewTaskHistoryHandler,
	taskquery.NewListPeriodicTasksHandler,
)

var HandlerSet = wire.NewSet(
	cataloghttp.NewCatalogHandler,
	ledgerhttp.NewStockHandler,
	knifehttp.NewKnifeHandler,
	orderhttp.NewOrderHandler,
	taskhttp.NewTaskHandler,
	settings.NewStore,
	settings.NewHandler,
)

// InitializeApp initializes all handlers with their dependencies
func InitializeApp(db *gorm.DB, settingsDB *sql.DB, publisher *kafka.Publisher) (*App, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		HandlerSet,
		NewApp,
	)
	return nil, nil
}
