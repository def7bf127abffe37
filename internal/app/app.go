package app

import (
	"github.com/gorilla/mux"

	cataloghttp "github.com/stockware/stockroom/internal/catalog/delivery/http"
	knifehttp "github.com/stockware/stockroom/internal/knife/delivery/http"
	ledgerhttp "github.com/stockware/stockroom/internal/ledger/delivery/http"
	orderhttp "github.com/stockware/stockroom/internal/order/delivery/http"
	"github.com/stockware/stockroom/internal/settings"
	taskhttp "github.com/stockware/stockroom/internal/task/delivery/http"
)

// App bundles the HTTP handlers of every component
type App struct {
	Catalog  *cataloghttp.CatalogHandler
	Stock    *ledgerhttp.StockHandler
	Knives   *knifehttp.KnifeHandler
	Orders   *orderhttp.OrderHandler
	Tasks    *taskhttp.TaskHandler
	Settings *settings.Handler
}

// NewApp creates the app from its handlers
func NewApp(
	catalog *cataloghttp.CatalogHandler,
	stock *ledgerhttp.StockHandler,
	knives *knifehttp.KnifeHandler,
	orders *orderhttp.OrderHandler,
	tasks *taskhttp.TaskHandler,
	settingsHandler *settings.Handler,
) *App {
	return &App{
		Catalog:  catalog,
		Stock:    stock,
		Knives:   knives,
		Orders:   orders,
		Tasks:    tasks,
		Settings: settingsHandler,
	}
}

// RegisterRoutes registers every component's routes
func (a *App) RegisterRoutes(router *mux.Router) {
	a.Catalog.RegisterRoutes(router)
	a.Stock.RegisterRoutes(router)
	a.Knives.RegisterRoutes(router)
	a.Orders.RegisterRoutes(router)
	a.Tasks.RegisterRoutes(router)
	a.Settings.RegisterRoutes(router)
}
