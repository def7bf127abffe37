package main

// @title Stockroom Service API
// @version 1.0
// @description Spare parts inventory with equipment, supplier orders and knife lifecycle tracking
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/stockware/stockroom

// @license.name MIT
// @license.url https://github.com/stockware/stockroom/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Parts
// @tag.description Spare part catalog and stock endpoints

// @tag.name Replacements
// @tag.description Stock consumption ledger endpoints

// @tag.name Knives
// @tag.description Knife lifecycle endpoints

// @tag.name Orders
// @tag.description Supplier order endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
