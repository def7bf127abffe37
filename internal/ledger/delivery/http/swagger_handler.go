package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the Stockroom Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreatePart godoc
// @Summary Create new part
// @Description Create a spare part. Name+SKU must be unique ignoring case.
// @Tags Parts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,sku=string,qty=int,min_qty=int,price=number,category_id=int} true "Part data"
// @Success 201 {object} object{success=bool,message=string,changed=[]string}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/parts [post]
func (h *StockHandler) CreatePartDoc() {}

// ListParts godoc
// @Summary List parts
// @Description Get parts with pagination and optional name/SKU search
// @Tags Parts
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Param search query string false "Name or SKU substring"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/parts [get]
func (h *StockHandler) ListPartsDoc() {}

// LowStock godoc
// @Summary List low stock parts
// @Description Get parts at or below their minimum quantity
// @Tags Parts
// @Produce json
// @Success 200 {object} object{success=bool,data=[]object}
// @Router /api/parts/low-stock [get]
func (h *StockHandler) LowStockDoc() {}

// ReplaceStock godoc
// @Summary Record a replacement
// @Description Consume stock for a replacement on equipment. Fails when stock is insufficient.
// @Tags Replacements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{part_id=int,equipment_id=int,qty=int,comment=string} true "Replacement data"
// @Success 201 {object} object{success=bool,message=string,changed=[]string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/replacements [post]
func (h *StockHandler) ReplaceStockDoc() {}

// DeletePart godoc
// @Summary Delete part
// @Description Delete a part. Blocked while equipment, orders, replacements or knife logs reference it.
// @Tags Parts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Part ID"
// @Success 200 {object} object{success=bool,message=string,changed=[]string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/parts/{id} [delete]
func (h *StockHandler) DeletePartDoc() {}
