package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/projections/salesdata"
	"mercatus/internal/domain/projections/salesregister"
	"mercatus/internal/infrastructure/http/v1/dto"
)

// ProjectionsHandler exposes read access to the materialized projections.
// Rows are served as-is: they are already denormalized for reporting.
type ProjectionsHandler struct {
	*BaseHandler
	salesRegister *salesregister.Service
	salesData     *salesdata.Service
}

// NewProjectionsHandler creates a new projections handler.
func NewProjectionsHandler(base *BaseHandler, salesRegister *salesregister.Service, salesData *salesdata.Service) *ProjectionsHandler {
	return &ProjectionsHandler{
		BaseHandler:   base,
		salesRegister: salesRegister,
		salesData:     salesData,
	}
}

// ListSalesRegister handles GET /projection/sales-register
func (h *ProjectionsHandler) ListSalesRegister(c *gin.Context) {
	ctx := c.Request.Context()

	filter := salesregister.ListFilter{
		Marketplace: c.Query("marketplace"),
		StatusNorm:  c.Query("statusNorm"),
		OrderBy:     c.DefaultQuery("orderBy", "sale_date DESC"),
		Limit:       h.ParseIntQuery(c, "limit", 50),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if connectionID := c.Query("connectionId"); connectionID != "" {
		if parsed, err := id.Parse(connectionID); err == nil {
			filter.ConnectionID = &parsed
		}
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	rows, err := h.salesRegister.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      rows,
		TotalCount: int64(len(rows)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// SalesRegisterByRegistrator handles GET /projection/sales-register/by-registrator/:id
func (h *ProjectionsHandler) SalesRegisterByRegistrator(c *gin.Context) {
	ctx := c.Request.Context()

	registratorID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rows, err := h.salesRegister.GetByRegistrator(ctx, registratorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ListSalesData handles GET /projection/sales-data
func (h *ProjectionsHandler) ListSalesData(c *gin.Context) {
	ctx := c.Request.Context()

	filter := salesdata.ListFilter{
		OrderBy: c.DefaultQuery("orderBy", "date DESC"),
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	if connectionID := c.Query("connectionId"); connectionID != "" {
		if parsed, err := id.Parse(connectionID); err == nil {
			filter.ConnectionID = &parsed
		}
	}
	if nomenclatureID := c.Query("nomenclatureId"); nomenclatureID != "" {
		if parsed, err := id.Parse(nomenclatureID); err == nil {
			filter.NomenclatureID = &parsed
		}
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	rows, err := h.salesData.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      rows,
		TotalCount: int64(len(rows)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// SalesDataByRegistrator handles GET /projection/sales-data/by-registrator/:id
func (h *ProjectionsHandler) SalesDataByRegistrator(c *gin.Context) {
	ctx := c.Request.Context()

	registratorID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rows, err := h.salesData.GetByRegistrator(ctx, registratorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// RegisterRoutes registers projection read routes.
func (h *ProjectionsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales-register", h.ListSalesRegister)
	rg.GET("/sales-register/by-registrator/:id", h.SalesRegisterByRegistrator)
	rg.GET("/sales-data", h.ListSalesData)
	rg.GET("/sales-data/by-registrator/:id", h.SalesDataByRegistrator)
}
