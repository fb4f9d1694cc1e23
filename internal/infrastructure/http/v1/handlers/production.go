package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/id"
	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/production"
	"mercatus/internal/infrastructure/http/v1/dto"
)

// ProductionOutputHandler handles HTTP requests for ProductionOutput documents.
type ProductionOutputHandler struct {
	*BaseDocumentHandler[*production.ProductionOutput, dto.CreateProductionOutputRequest, dto.UpdateProductionOutputRequest]
	service *production.Service
}

// NewProductionOutputHandler creates a new production output handler.
func NewProductionOutputHandler(base *BaseHandler, service *production.Service) *ProductionOutputHandler {
	cfg := BaseDocumentHandlerConfig[*production.ProductionOutput, dto.CreateProductionOutputRequest, dto.UpdateProductionOutputRequest]{
		Service:    service,
		EntityName: "production-output",
		MapCreateDTO: func(req dto.CreateProductionOutputRequest) *production.ProductionOutput {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductionOutputRequest, existing *production.ProductionOutput) *production.ProductionOutput {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *production.ProductionOutput) any {
			return dto.FromProductionOutput(entity)
		},
		IsPostImmediately: func(req dto.CreateProductionOutputRequest) bool {
			return req.PostImmediately
		},
	}

	return &ProductionOutputHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// List handles GET /document/production-output - list with filtering.
func (h *ProductionOutputHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := production.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if nomenclatureID := c.Query("nomenclatureId"); nomenclatureID != "" {
		if parsed, err := id.Parse(nomenclatureID); err == nil {
			filter.NomenclatureID = &parsed
		}
	}

	if posted := c.Query("posted"); posted != "" {
		val := posted == "true"
		filter.Posted = &val
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

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductionOutputResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromProductionOutput(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers production output routes.
func (h *ProductionOutputHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.BaseDocumentHandler.RegisterRoutes(rg)
	rg.GET("", h.List)
}
