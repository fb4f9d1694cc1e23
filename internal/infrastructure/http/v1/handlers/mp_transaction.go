package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/id"
	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/mptransaction"
	"mercatus/internal/infrastructure/http/v1/dto"
)

// MarketplaceTransactionHandler handles HTTP requests for
// MarketplaceTransaction documents.
type MarketplaceTransactionHandler struct {
	*BaseDocumentHandler[*mptransaction.MarketplaceTransaction, dto.CreateMarketplaceTransactionRequest, dto.UpdateMarketplaceTransactionRequest]
	service *mptransaction.Service
}

// NewMarketplaceTransactionHandler creates a new transaction handler.
func NewMarketplaceTransactionHandler(base *BaseHandler, service *mptransaction.Service) *MarketplaceTransactionHandler {
	cfg := BaseDocumentHandlerConfig[*mptransaction.MarketplaceTransaction, dto.CreateMarketplaceTransactionRequest, dto.UpdateMarketplaceTransactionRequest]{
		Service:    service,
		EntityName: "mp-transaction",
		MapCreateDTO: func(req dto.CreateMarketplaceTransactionRequest) *mptransaction.MarketplaceTransaction {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateMarketplaceTransactionRequest, existing *mptransaction.MarketplaceTransaction) *mptransaction.MarketplaceTransaction {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *mptransaction.MarketplaceTransaction) any {
			return dto.FromMarketplaceTransaction(entity)
		},
		IsPostImmediately: func(req dto.CreateMarketplaceTransactionRequest) bool {
			return req.PostImmediately
		},
	}

	return &MarketplaceTransactionHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// List handles GET /document/mp-transaction - list with filtering.
func (h *MarketplaceTransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := mptransaction.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "operation_date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"
	filter.Marketplace = c.Query("marketplace")
	filter.OperationType = mptransaction.OperationType(c.Query("operationType"))

	if connectionID := c.Query("connectionId"); connectionID != "" {
		if parsed, err := id.Parse(connectionID); err == nil {
			filter.ConnectionID = &parsed
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

	items := make([]dto.MarketplaceTransactionResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromMarketplaceTransaction(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers transaction routes.
func (h *MarketplaceTransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.BaseDocumentHandler.RegisterRoutes(rg)
	rg.GET("", h.List)
}
