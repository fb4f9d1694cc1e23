package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/mpsale"
	"mercatus/internal/infrastructure/http/v1/dto"
	"mercatus/internal/infrastructure/rawstore"
	"mercatus/pkg/logger"
)

// MarketplaceSaleHandler handles HTTP requests for MarketplaceSale documents.
type MarketplaceSaleHandler struct {
	*BaseDocumentHandler[*mpsale.MarketplaceSale, dto.CreateMarketplaceSaleRequest, dto.UpdateMarketplaceSaleRequest]
	service  *mpsale.Service
	rawStore *rawstore.Store
}

// NewMarketplaceSaleHandler creates a new marketplace sale handler.
// rawStore may be nil; raw payload archiving is then disabled.
func NewMarketplaceSaleHandler(base *BaseHandler, service *mpsale.Service, rawStore *rawstore.Store) *MarketplaceSaleHandler {
	cfg := BaseDocumentHandlerConfig[*mpsale.MarketplaceSale, dto.CreateMarketplaceSaleRequest, dto.UpdateMarketplaceSaleRequest]{
		Service:    service,
		EntityName: "mp-sale",
		MapCreateDTO: func(req dto.CreateMarketplaceSaleRequest) *mpsale.MarketplaceSale {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateMarketplaceSaleRequest, existing *mpsale.MarketplaceSale) *mpsale.MarketplaceSale {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *mpsale.MarketplaceSale) any {
			return dto.FromMarketplaceSale(entity)
		},
		IsPostImmediately: func(req dto.CreateMarketplaceSaleRequest) bool {
			return req.PostImmediately
		},
	}

	return &MarketplaceSaleHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
		rawStore:            rawStore,
	}
}

// Create handles POST /document/mp-sale. Overrides the base handler to
// archive the raw marketplace payload before the document is saved.
func (h *MarketplaceSaleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateMarketplaceSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()

	if h.rawStore != nil && len(req.RawPayload) > 0 {
		ref, err := h.rawStore.Put(ctx, req.Marketplace, "mp_sale", req.Number, req.RawPayload)
		if err != nil {
			// Archiving is best effort: the document is the source of truth
			logger.Warn(ctx, "failed to archive raw payload", "number", req.Number, "error", err)
		} else {
			doc.RawPayloadRef = &ref
		}
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	if req.PostImmediately {
		if err := h.service.Post(ctx, doc.ID); err != nil {
			h.Error(c, err)
			return
		}
		if posted, err := h.service.GetByID(ctx, doc.ID); err == nil {
			doc = posted
		}
	}

	response := dto.FromMarketplaceSale(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Raw handles GET /document/mp-sale/:id/raw - returns the archived source payload.
func (h *MarketplaceSaleHandler) Raw(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.rawStore == nil || doc.RawPayloadRef == nil {
		h.Error(c, apperror.NewNotFound("raw payload", docID.String()))
		return
	}

	payload, err := h.rawStore.Get(ctx, *doc.RawPayloadRef)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

// List handles GET /document/mp-sale - list with filtering.
func (h *MarketplaceSaleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := mpsale.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "sale_date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"
	filter.Marketplace = c.Query("marketplace")
	filter.StatusNorm = c.Query("statusNorm")

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

	items := make([]dto.MarketplaceSaleResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromMarketplaceSale(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers marketplace sale routes.
func (h *MarketplaceSaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.BaseDocumentHandler.RegisterRoutes(rg)
	rg.GET("", h.List)
	rg.GET("/:id/raw", h.Raw)
}
