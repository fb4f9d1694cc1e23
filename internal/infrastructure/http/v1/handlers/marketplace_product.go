package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/domain"
	"mercatus/internal/domain/catalogs/marketplaceproduct"
	"mercatus/internal/infrastructure/http/v1/dto"
)

// MarketplaceProductHandler handles HTTP requests for marketplace listings.
type MarketplaceProductHandler struct {
	*CatalogHandler[*marketplaceproduct.MarketplaceProduct, dto.CreateMarketplaceProductRequest, dto.UpdateMarketplaceProductRequest]
	service *marketplaceproduct.Service
}

// NewMarketplaceProductHandler creates a new MarketplaceProductHandler.
func NewMarketplaceProductHandler(base *BaseHandler, service *marketplaceproduct.Service) *MarketplaceProductHandler {
	config := CatalogHandlerConfig[
		*marketplaceproduct.MarketplaceProduct,
		dto.CreateMarketplaceProductRequest,
		dto.UpdateMarketplaceProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "marketplace-product",

		MapCreateDTO: func(req dto.CreateMarketplaceProductRequest) *marketplaceproduct.MarketplaceProduct {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateMarketplaceProductRequest, existing *marketplaceproduct.MarketplaceProduct) *marketplaceproduct.MarketplaceProduct {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *marketplaceproduct.MarketplaceProduct) any {
			return dto.FromMarketplaceProduct(entity)
		},
	}

	return &MarketplaceProductHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Unmatched handles GET /catalog/marketplace-product/unmatched - listings
// without a nomenclature link.
func (h *MarketplaceProductHandler) Unmatched(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.FindUnmatched(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MarketplaceProductResponse, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromMarketplaceProduct(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Match handles POST /catalog/marketplace-product/:id/match - links the
// listing to a nomenclature item.
func (h *MarketplaceProductHandler) Match(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.MatchMarketplaceProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	nomenclatureID, err := id.Parse(req.NomenclatureID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid nomenclature id format"))
		return
	}

	if err := h.service.Match(ctx, productID, nomenclatureID); err != nil {
		h.Error(c, err)
		return
	}

	product, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromMarketplaceProduct(product)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}
