package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/projections/prices"
	"mercatus/internal/infrastructure/http/v1/dto"
)

// PricesHandler exposes the dealer price history: batch import for the ERP
// sync job and per-item history for diagnostics.
type PricesHandler struct {
	*BaseHandler
	service *prices.Service
}

// NewPricesHandler creates a new prices handler.
func NewPricesHandler(base *BaseHandler, service *prices.Service) *PricesHandler {
	return &PricesHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Import handles POST /prices/import - upserts a batch of price records.
func (h *PricesHandler) Import(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ImportPricesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	records := req.ToEntities()
	if len(records) == 0 {
		h.Error(c, apperror.NewValidation("no valid price records in batch"))
		return
	}

	if err := h.service.ImportPrices(ctx, records); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.SuccessResponse{
		Success: true,
		Message: "prices imported",
	}
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// History handles GET /prices/:nomenclatureId - full price history of an item.
func (h *PricesHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	nomenclatureID, err := id.Parse(c.Param("nomenclatureId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid nomenclature id format"))
		return
	}

	records, err := h.service.History(ctx, nomenclatureID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.PriceResponse, len(records))
	for i, record := range records {
		items[i] = dto.FromNomenclaturePrice(record)
	}

	c.JSON(http.StatusOK, items)
}
