package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/infrastructure/http/v1/dto"
	"mercatus/internal/infrastructure/storage/postgres"
)

// allowed entity types for history lookups, keyed by URL segment.
var auditEntityTypes = map[string]string{
	"mp-sale":        "doc_mp_sales",
	"mp-transaction": "doc_mp_transactions",
	"organization":   "cat_organizations",
	"connection":     "cat_connections",
	"nomenclature":   "cat_nomenclature",
}

// AuditHandler exposes entity change history.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		audit:       audit,
	}
}

// History handles GET /audit/:entityType/:id - change history of one entity.
func (h *AuditHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	entityType, ok := auditEntityTypes[c.Param("entityType")]
	if !ok {
		h.Error(c, apperror.NewValidation("unknown entity type"))
		return
	}

	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			h.Error(c, apperror.NewValidation("limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	entries, err := h.audit.GetEntityHistory(ctx, entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.AuditEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = dto.FromAuditEntry(entry)
	}

	c.JSON(http.StatusOK, items)
}
