package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/reports"
)

// ReportsHandler exposes aggregated reports over the projections and the
// document journal.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers report endpoints on the group.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales-summary", h.SalesSummary)
	rg.GET("/financial-summary", h.FinancialSummary)
	rg.GET("/journal", h.Journal)
}

// SalesSummary handles GET /reports/sales-summary
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	ctx := c.Request.Context()

	fromDate, toDate, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	filter := reports.SalesSummaryFilter{
		FromDate:           fromDate,
		ToDate:             toDate,
		Marketplace:        c.Query("marketplace"),
		IncludeCancelled:   c.Query("includeCancelled") == "true",
		GroupByMarketplace: c.Query("groupByMarketplace") == "true",
		Limit:              h.ParseIntQuery(c, "limit", 100),
		Offset:             h.ParseIntQuery(c, "offset", 0),
	}

	var ok2 bool
	if filter.ConnectionIDs, ok2 = h.parseIDList(c, "connectionIds"); !ok2 {
		return
	}
	if filter.NomenclatureIDs, ok2 = h.parseIDList(c, "nomenclatureIds"); !ok2 {
		return
	}

	report, err := h.service.GetSalesSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// FinancialSummary handles GET /reports/financial-summary
func (h *ReportsHandler) FinancialSummary(c *gin.Context) {
	ctx := c.Request.Context()

	fromDate, toDate, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	filter := reports.FinancialSummaryFilter{
		FromDate:    fromDate,
		ToDate:      toDate,
		Marketplace: c.Query("marketplace"),
	}

	var ok2 bool
	if filter.ConnectionIDs, ok2 = h.parseIDList(c, "connectionIds"); !ok2 {
		return
	}

	report, err := h.service.GetFinancialSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Journal handles GET /reports/journal
func (h *ReportsHandler) Journal(c *gin.Context) {
	ctx := c.Request.Context()

	filter := reports.DocumentJournalFilter{
		NumberContains: c.Query("number"),
		SortBy:         c.Query("sortBy"),
		SortOrder:      c.Query("sortOrder"),
		Limit:          h.ParseIntQuery(c, "limit", 50),
		Offset:         h.ParseIntQuery(c, "offset", 0),
	}

	if docTypes := c.Query("documentTypes"); docTypes != "" {
		filter.DocumentTypes = strings.Split(docTypes, ",")
	}
	if posted := c.Query("posted"); posted != "" {
		value := posted == "true"
		filter.Posted = &value
	}
	if fromDate := c.Query("dateFrom"); fromDate != "" {
		parsed, err := parseReportDate(fromDate)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom format"))
			return
		}
		filter.FromDate = &parsed
	}
	if toDate := c.Query("dateTo"); toDate != "" {
		parsed, err := parseReportDate(toDate)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo format"))
			return
		}
		filter.ToDate = &parsed
	}

	var ok bool
	if filter.ConnectionIDs, ok = h.parseIDList(c, "connectionIds"); !ok {
		return
	}

	journal, err := h.service.GetDocumentJournal(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, journal)
}

// parsePeriod reads the required dateFrom/dateTo query parameters.
func (h *ReportsHandler) parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	fromDate, err := parseReportDate(c.Query("dateFrom"))
	if err != nil {
		h.Error(c, apperror.NewValidation("dateFrom is required (RFC 3339 or YYYY-MM-DD)"))
		return time.Time{}, time.Time{}, false
	}

	toDate, err := parseReportDate(c.Query("dateTo"))
	if err != nil {
		h.Error(c, apperror.NewValidation("dateTo is required (RFC 3339 or YYYY-MM-DD)"))
		return time.Time{}, time.Time{}, false
	}

	return fromDate, toDate, true
}

// parseIDList reads a comma-separated list of IDs from a query parameter.
func (h *ReportsHandler) parseIDList(c *gin.Context, key string) ([]id.ID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}

	parts := strings.Split(raw, ",")
	ids := make([]id.ID, 0, len(parts))
	for _, part := range parts {
		parsed, err := id.Parse(strings.TrimSpace(part))
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id in "+key))
			return nil, false
		}
		ids = append(ids, parsed)
	}

	return ids, true
}

func parseReportDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
