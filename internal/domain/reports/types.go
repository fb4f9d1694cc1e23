// Package reports provides report generation services over the
// materialized sales projections.
package reports

import (
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
)

// --- Sales Summary Report ---

// SalesSummaryFilter defines filter for the per-item sales summary.
type SalesSummaryFilter struct {
	// Period (required)
	FromDate time.Time
	ToDate   time.Time

	// Filters
	Marketplace     string
	ConnectionIDs   []id.ID
	NomenclatureIDs []id.ID

	// IncludeCancelled keeps cancelled and returned sales in the rows
	IncludeCancelled bool

	// Grouping
	GroupByMarketplace bool

	// Pagination
	Limit  int
	Offset int
}

// SalesSummaryItem is one row of the sales summary. Lines without a
// matched nomenclature are grouped by seller SKU instead.
type SalesSummaryItem struct {
	NomenclatureID   *id.ID      `json:"nomenclatureId,omitempty"`
	NomenclatureName string      `json:"nomenclatureName"`
	Article          string      `json:"article"`
	Marketplace      string      `json:"marketplace,omitempty"`
	Quantity         float64     `json:"quantity"`
	SalesAmount      types.Money `json:"salesAmount"`
	DealerAmount     types.Money `json:"dealerAmount"`
	Margin           types.Money `json:"margin"`
}

// SalesSummaryReport is the full sales summary.
type SalesSummaryReport struct {
	FromDate   time.Time          `json:"fromDate"`
	ToDate     time.Time          `json:"toDate"`
	Items      []SalesSummaryItem `json:"items"`
	TotalItems int                `json:"totalItems"`

	// Summary
	TotalQuantity float64     `json:"totalQuantity"`
	TotalAmount   types.Money `json:"totalAmount"`
	TotalMargin   types.Money `json:"totalMargin"`
}

// --- Financial Summary Report ---

// FinancialSummaryFilter defines filter for the per-connection money flow
// summary.
type FinancialSummaryFilter struct {
	// Period (required)
	FromDate time.Time
	ToDate   time.Time

	// Filters
	Marketplace   string
	ConnectionIDs []id.ID
}

// FinancialSummaryItem aggregates the money flow buckets of one connection.
type FinancialSummaryItem struct {
	ConnectionID   id.ID  `json:"connectionId"`
	ConnectionName string `json:"connectionName"`
	Marketplace    string `json:"marketplace"`

	CustomerIn    types.Money `json:"customerIn"`
	CustomerOut   types.Money `json:"customerOut"`
	CommissionOut types.Money `json:"commissionOut"`
	AcquiringOut  types.Money `json:"acquiringOut"`
	PenaltyOut    types.Money `json:"penaltyOut"`
	LogisticsOut  types.Money `json:"logisticsOut"`
	SellerOut     types.Money `json:"sellerOut"`

	// Payout is the signed sum over all operations
	Payout types.Money `json:"payout"`
	Cost   types.Money `json:"cost"`
}

// FinancialSummaryReport is the full financial summary.
type FinancialSummaryReport struct {
	FromDate   time.Time              `json:"fromDate"`
	ToDate     time.Time              `json:"toDate"`
	Items      []FinancialSummaryItem `json:"items"`
	TotalItems int                    `json:"totalItems"`

	TotalPayout types.Money `json:"totalPayout"`
}

// --- Document Journal ---

// DocumentJournalFilter defines filter for the document journal.
type DocumentJournalFilter struct {
	// Period
	FromDate *time.Time
	ToDate   *time.Time

	// Document types filter
	DocumentTypes []string

	// Status filter
	Posted *bool

	// Search by number
	NumberContains string

	// Filter by connection
	ConnectionIDs []id.ID

	// Sorting
	SortBy    string // "date", "number", "amount"
	SortOrder string // "asc", "desc"

	// Pagination
	Limit  int
	Offset int
}

// DocumentJournalItem represents a document in the journal.
type DocumentJournalItem struct {
	ID           id.ID     `json:"id"`
	DocumentType string    `json:"documentType"`
	Number       string    `json:"number"`
	Date         time.Time `json:"date"`
	Posted       bool      `json:"posted"`

	Marketplace  string `json:"marketplace,omitempty"`
	ConnectionID *id.ID `json:"connectionId,omitempty"`

	TotalAmount types.Money `json:"totalAmount"`

	Comment      string    `json:"comment,omitempty"`
	DeletionMark bool      `json:"deletionMark"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DocumentJournal represents the document journal result.
type DocumentJournal struct {
	Items      []DocumentJournalItem `json:"items"`
	TotalCount int                   `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`

	// Summary by document type
	Summary []DocumentTypeSummary `json:"summary,omitempty"`
}

// DocumentTypeSummary provides count and totals by document type.
type DocumentTypeSummary struct {
	DocumentType string      `json:"documentType"`
	Count        int         `json:"count"`
	PostedCount  int         `json:"postedCount"`
	TotalAmount  types.Money `json:"totalAmount"`
}
