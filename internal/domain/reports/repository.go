package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// Projection reports
	GetSalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummaryReport, error)
	GetFinancialSummary(ctx context.Context, filter FinancialSummaryFilter) (*FinancialSummaryReport, error)

	// Document journal
	GetDocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error)
	GetDocumentTypeSummary(ctx context.Context, filter DocumentJournalFilter) ([]DocumentTypeSummary, error)
}
