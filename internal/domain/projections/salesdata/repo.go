// Package salesdata provides the financial sales data projection.
// Rows aggregate seller money flows (payouts, commissions, logistics,
// penalties) per document line and are consumed by P&L reporting.
package salesdata

import (
	"context"
	"time"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
)

// ListFilter filters sales data queries.
type ListFilter struct {
	ConnectionID   *id.ID
	NomenclatureID *id.ID
	DateFrom       *time.Time
	DateTo         *time.Time

	OrderBy string
	Limit   int
	Offset  int
}

// Repository defines persistence for sales data rows.
// Write methods expect to run inside the posting transaction.
type Repository interface {
	// InsertRows bulk-inserts projection rows.
	InsertRows(ctx context.Context, rows []entity.SalesDataEntry) error

	// DeleteByRegistrator removes all rows produced by a document.
	DeleteByRegistrator(ctx context.Context, registratorID id.ID) error

	// GetByRegistrator retrieves all rows produced by a document.
	GetByRegistrator(ctx context.Context, registratorID id.ID) ([]entity.SalesDataEntry, error)

	// List retrieves rows for reporting.
	List(ctx context.Context, filter ListFilter) ([]entity.SalesDataEntry, error)
}
