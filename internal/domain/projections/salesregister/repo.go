// Package salesregister provides the marketplace sales register projection.
// Rows are derived from posted sale documents and consumed by reporting;
// they are replaced wholesale whenever the owning document is re-posted.
package salesregister

import (
	"context"
	"time"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
)

// ListFilter filters sales register queries.
type ListFilter struct {
	ConnectionID *id.ID
	Marketplace  string
	DateFrom     *time.Time
	DateTo       *time.Time
	StatusNorm   string

	OrderBy string
	Limit   int
	Offset  int
}

// Repository defines persistence for sales register rows.
// Write methods expect to run inside the posting transaction.
type Repository interface {
	// InsertRows bulk-inserts projection rows.
	InsertRows(ctx context.Context, rows []entity.SalesRegisterEntry) error

	// DeleteByRegistrator removes all rows produced by a document.
	DeleteByRegistrator(ctx context.Context, registratorID id.ID) error

	// GetByRegistrator retrieves all rows produced by a document.
	GetByRegistrator(ctx context.Context, registratorID id.ID) ([]entity.SalesRegisterEntry, error)

	// List retrieves rows for reporting.
	List(ctx context.Context, filter ListFilter) ([]entity.SalesRegisterEntry, error)
}
