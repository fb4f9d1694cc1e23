// Package mpsale provides the MarketplaceSale document repository.
package mpsale

import (
	"context"
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/domain"
)

// Repository defines operations for marketplace sale documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *MarketplaceSale) error
	GetByID(ctx context.Context, docID id.ID) (*MarketplaceSale, error)
	GetByNumber(ctx context.Context, connectionID id.ID, number string) (*MarketplaceSale, error)
	Update(ctx context.Context, doc *MarketplaceSale) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]MarketplaceSaleLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []MarketplaceSaleLine) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*MarketplaceSale], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*MarketplaceSale, error)
}

// ListFilter for filtering marketplace sales.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	ConnectionID *id.ID
	Marketplace  string
	StatusNorm   string
	Posted       *bool
	DateFrom     *time.Time
	DateTo       *time.Time
}
