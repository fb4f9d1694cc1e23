// Package mptransaction provides the MarketplaceTransaction repository.
package mptransaction

import (
	"context"
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/domain"
)

// Repository defines operations for marketplace transaction documents.
type Repository interface {
	Create(ctx context.Context, doc *MarketplaceTransaction) error
	GetByID(ctx context.Context, docID id.ID) (*MarketplaceTransaction, error)
	Update(ctx context.Context, doc *MarketplaceTransaction) error
	Delete(ctx context.Context, docID id.ID) error

	// FindByPostingNumber retrieves all operations attributed to a
	// fulfillment posting within a connection.
	FindByPostingNumber(ctx context.Context, connectionID id.ID, postingNumber string) ([]*MarketplaceTransaction, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*MarketplaceTransaction], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*MarketplaceTransaction, error)
}

// ListFilter for filtering marketplace transactions.
type ListFilter struct {
	domain.ListFilter

	ConnectionID  *id.ID
	Marketplace   string
	OperationType OperationType
	Posted        *bool
	DateFrom      *time.Time
	DateTo        *time.Time
}
