package connection

import (
	"context"

	"mercatus/internal/domain"
)

// Repository defines the interface for Connection persistence.
type Repository interface {
	domain.CatalogRepository[*Connection]

	// FindByMarketplace retrieves active connections for a marketplace.
	FindByMarketplace(ctx context.Context, marketplace string) ([]*Connection, error)
}
