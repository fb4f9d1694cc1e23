package marketplaceproduct

import (
	"context"

	"mercatus/internal/core/id"
	"mercatus/internal/domain"
)

// Repository defines the interface for MarketplaceProduct persistence.
type Repository interface {
	domain.CatalogRepository[*MarketplaceProduct]

	// FindBySellerSKU retrieves a listing by seller SKU within a connection.
	FindBySellerSKU(ctx context.Context, connectionID id.ID, sellerSKU string) (*MarketplaceProduct, error)

	// FindByItemID retrieves a listing by marketplace item id within a connection.
	FindByItemID(ctx context.Context, connectionID id.ID, itemID string) (*MarketplaceProduct, error)

	// FindUnmatched retrieves listings without a nomenclature link.
	FindUnmatched(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*MarketplaceProduct], error)
}
