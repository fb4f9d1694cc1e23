package entity

import (
	"context"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
)

// MarketplaceAware is a trait for documents that originate from a
// marketplace connection. Used for composition in models like
// MarketplaceSale and MarketplaceTransaction.
type MarketplaceAware struct {
	// ConnectionID is the marketplace connection the document was imported through
	ConnectionID id.ID `db:"connection_id" json:"connectionId"`

	// Marketplace is the marketplace code ("WB", "OZON", "YM", "LP")
	Marketplace string `db:"marketplace" json:"marketplace"`

	// RawPayloadRef points to the stored raw source payload, if any
	RawPayloadRef *string `db:"raw_payload_ref" json:"rawPayloadRef,omitempty"`
}

// ValidateMarketplace ensures the connection and marketplace are set.
func (m *MarketplaceAware) ValidateMarketplace(ctx context.Context) error {
	if id.IsNil(m.ConnectionID) {
		return apperror.NewValidation("connection is required").
			WithDetail("field", "connectionId")
	}
	if m.Marketplace == "" {
		return apperror.NewValidation("marketplace is required").
			WithDetail("field", "marketplace")
	}
	return nil
}

// GetConnectionID returns the connection ID (useful for interfaces).
func (m *MarketplaceAware) GetConnectionID() id.ID {
	return m.ConnectionID
}

// IMarketplaceAware is an interface for any document imported from a marketplace.
type IMarketplaceAware interface {
	GetConnectionID() id.ID
	ValidateMarketplace(ctx context.Context) error
}
