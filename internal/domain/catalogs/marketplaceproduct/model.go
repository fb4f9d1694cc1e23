// Package marketplaceproduct provides the MarketplaceProduct catalog.
// It maps a marketplace listing (seller SKU, marketplace item id, barcode)
// on a specific connection to an internal nomenclature item.
package marketplaceproduct

import (
	"context"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
)

// MarketplaceProduct represents one listing in a seller cabinet.
type MarketplaceProduct struct {
	entity.Catalog

	// ConnectionID is the seller cabinet this listing belongs to
	ConnectionID id.ID `db:"connection_id" json:"connectionId"`

	// Marketplace is denormalized from the connection for query convenience
	Marketplace string `db:"marketplace" json:"marketplace"`

	// SellerSKU is the seller-assigned article (offer_id / supplier article)
	SellerSKU string `db:"seller_sku" json:"sellerSku"`

	// ItemID is the marketplace-assigned item identifier (nm_id / sku)
	ItemID string `db:"item_id" json:"itemId"`

	// Barcode of the listing, when the marketplace reports one
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// NomenclatureID links the listing to an internal item.
	// Nil means the listing has not been matched yet; posting degrades
	// gracefully and leaves the line without nomenclature enrichment.
	NomenclatureID *id.ID `db:"nomenclature_id" json:"nomenclatureId,omitempty"`
}

// NewMarketplaceProduct creates a new MarketplaceProduct with required fields.
func NewMarketplaceProduct(connectionID id.ID, marketplace, sellerSKU, itemID, title string) *MarketplaceProduct {
	return &MarketplaceProduct{
		Catalog:      entity.NewCatalog("", title),
		ConnectionID: connectionID,
		Marketplace:  marketplace,
		SellerSKU:    sellerSKU,
		ItemID:       itemID,
	}
}

// Validate implements entity.Validatable interface.
func (p *MarketplaceProduct) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.ConnectionID) {
		return apperror.NewValidation("connection is required").
			WithDetail("field", "connectionId")
	}

	if p.SellerSKU == "" && p.ItemID == "" {
		return apperror.NewValidation("either seller SKU or item id is required").
			WithDetail("field", "sellerSku")
	}

	return nil
}

// IsMatched returns true when the listing is linked to nomenclature.
func (p *MarketplaceProduct) IsMatched() bool {
	return p.NomenclatureID != nil && !id.IsNil(*p.NomenclatureID)
}
