package dto

import (
	"mercatus/internal/core/id"
	"mercatus/internal/domain/catalogs/marketplaceproduct"
)

// CreateMarketplaceProductRequest is the DTO for registering a listing manually.
// Normally listings are created by importers via FindOrCreate.
type CreateMarketplaceProductRequest struct {
	ConnectionID   string  `json:"connectionId" binding:"required"`
	Marketplace    string  `json:"marketplace" binding:"required"`
	SellerSKU      string  `json:"sellerSku"`
	ItemID         string  `json:"itemId"`
	Title          string  `json:"title" binding:"required"`
	Barcode        *string `json:"barcode,omitempty"`
	NomenclatureID *string `json:"nomenclatureId,omitempty"`
}

func (r CreateMarketplaceProductRequest) ToEntity() *marketplaceproduct.MarketplaceProduct {
	connectionID, _ := id.Parse(r.ConnectionID)

	product := marketplaceproduct.NewMarketplaceProduct(connectionID, r.Marketplace, r.SellerSKU, r.ItemID, r.Title)
	if r.Barcode != nil && *r.Barcode != "" {
		product.Barcode = r.Barcode
	}
	if r.NomenclatureID != nil && *r.NomenclatureID != "" {
		if nomID, err := id.Parse(*r.NomenclatureID); err == nil {
			product.NomenclatureID = &nomID
		}
	}
	return product
}

// UpdateMarketplaceProductRequest is the DTO for updating a listing.
type UpdateMarketplaceProductRequest struct {
	Name           *string `json:"name,omitempty"`
	SellerSKU      *string `json:"sellerSku,omitempty"`
	ItemID         *string `json:"itemId,omitempty"`
	Barcode        *string `json:"barcode,omitempty"`
	NomenclatureID *string `json:"nomenclatureId,omitempty"`
	Version        int     `json:"version" binding:"required,min=1"`
}

func (r UpdateMarketplaceProductRequest) ApplyTo(product *marketplaceproduct.MarketplaceProduct) {
	if r.Name != nil {
		product.Name = *r.Name
	}
	if r.SellerSKU != nil {
		product.SellerSKU = *r.SellerSKU
	}
	if r.ItemID != nil {
		product.ItemID = *r.ItemID
	}
	if r.Barcode != nil {
		if *r.Barcode == "" {
			product.Barcode = nil
		} else {
			product.Barcode = r.Barcode
		}
	}
	if r.NomenclatureID != nil {
		if *r.NomenclatureID == "" {
			product.NomenclatureID = nil
		} else if nomID, err := id.Parse(*r.NomenclatureID); err == nil {
			product.NomenclatureID = &nomID
		}
	}
}

// MatchMarketplaceProductRequest links a listing to a nomenclature item.
type MatchMarketplaceProductRequest struct {
	NomenclatureID string `json:"nomenclatureId" binding:"required"`
}

// MarketplaceProductResponse is the DTO for returning listing data.
type MarketplaceProductResponse struct {
	CatalogResponse
	ConnectionID   string  `json:"connectionId"`
	Marketplace    string  `json:"marketplace"`
	SellerSKU      string  `json:"sellerSku"`
	ItemID         string  `json:"itemId"`
	Barcode        *string `json:"barcode,omitempty"`
	NomenclatureID *string `json:"nomenclatureId,omitempty"`
	Matched        bool    `json:"matched"`
}

func FromMarketplaceProduct(product *marketplaceproduct.MarketplaceProduct) MarketplaceProductResponse {
	resp := MarketplaceProductResponse{
		CatalogResponse: FromCatalog(product.Catalog),
		ConnectionID:    product.ConnectionID.String(),
		Marketplace:     product.Marketplace,
		SellerSKU:       product.SellerSKU,
		ItemID:          product.ItemID,
		Barcode:         product.Barcode,
		Matched:         product.IsMatched(),
	}
	if product.NomenclatureID != nil {
		nomID := product.NomenclatureID.String()
		resp.NomenclatureID = &nomID
	}
	return resp
}
