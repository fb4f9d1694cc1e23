// Package entity provides core domain entities.
package entity

import (
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
)

// ProjectionBase contains common fields for all projection rows.
// Projection rows are immutable and disposable - they are never updated,
// only deleted and recreated when the registrator document is posted.
type ProjectionBase struct {
	// RegistratorID is the document that produced this row
	RegistratorID id.ID `db:"registrator_id" json:"registratorId"`

	// RegistratorType is the document type (e.g., "MarketplaceSale")
	RegistratorType string `db:"registrator_type" json:"registratorType"`

	// RegistratorVersion tracks which posting iteration produced this row
	RegistratorVersion int `db:"registrator_version" json:"registratorVersion"`

	// LineID is the natural line key within the registrator. Together with
	// RegistratorID it forms the row's identity, so re-posting replaces
	// rows deterministically instead of accumulating duplicates.
	LineID string `db:"line_id" json:"lineId"`

	// CreatedAt is when the row was materialized
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewProjectionBase creates a projection base for a document line.
func NewProjectionBase(registratorID id.ID, registratorType string, registratorVersion int, lineID string) ProjectionBase {
	return ProjectionBase{
		RegistratorID:      registratorID,
		RegistratorType:    registratorType,
		RegistratorVersion: registratorVersion,
		LineID:             lineID,
		CreatedAt:          time.Now().UTC(),
	}
}

// SalesRegisterEntry is a row in the marketplace sales register projection.
// One row per sale line; reporting reads it directly instead of re-joining
// sale documents with master data.
type SalesRegisterEntry struct {
	ProjectionBase

	// Natural key components beyond the registrator
	Marketplace string `db:"marketplace" json:"marketplace"`
	DocumentNo  string `db:"document_no" json:"documentNo"`

	// Fulfillment scheme ("FBS", "FBO") when the marketplace distinguishes one
	Scheme *string `db:"scheme" json:"scheme,omitempty"`

	// Timestamps and status
	SaleDate     time.Time `db:"sale_date" json:"saleDate"`
	StatusSource string    `db:"status_source" json:"statusSource"`
	StatusNorm   string    `db:"status_norm" json:"statusNorm"`

	// Resolved references
	ConnectionID         id.ID  `db:"connection_id" json:"connectionId"`
	OrganizationID       *id.ID `db:"organization_id" json:"organizationId,omitempty"`
	MarketplaceProductID *id.ID `db:"marketplace_product_id" json:"marketplaceProductId,omitempty"`
	NomenclatureID       *id.ID `db:"nomenclature_id" json:"nomenclatureId,omitempty"`

	// Product identification
	SellerSKU string  `db:"seller_sku" json:"sellerSku"`
	ItemID    string  `db:"item_id" json:"itemId"`
	Barcode   *string `db:"barcode" json:"barcode,omitempty"`
	Title     string  `db:"title" json:"title"`

	// Quantities and money
	Qty            types.Quantity `db:"qty" json:"qty"`
	PriceList      types.Money    `db:"price_list" json:"priceList"`
	DiscountTotal  types.Money    `db:"discount_total" json:"discountTotal"`
	PriceEffective types.Money    `db:"price_effective" json:"priceEffective"`
	AmountLine     types.Money    `db:"amount_line" json:"amountLine"`
	DealerPrice    *types.Money   `db:"dealer_price" json:"dealerPrice,omitempty"`
	MarginPro      *types.Money   `db:"margin_pro" json:"marginPro,omitempty"`
	CurrencyCode   string         `db:"currency_code" json:"currencyCode"`
}

// SalesDataEntry is a row in the financial sales data projection.
// Aggregates money flows per document line or financial operation.
type SalesDataEntry struct {
	ProjectionBase

	// Dimensions
	Date                 time.Time `db:"date" json:"date"`
	ConnectionID         id.ID     `db:"connection_id" json:"connectionId"`
	NomenclatureID       *id.ID    `db:"nomenclature_id" json:"nomenclatureId,omitempty"`
	MarketplaceProductID *id.ID    `db:"marketplace_product_id" json:"marketplaceProductId,omitempty"`

	// Money flows (in = credited to seller, out = charged from seller)
	CustomerIn    types.Money `db:"customer_in" json:"customerIn"`
	CustomerOut   types.Money `db:"customer_out" json:"customerOut"`
	CommissionOut types.Money `db:"commission_out" json:"commissionOut"`
	AcquiringOut  types.Money `db:"acquiring_out" json:"acquiringOut"`
	PenaltyOut    types.Money `db:"penalty_out" json:"penaltyOut"`
	LogisticsOut  types.Money `db:"logistics_out" json:"logisticsOut"`
	SellerOut     types.Money `db:"seller_out" json:"sellerOut"`
	Total         types.Money `db:"total" json:"total"`

	// Cost is the dealer cost of the sold items when it could be resolved
	Cost *types.Money `db:"cost" json:"cost,omitempty"`

	// Info fields
	DocumentNo string `db:"document_no" json:"documentNo"`
	Article    string `db:"article" json:"article"`
}

// NomenclaturePrice is a dealer price history record.
// Fed by the ERP import; read by the resolver to find the dealer price
// effective at a given date.
type NomenclaturePrice struct {
	// Dimensions
	NomenclatureID id.ID     `db:"nomenclature_id" json:"nomenclatureId"`
	Period         time.Time `db:"period" json:"period"`

	// Resources
	Price types.Money `db:"price" json:"price"`

	// Source system that supplied the price ("ERP", "manual")
	Source string `db:"source" json:"source"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
