// Package mpsale provides the MarketplaceSale document.
// One document per marketplace order/sale as reported by the source API;
// posting resolves its references, computes margins and materializes the
// sales register and sales data projections.
package mpsale

import (
	"context"
	"time"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain/enrich"
	"mercatus/internal/domain/posting"
)

// Normalized sale statuses. StatusSource keeps whatever the marketplace
// reported; StatusNorm is what reporting filters on.
const (
	StatusNew       = "new"
	StatusInTransit = "in_transit"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
	StatusReturned  = "returned"
)

// MarketplaceSale represents a sale/order document imported from a marketplace.
type MarketplaceSale struct {
	entity.Document
	entity.MarketplaceAware

	// Scheme is the fulfillment scheme (FBS, FBO) when reported
	Scheme *string `db:"scheme" json:"scheme,omitempty"`

	// SaleDate is when the sale happened on the marketplace side.
	// Distinct from Date, which is the accounting date.
	SaleDate time.Time `db:"sale_date" json:"saleDate"`

	// StatusSource is the raw marketplace status string
	StatusSource string `db:"status_source" json:"statusSource"`

	// StatusNorm is the normalized status (see constants above)
	StatusNorm string `db:"status_norm" json:"statusNorm"`

	// CurrencyCode is the ISO currency of all money fields
	CurrencyCode string `db:"currency_code" json:"currencyCode"`

	// HasUnmatchedLines is raised at posting time when at least one line
	// could not be matched to nomenclature. Reporting filters on it to
	// find sales posted in degraded mode.
	HasUnmatchedLines bool `db:"has_unmatched_lines" json:"hasUnmatchedLines"`

	// Document totals, recomputed on every posting. Lines without a
	// dealer price contribute nothing to either total.
	TotalDealerAmount types.Money `db:"total_dealer_amount" json:"totalDealerAmount"`
	TotalMargin       types.Money `db:"total_margin" json:"totalMargin"`

	// Table part: sold items
	Lines []MarketplaceSaleLine `db:"-" json:"lines"`
}

// MarketplaceSaleLine represents one sold item.
type MarketplaceSaleLine struct {
	// Line identification
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// Source identifiers as reported by the marketplace
	SellerSKU string  `db:"seller_sku" json:"sellerSku"`
	ItemID    string  `db:"item_id" json:"itemId"`
	Barcode   *string `db:"barcode" json:"barcode,omitempty"`
	Title     string  `db:"title" json:"title"`

	// Quantity and source money
	Qty           types.Quantity `db:"qty" json:"qty"`
	PriceList     types.Money    `db:"price_list" json:"priceList"`
	DiscountTotal types.Money    `db:"discount_total" json:"discountTotal"`

	// Derived at posting time by the resolver and enrichment calculator.
	// Re-computed on every posting so master-data corrections propagate.
	PriceEffective       types.Money  `db:"price_effective" json:"priceEffective"`
	AmountLine           types.Money  `db:"amount_line" json:"amountLine"`
	MarketplaceProductID *id.ID       `db:"marketplace_product_id" json:"marketplaceProductId,omitempty"`
	NomenclatureID       *id.ID       `db:"nomenclature_id" json:"nomenclatureId,omitempty"`
	DealerPrice          *types.Money `db:"dealer_price" json:"dealerPrice,omitempty"`
	MarginPro            *types.Money `db:"margin_pro" json:"marginPro,omitempty"`
}

// NewMarketplaceSale creates a new sale document for a connection.
func NewMarketplaceSale(connectionID id.ID, marketplace, number string, saleDate time.Time) *MarketplaceSale {
	doc := &MarketplaceSale{
		Document: entity.NewDocument(),
		MarketplaceAware: entity.MarketplaceAware{
			ConnectionID: connectionID,
			Marketplace:  marketplace,
		},
		SaleDate:     saleDate,
		StatusNorm:   StatusNew,
		CurrencyCode: "RUB",
		Lines:        make([]MarketplaceSaleLine, 0),
	}
	doc.Number = number
	doc.Date = saleDate
	return doc
}

// AddLine appends a sold item.
func (s *MarketplaceSale) AddLine(sellerSKU, itemID, title string, qty types.Quantity, priceList, discountTotal types.Money) {
	s.Lines = append(s.Lines, MarketplaceSaleLine{
		LineID:        id.New(),
		LineNo:        len(s.Lines) + 1,
		SellerSKU:     sellerSKU,
		ItemID:        itemID,
		Title:         title,
		Qty:           qty,
		PriceList:     priceList,
		DiscountTotal: discountTotal,
	})
}

// Validate implements entity.Validatable.
func (s *MarketplaceSale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}
	if err := s.ValidateMarketplace(ctx); err != nil {
		return err
	}

	if s.SaleDate.IsZero() {
		return apperror.NewValidation("sale date is required").
			WithDetail("field", "saleDate")
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
		if line.SellerSKU == "" && line.ItemID == "" {
			return apperror.NewValidation("line needs a seller SKU or item id").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Qty.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.PriceList.IsNegative() {
			return apperror.NewValidation("list price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- Postable interface implementation ---
// GetID, GetPostedVersion, IsPosted, IsDeleted, CanPost are inherited
// from entity.Document.

// GetDocumentType returns the document type name.
func (s *MarketplaceSale) GetDocumentType() string {
	return "MarketplaceSale"
}

// GenerateProjections builds sales register and sales data rows from the
// current (already resolved and enriched) document state. One row per line
// in each target; unresolved lines still produce register rows with nil
// nomenclature so reporting sees the full sale.
func (s *MarketplaceSale) GenerateProjections(ctx context.Context) (*posting.ProjectionSet, error) {
	set := posting.NewProjectionSet()

	newVersion := s.PostedVersion + 1

	for _, line := range s.Lines {
		base := entity.NewProjectionBase(s.ID, s.GetDocumentType(), newVersion, line.LineID.String())

		set.AddSalesRegister(entity.SalesRegisterEntry{
			ProjectionBase:       base,
			Marketplace:          s.Marketplace,
			DocumentNo:           s.Number,
			Scheme:               s.Scheme,
			SaleDate:             s.SaleDate,
			StatusSource:         s.StatusSource,
			StatusNorm:           s.StatusNorm,
			ConnectionID:         s.ConnectionID,
			OrganizationID:       s.OrganizationID,
			MarketplaceProductID: line.MarketplaceProductID,
			NomenclatureID:       line.NomenclatureID,
			SellerSKU:            line.SellerSKU,
			ItemID:               line.ItemID,
			Barcode:              line.Barcode,
			Title:                line.Title,
			Qty:                  line.Qty,
			PriceList:            line.PriceList,
			DiscountTotal:        line.DiscountTotal,
			PriceEffective:       line.PriceEffective,
			AmountLine:           line.AmountLine,
			DealerPrice:          line.DealerPrice,
			MarginPro:            line.MarginPro,
			CurrencyCode:         s.CurrencyCode,
		})

		// Sales data from the sale itself carries the customer-side flow;
		// commission/logistics/penalty flows arrive later via financial
		// transaction documents.
		cost := enrich.DealerAmount(line.DealerPrice, line.Qty)

		set.AddSalesData(entity.SalesDataEntry{
			ProjectionBase:       base,
			Date:                 s.SaleDate,
			ConnectionID:         s.ConnectionID,
			NomenclatureID:       line.NomenclatureID,
			MarketplaceProductID: line.MarketplaceProductID,
			CustomerIn:           line.AmountLine,
			Total:                line.AmountLine,
			Cost:                 cost,
			DocumentNo:           s.Number,
			Article:              line.SellerSKU,
		})
	}

	return set, nil
}

// TotalAmount sums line amounts.
func (s *MarketplaceSale) TotalAmount() types.Money {
	total := types.Zero()
	for _, line := range s.Lines {
		total = total.Add(line.AmountLine)
	}
	return total
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*MarketplaceSale)(nil)
