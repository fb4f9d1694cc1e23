package dto

import (
	"encoding/json"
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain/documents/mpsale"
)

// --- Request DTOs ---

// CreateMarketplaceSaleRequest represents a request to create a sale document.
type CreateMarketplaceSaleRequest struct {
	Number          string                       `json:"number" binding:"required"`
	ConnectionID    string                       `json:"connectionId" binding:"required"`
	Marketplace     string                       `json:"marketplace" binding:"required"`
	Scheme          *string                      `json:"scheme,omitempty"`
	SaleDate        time.Time                    `json:"saleDate" binding:"required"`
	StatusSource    string                       `json:"statusSource,omitempty"`
	StatusNorm      string                       `json:"statusNorm,omitempty"`
	CurrencyCode    string                       `json:"currencyCode,omitempty"`
	Comment         string                       `json:"comment,omitempty"`
	Lines           []MarketplaceSaleLineRequest `json:"lines" binding:"required,min=1,dive"`
	PostImmediately bool                         `json:"postImmediately,omitempty"`

	// RawPayload is the original marketplace API response, archived verbatim
	// so disputed numbers can be traced back to the source.
	RawPayload json.RawMessage `json:"rawPayload,omitempty"`
}

// MarketplaceSaleLineRequest represents a line in create/update request.
type MarketplaceSaleLineRequest struct {
	SellerSKU     string      `json:"sellerSku"`
	ItemID        string      `json:"itemId"`
	Barcode       *string     `json:"barcode,omitempty"`
	Title         string      `json:"title"`
	Qty           float64     `json:"qty" binding:"required,gt=0"`
	PriceList     types.Money `json:"priceList"`
	DiscountTotal types.Money `json:"discountTotal"`
}

// ToEntity converts request to domain entity.
func (r *CreateMarketplaceSaleRequest) ToEntity() *mpsale.MarketplaceSale {
	connectionID, _ := id.Parse(r.ConnectionID)

	doc := mpsale.NewMarketplaceSale(connectionID, r.Marketplace, r.Number, r.SaleDate)
	doc.Scheme = r.Scheme
	doc.StatusSource = r.StatusSource
	doc.Comment = r.Comment
	if r.StatusNorm != "" {
		doc.StatusNorm = r.StatusNorm
	}
	if r.CurrencyCode != "" {
		doc.CurrencyCode = r.CurrencyCode
	}

	for _, line := range r.Lines {
		doc.AddLine(line.SellerSKU, line.ItemID, line.Title,
			types.NewQuantityFromFloat64(line.Qty), line.PriceList, line.DiscountTotal)
		if line.Barcode != nil && *line.Barcode != "" {
			doc.Lines[len(doc.Lines)-1].Barcode = line.Barcode
		}
	}

	return doc
}

// UpdateMarketplaceSaleRequest represents a request to update a sale document.
type UpdateMarketplaceSaleRequest struct {
	Number       *string                      `json:"number,omitempty"`
	Date         *time.Time                   `json:"date,omitempty"`
	Scheme       *string                      `json:"scheme,omitempty"`
	SaleDate     *time.Time                   `json:"saleDate,omitempty"`
	StatusSource *string                      `json:"statusSource,omitempty"`
	StatusNorm   *string                      `json:"statusNorm,omitempty"`
	CurrencyCode *string                      `json:"currencyCode,omitempty"`
	Comment      *string                      `json:"comment,omitempty"`
	Lines        []MarketplaceSaleLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateMarketplaceSaleRequest) ApplyTo(doc *mpsale.MarketplaceSale) {
	if r.Number != nil {
		doc.Number = *r.Number
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Scheme != nil {
		if *r.Scheme == "" {
			doc.Scheme = nil
		} else {
			doc.Scheme = r.Scheme
		}
	}
	if r.SaleDate != nil {
		doc.SaleDate = *r.SaleDate
	}
	if r.StatusSource != nil {
		doc.StatusSource = *r.StatusSource
	}
	if r.StatusNorm != nil {
		doc.StatusNorm = *r.StatusNorm
	}
	if r.CurrencyCode != nil {
		doc.CurrencyCode = *r.CurrencyCode
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	// If lines are provided, rebuild them. Derived fields are recomputed
	// on the next posting anyway.
	if r.Lines != nil {
		doc.Lines = make([]mpsale.MarketplaceSaleLine, 0, len(r.Lines))
		for _, line := range r.Lines {
			doc.AddLine(line.SellerSKU, line.ItemID, line.Title,
				types.NewQuantityFromFloat64(line.Qty), line.PriceList, line.DiscountTotal)
			if line.Barcode != nil && *line.Barcode != "" {
				doc.Lines[len(doc.Lines)-1].Barcode = line.Barcode
			}
		}
	}
}

// --- Response DTOs ---

// MarketplaceSaleResponse represents a sale document in API responses.
type MarketplaceSaleResponse struct {
	DocumentResponse
	ConnectionID  string                        `json:"connectionId"`
	Marketplace   string                        `json:"marketplace"`
	RawPayloadRef *string                       `json:"rawPayloadRef,omitempty"`
	Scheme        *string                       `json:"scheme,omitempty"`
	SaleDate      time.Time                     `json:"saleDate"`
	StatusSource  string                        `json:"statusSource"`
	StatusNorm    string                        `json:"statusNorm"`
	CurrencyCode  string                        `json:"currencyCode"`

	HasUnmatchedLines bool        `json:"hasUnmatchedLines"`
	TotalDealerAmount types.Money `json:"totalDealerAmount"`
	TotalMargin       types.Money `json:"totalMargin"`

	Lines []MarketplaceSaleLineResponse `json:"lines,omitempty"`
}

// MarketplaceSaleLineResponse represents a line in API responses.
type MarketplaceSaleLineResponse struct {
	LineID               string       `json:"lineId"`
	LineNo               int          `json:"lineNo"`
	SellerSKU            string       `json:"sellerSku"`
	ItemID               string       `json:"itemId"`
	Barcode              *string      `json:"barcode,omitempty"`
	Title                string       `json:"title"`
	Qty                  float64      `json:"qty"`
	PriceList            types.Money  `json:"priceList"`
	DiscountTotal        types.Money  `json:"discountTotal"`
	PriceEffective       types.Money  `json:"priceEffective"`
	AmountLine           types.Money  `json:"amountLine"`
	MarketplaceProductID *string      `json:"marketplaceProductId,omitempty"`
	NomenclatureID       *string      `json:"nomenclatureId,omitempty"`
	DealerPrice          *types.Money `json:"dealerPrice,omitempty"`
	MarginPro            *types.Money `json:"marginPro,omitempty"`
}

// FromMarketplaceSale creates response from domain entity.
func FromMarketplaceSale(doc *mpsale.MarketplaceSale) MarketplaceSaleResponse {
	resp := MarketplaceSaleResponse{
		DocumentResponse: FromDocument(doc.Document),
		ConnectionID:     doc.ConnectionID.String(),
		Marketplace:      doc.Marketplace,
		RawPayloadRef:    doc.RawPayloadRef,
		Scheme:           doc.Scheme,
		SaleDate:         doc.SaleDate,
		StatusSource:     doc.StatusSource,
		StatusNorm:       doc.StatusNorm,
		CurrencyCode:     doc.CurrencyCode,

		HasUnmatchedLines: doc.HasUnmatchedLines,
		TotalDealerAmount: doc.TotalDealerAmount,
		TotalMargin:       doc.TotalMargin,

		Lines: make([]MarketplaceSaleLineResponse, 0, len(doc.Lines)),
	}

	for _, line := range doc.Lines {
		lineResp := MarketplaceSaleLineResponse{
			LineID:         line.LineID.String(),
			LineNo:         line.LineNo,
			SellerSKU:      line.SellerSKU,
			ItemID:         line.ItemID,
			Barcode:        line.Barcode,
			Title:          line.Title,
			Qty:            line.Qty.Float64(),
			PriceList:      line.PriceList,
			DiscountTotal:  line.DiscountTotal,
			PriceEffective: line.PriceEffective,
			AmountLine:     line.AmountLine,
			DealerPrice:    line.DealerPrice,
			MarginPro:      line.MarginPro,
		}
		if line.MarketplaceProductID != nil {
			productID := line.MarketplaceProductID.String()
			lineResp.MarketplaceProductID = &productID
		}
		if line.NomenclatureID != nil {
			nomID := line.NomenclatureID.String()
			lineResp.NomenclatureID = &nomID
		}
		resp.Lines = append(resp.Lines, lineResp)
	}

	return resp
}
