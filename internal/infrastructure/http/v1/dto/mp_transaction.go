package dto

import (
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain/documents/mptransaction"
)

// CreateMarketplaceTransactionRequest represents a request to create a
// financial operation document.
type CreateMarketplaceTransactionRequest struct {
	Number          string      `json:"number" binding:"required"`
	ConnectionID    string      `json:"connectionId" binding:"required"`
	Marketplace     string      `json:"marketplace" binding:"required"`
	OperationType   string      `json:"operationType" binding:"required"`
	OperationDate   time.Time   `json:"operationDate" binding:"required"`
	PostingNumber   string      `json:"postingNumber,omitempty"`
	Amount          types.Money `json:"amount"`
	SellerSKU       string      `json:"sellerSku,omitempty"`
	Comment         string      `json:"comment,omitempty"`
	PostImmediately bool        `json:"postImmediately,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateMarketplaceTransactionRequest) ToEntity() *mptransaction.MarketplaceTransaction {
	connectionID, _ := id.Parse(r.ConnectionID)

	doc := mptransaction.NewMarketplaceTransaction(connectionID, r.Marketplace, r.Number,
		mptransaction.OperationType(r.OperationType), r.OperationDate, r.Amount)
	doc.PostingNumber = r.PostingNumber
	doc.SellerSKU = r.SellerSKU
	doc.Comment = r.Comment
	return doc
}

// UpdateMarketplaceTransactionRequest represents a request to update a
// financial operation document.
type UpdateMarketplaceTransactionRequest struct {
	Number        *string      `json:"number,omitempty"`
	Date          *time.Time   `json:"date,omitempty"`
	OperationType *string      `json:"operationType,omitempty"`
	OperationDate *time.Time   `json:"operationDate,omitempty"`
	PostingNumber *string      `json:"postingNumber,omitempty"`
	Amount        *types.Money `json:"amount,omitempty"`
	SellerSKU     *string      `json:"sellerSku,omitempty"`
	Comment       *string      `json:"comment,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateMarketplaceTransactionRequest) ApplyTo(doc *mptransaction.MarketplaceTransaction) {
	if r.Number != nil {
		doc.Number = *r.Number
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.OperationType != nil {
		doc.OperationType = mptransaction.OperationType(*r.OperationType)
	}
	if r.OperationDate != nil {
		doc.OperationDate = *r.OperationDate
	}
	if r.PostingNumber != nil {
		doc.PostingNumber = *r.PostingNumber
	}
	if r.Amount != nil {
		doc.Amount = *r.Amount
	}
	if r.SellerSKU != nil {
		doc.SellerSKU = *r.SellerSKU
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
}

// MarketplaceTransactionResponse represents a financial operation in API responses.
type MarketplaceTransactionResponse struct {
	DocumentResponse
	ConnectionID  string      `json:"connectionId"`
	Marketplace   string      `json:"marketplace"`
	RawPayloadRef *string     `json:"rawPayloadRef,omitempty"`
	OperationType string      `json:"operationType"`
	OperationDate time.Time   `json:"operationDate"`
	PostingNumber string      `json:"postingNumber,omitempty"`
	Amount        types.Money `json:"amount"`
	SellerSKU     string      `json:"sellerSku,omitempty"`
	SaleID        *string     `json:"saleId,omitempty"`
	SaleType      *string     `json:"saleType,omitempty"`
}

// FromMarketplaceTransaction creates response from domain entity.
func FromMarketplaceTransaction(doc *mptransaction.MarketplaceTransaction) MarketplaceTransactionResponse {
	resp := MarketplaceTransactionResponse{
		DocumentResponse: FromDocument(doc.Document),
		ConnectionID:     doc.ConnectionID.String(),
		Marketplace:      doc.Marketplace,
		RawPayloadRef:    doc.RawPayloadRef,
		OperationType:    string(doc.OperationType),
		OperationDate:    doc.OperationDate,
		PostingNumber:    doc.PostingNumber,
		Amount:           doc.Amount,
		SellerSKU:        doc.SellerSKU,
		SaleType:         doc.SaleType,
	}
	if doc.SaleID != nil {
		saleID := doc.SaleID.String()
		resp.SaleID = &saleID
	}
	return resp
}
