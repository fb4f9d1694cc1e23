// Package mptransaction provides the MarketplaceTransaction document.
// One document per financial operation from a marketplace settlement
// report: commissions, logistics, penalties, payouts, sale accruals.
// Posting matches the operation to its sale document and materializes the
// sales data projection.
package mptransaction

import (
	"context"
	"time"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain/posting"
)

// OperationType classifies a financial operation.
type OperationType string

const (
	OpSale       OperationType = "sale"       // accrual for a delivered item
	OpReturn     OperationType = "return"     // reversal for a returned item
	OpCommission OperationType = "commission" // marketplace commission
	OpAcquiring  OperationType = "acquiring"  // payment processing fee
	OpLogistics  OperationType = "logistics"  // delivery/storage services
	OpPenalty    OperationType = "penalty"    // fines
	OpServices   OperationType = "services"   // other seller services
)

// MarketplaceTransaction represents one financial operation.
type MarketplaceTransaction struct {
	entity.Document
	entity.MarketplaceAware

	// OperationType classifies the money flow
	OperationType OperationType `db:"operation_type" json:"operationType"`

	// OperationDate is when the operation was recorded by the marketplace
	OperationDate time.Time `db:"operation_date" json:"operationDate"`

	// PostingNumber is the fulfillment posting the operation refers to,
	// when the marketplace attributes it to one
	PostingNumber string `db:"posting_number" json:"postingNumber,omitempty"`

	// Amount is the operation amount. Positive amounts are credited to
	// the seller, negative amounts are charged.
	Amount types.Money `db:"amount" json:"amount"`

	// SellerSKU of the item the operation is attributed to, if any
	SellerSKU string `db:"seller_sku" json:"sellerSku,omitempty"`

	// SaleID/SaleType link to the matched sale document. Derived during
	// posting from PostingNumber and cleared on unpost: the link is a
	// posting artifact, not a business field.
	SaleID   *id.ID  `db:"sale_id" json:"saleId,omitempty"`
	SaleType *string `db:"sale_type" json:"saleType,omitempty"`
}

// NewMarketplaceTransaction creates a new transaction document.
func NewMarketplaceTransaction(connectionID id.ID, marketplace, number string, opType OperationType, opDate time.Time, amount types.Money) *MarketplaceTransaction {
	doc := &MarketplaceTransaction{
		Document: entity.NewDocument(),
		MarketplaceAware: entity.MarketplaceAware{
			ConnectionID: connectionID,
			Marketplace:  marketplace,
		},
		OperationType: opType,
		OperationDate: opDate,
		Amount:        amount,
	}
	doc.Number = number
	doc.Date = opDate
	return doc
}

// Validate implements entity.Validatable.
func (t *MarketplaceTransaction) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}
	if err := t.ValidateMarketplace(ctx); err != nil {
		return err
	}

	if !isValidOperationType(t.OperationType) {
		return apperror.NewValidation("invalid operation type").
			WithDetail("field", "operationType").
			WithDetail("value", string(t.OperationType))
	}

	if t.OperationDate.IsZero() {
		return apperror.NewValidation("operation date is required").
			WithDetail("field", "operationDate")
	}

	return nil
}

// ClearSaleLink drops the derived link to the matched sale document.
func (t *MarketplaceTransaction) ClearSaleLink() {
	t.SaleID = nil
	t.SaleType = nil
}

// --- Postable interface implementation ---

// GetDocumentType returns the document type name.
func (t *MarketplaceTransaction) GetDocumentType() string {
	return "MarketplaceTransaction"
}

// GenerateProjections builds one sales data row with the operation amount
// routed into the flow bucket matching its type.
func (t *MarketplaceTransaction) GenerateProjections(ctx context.Context) (*posting.ProjectionSet, error) {
	set := posting.NewProjectionSet()

	base := entity.NewProjectionBase(t.ID, t.GetDocumentType(), t.PostedVersion+1, "op-1")

	row := entity.SalesDataEntry{
		ProjectionBase: base,
		Date:           t.OperationDate,
		ConnectionID:   t.ConnectionID,
		DocumentNo:     t.Number,
		Article:        t.SellerSKU,
	}

	// Charges arrive as negative amounts; buckets store magnitudes and
	// Total keeps the signed flow.
	amount := t.Amount
	switch t.OperationType {
	case OpSale:
		row.CustomerIn = amount
	case OpReturn:
		row.CustomerOut = amount.Abs()
	case OpCommission:
		row.CommissionOut = amount.Abs()
	case OpAcquiring:
		row.AcquiringOut = amount.Abs()
	case OpLogistics:
		row.LogisticsOut = amount.Abs()
	case OpPenalty:
		row.PenaltyOut = amount.Abs()
	case OpServices:
		row.SellerOut = amount.Abs()
	}
	row.Total = amount

	set.AddSalesData(row)
	return set, nil
}

func isValidOperationType(t OperationType) bool {
	switch t {
	case OpSale, OpReturn, OpCommission, OpAcquiring, OpLogistics, OpPenalty, OpServices:
		return true
	}
	return false
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*MarketplaceTransaction)(nil)
