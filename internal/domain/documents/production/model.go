// Package production provides the ProductionOutput document.
// Records finished goods produced in-house; posting fixes the unit cost
// used later as a dealer-price fallback for own products.
package production

import (
	"context"
	"time"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain/posting"
)

// ProductionOutput represents a batch of produced goods.
type ProductionOutput struct {
	entity.Document

	// NomenclatureID is the produced item. May be empty on import when
	// only an article is known; posting then resolves the article.
	NomenclatureID id.ID `db:"nomenclature_id" json:"nomenclatureId"`

	// Article is the free-text item article reported by the ERP import.
	Article *string `db:"article" json:"article,omitempty"`

	// Count is how many units were produced
	Count types.Quantity `db:"count" json:"count"`

	// Amount is the total production cost of the batch
	Amount types.Money `db:"amount" json:"amount"`

	// CostOfProduction is the derived unit cost (Amount / Count).
	// Computed at posting time; nil when Count is zero.
	CostOfProduction *types.Money `db:"cost_of_production" json:"costOfProduction,omitempty"`
}

// NewProductionOutput creates a new production output document.
func NewProductionOutput(nomenclatureID id.ID, date time.Time, count types.Quantity, amount types.Money) *ProductionOutput {
	doc := &ProductionOutput{
		Document:       entity.NewDocument(),
		NomenclatureID: nomenclatureID,
		Count:          count,
		Amount:         amount,
	}
	doc.Date = date
	return doc
}

// Validate implements entity.Validatable.
func (p *ProductionOutput) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.NomenclatureID) && (p.Article == nil || *p.Article == "") {
		return apperror.NewValidation("nomenclature or article is required").
			WithDetail("field", "nomenclatureId")
	}

	if p.Count.IsNegative() {
		return apperror.NewValidation("count cannot be negative").
			WithDetail("field", "count")
	}

	if p.Amount.IsNegative() {
		return apperror.NewValidation("amount cannot be negative").
			WithDetail("field", "amount")
	}

	return nil
}

// --- Postable interface implementation ---

// GetDocumentType returns the document type name.
func (p *ProductionOutput) GetDocumentType() string {
	return "ProductionOutput"
}

// GenerateProjections returns an empty set: production output feeds no
// projection tables, posting only finalizes the document and its cost.
func (p *ProductionOutput) GenerateProjections(ctx context.Context) (*posting.ProjectionSet, error) {
	return posting.NewProjectionSet(), nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*ProductionOutput)(nil)
