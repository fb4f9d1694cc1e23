package dto

import (
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain/documents/production"
)

// CreateProductionOutputRequest represents a request to create a production
// output document.
type CreateProductionOutputRequest struct {
	Number          string      `json:"number,omitempty"`
	Date            time.Time   `json:"date" binding:"required"`
	NomenclatureID  string      `json:"nomenclatureId,omitempty"`
	Article         string      `json:"article,omitempty"`
	Count           float64     `json:"count" binding:"required,gt=0"`
	Amount          types.Money `json:"amount"`
	Comment         string      `json:"comment,omitempty"`
	PostImmediately bool        `json:"postImmediately,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateProductionOutputRequest) ToEntity() *production.ProductionOutput {
	nomenclatureID, _ := id.Parse(r.NomenclatureID)

	doc := production.NewProductionOutput(nomenclatureID, r.Date,
		types.NewQuantityFromFloat64(r.Count), r.Amount)
	doc.Number = r.Number
	doc.Comment = r.Comment
	if r.Article != "" {
		article := r.Article
		doc.Article = &article
	}
	return doc
}

// UpdateProductionOutputRequest represents a request to update a production
// output document.
type UpdateProductionOutputRequest struct {
	Number         *string      `json:"number,omitempty"`
	Date           *time.Time   `json:"date,omitempty"`
	NomenclatureID *string      `json:"nomenclatureId,omitempty"`
	Article        *string      `json:"article,omitempty"`
	Count          *float64     `json:"count,omitempty"`
	Amount         *types.Money `json:"amount,omitempty"`
	Comment        *string      `json:"comment,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductionOutputRequest) ApplyTo(doc *production.ProductionOutput) {
	if r.Number != nil {
		doc.Number = *r.Number
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.NomenclatureID != nil {
		if nomID, err := id.Parse(*r.NomenclatureID); err == nil {
			doc.NomenclatureID = nomID
		}
	}
	if r.Article != nil {
		doc.Article = r.Article
	}
	if r.Count != nil {
		doc.Count = types.NewQuantityFromFloat64(*r.Count)
	}
	if r.Amount != nil {
		doc.Amount = *r.Amount
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
}

// ProductionOutputResponse represents a production output in API responses.
type ProductionOutputResponse struct {
	DocumentResponse
	NomenclatureID   string       `json:"nomenclatureId"`
	Article          *string      `json:"article,omitempty"`
	Count            float64      `json:"count"`
	Amount           types.Money  `json:"amount"`
	CostOfProduction *types.Money `json:"costOfProduction,omitempty"`
}

// FromProductionOutput creates response from domain entity.
func FromProductionOutput(doc *production.ProductionOutput) ProductionOutputResponse {
	return ProductionOutputResponse{
		DocumentResponse: FromDocument(doc.Document),
		NomenclatureID:   doc.NomenclatureID.String(),
		Article:          doc.Article,
		Count:            doc.Count.Float64(),
		Amount:           doc.Amount,
		CostOfProduction: doc.CostOfProduction,
	}
}
