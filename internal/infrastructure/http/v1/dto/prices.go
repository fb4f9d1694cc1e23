package dto

import (
	"time"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
)

// ImportPricesRequest carries a batch of dealer price records, usually
// pushed by the ERP import job.
type ImportPricesRequest struct {
	Prices []PriceRecordRequest `json:"prices" binding:"required,min=1,dive"`
}

// PriceRecordRequest is one dealer price record in an import batch.
type PriceRecordRequest struct {
	NomenclatureID string      `json:"nomenclatureId" binding:"required"`
	Period         time.Time   `json:"period" binding:"required"`
	Price          types.Money `json:"price"`
	Source         string      `json:"source,omitempty"`
}

// ToEntities converts the batch to domain records. Records with an
// unparseable nomenclature id are skipped.
func (r *ImportPricesRequest) ToEntities() []entity.NomenclaturePrice {
	records := make([]entity.NomenclaturePrice, 0, len(r.Prices))
	for _, p := range r.Prices {
		nomID, err := id.Parse(p.NomenclatureID)
		if err != nil {
			continue
		}
		source := p.Source
		if source == "" {
			source = "ERP"
		}
		records = append(records, entity.NomenclaturePrice{
			NomenclatureID: nomID,
			Period:         p.Period,
			Price:          p.Price,
			Source:         source,
		})
	}
	return records
}

// PriceResponse is one dealer price record in API responses.
type PriceResponse struct {
	NomenclatureID string      `json:"nomenclatureId"`
	Period         time.Time   `json:"period"`
	Price          types.Money `json:"price"`
	Source         string      `json:"source"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// FromNomenclaturePrice creates response from domain record.
func FromNomenclaturePrice(p entity.NomenclaturePrice) PriceResponse {
	return PriceResponse{
		NomenclatureID: p.NomenclatureID.String(),
		Period:         p.Period,
		Price:          p.Price,
		Source:         p.Source,
		UpdatedAt:      p.UpdatedAt,
	}
}
