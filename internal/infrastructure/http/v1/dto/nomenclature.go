package dto

import (
	"github.com/shopspring/decimal"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/catalogs/nomenclature"
)

// --- Request DTOs ---

// CreateNomenclatureRequest is the request body for creating a nomenclature item.
type CreateNomenclatureRequest struct {
	Code               string                        `json:"code"`
	Name               string                        `json:"name" binding:"required"`
	Type               nomenclature.NomenclatureType `json:"type" binding:"required"`
	Article            *string                       `json:"article"`
	Barcode            *string                       `json:"barcode"`
	BaseNomenclatureID *string                       `json:"baseNomenclatureId"`
	Weight             decimal.Decimal               `json:"weight"`
	Description        *string                       `json:"description"`
	ParentID           *string                       `json:"parentId"`
	IsFolder           bool                          `json:"isFolder"`
	Attributes         entity.Attributes             `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateNomenclatureRequest) ToEntity() *nomenclature.Nomenclature {
	item := nomenclature.NewNomenclature(r.Code, r.Name, r.Type)
	item.Article = r.Article
	item.Barcode = r.Barcode
	item.Weight = r.Weight
	item.Description = r.Description
	item.ParentID = r.ParentID
	item.IsFolder = r.IsFolder
	item.Attributes = r.Attributes

	if r.BaseNomenclatureID != nil && *r.BaseNomenclatureID != "" {
		if baseID, err := id.Parse(*r.BaseNomenclatureID); err == nil {
			item.BaseNomenclatureID = &baseID
		}
	}

	return item
}

// UpdateNomenclatureRequest is the request body for updating a nomenclature item.
type UpdateNomenclatureRequest struct {
	Version            int                           `json:"version" binding:"required,min=1"`
	Code               *string                       `json:"code"`
	Name               *string                       `json:"name"`
	Type               nomenclature.NomenclatureType `json:"type"`
	Article            *string                       `json:"article"`
	Barcode            *string                       `json:"barcode"`
	BaseNomenclatureID *string                       `json:"baseNomenclatureId"`
	Weight             *decimal.Decimal              `json:"weight"`
	Description        *string                       `json:"description"`
	ParentID           *string                       `json:"parentId"`
	Attributes         entity.Attributes             `json:"attributes"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateNomenclatureRequest) ApplyTo(item *nomenclature.Nomenclature) {
	item.Version = r.Version
	if r.Code != nil {
		item.Code = *r.Code
	}
	if r.Name != nil {
		item.Name = *r.Name
	}
	if r.Type != "" {
		item.Type = r.Type
	}
	if r.Article != nil {
		item.Article = r.Article
	}
	if r.Barcode != nil {
		item.Barcode = r.Barcode
	}
	if r.BaseNomenclatureID != nil {
		if *r.BaseNomenclatureID == "" {
			item.BaseNomenclatureID = nil
		} else if baseID, err := id.Parse(*r.BaseNomenclatureID); err == nil {
			item.BaseNomenclatureID = &baseID
		}
	}
	if r.Weight != nil {
		item.Weight = *r.Weight
	}
	if r.Description != nil {
		item.Description = r.Description
	}
	if r.ParentID != nil {
		item.ParentID = r.ParentID
	}
	if r.Attributes != nil {
		item.Attributes = r.Attributes
	}
}

// --- Response DTOs ---

// NomenclatureResponse is the response body for nomenclature items.
type NomenclatureResponse struct {
	CatalogResponse
	Type               nomenclature.NomenclatureType `json:"type"`
	Article            *string                       `json:"article,omitempty"`
	Barcode            *string                       `json:"barcode,omitempty"`
	BaseNomenclatureID *string                       `json:"baseNomenclatureId,omitempty"`
	Weight             decimal.Decimal               `json:"weight"`
	Description        *string                       `json:"description,omitempty"`
}

// FromNomenclature converts domain entity to response DTO.
func FromNomenclature(item *nomenclature.Nomenclature) NomenclatureResponse {
	resp := NomenclatureResponse{
		CatalogResponse: FromCatalog(item.Catalog),
		Type:            item.Type,
		Article:         item.Article,
		Barcode:         item.Barcode,
		Weight:          item.Weight,
		Description:     item.Description,
	}
	if item.BaseNomenclatureID != nil {
		baseID := item.BaseNomenclatureID.String()
		resp.BaseNomenclatureID = &baseID
	}
	return resp
}
