// Package nomenclature provides the Nomenclature catalog (Справочник "Номенклатура").
// Nomenclature represents internal items that marketplace listings map to.
package nomenclature

import (
	"context"

	"github.com/shopspring/decimal"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
)

// NomenclatureType defines the type of item.
type NomenclatureType string

const (
	TypeGoods   NomenclatureType = "goods"   // Товар
	TypeProduct NomenclatureType = "product" // Продукция (собственное производство)
	TypeKit     NomenclatureType = "kit"     // Комплект
	TypeService NomenclatureType = "service" // Услуга
)

// Nomenclature represents an internal product or service item.
type Nomenclature struct {
	entity.Catalog

	// Type defines item category
	Type NomenclatureType `db:"type" json:"type"`

	// Article is the item article/SKU as known by the ERP
	Article *string `db:"article" json:"article,omitempty"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// BaseNomenclatureID points at the base item for derivatives and kits.
	// Dealer price lookups fall back to the base item when the derivative
	// has no price history of its own.
	BaseNomenclatureID *id.ID `db:"base_nomenclature_id" json:"baseNomenclatureId,omitempty"`

	// Weight in kg (for logistics)
	Weight decimal.Decimal `db:"weight" json:"weight"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewNomenclature creates a new Nomenclature with required fields.
func NewNomenclature(code, name string, itemType NomenclatureType) *Nomenclature {
	return &Nomenclature{
		Catalog: entity.NewCatalog(code, name),
		Type:    itemType,
		Weight:  decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (n *Nomenclature) Validate(ctx context.Context) error {
	if err := n.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidNomenclatureType(n.Type) {
		return apperror.NewValidation("invalid nomenclature type").
			WithDetail("field", "type").
			WithDetail("value", string(n.Type))
	}

	if n.Weight.IsNegative() {
		return apperror.NewValidation("weight cannot be negative").
			WithDetail("field", "weight")
	}

	// A base reference pointing at the item itself would loop price fallback
	if n.BaseNomenclatureID != nil && *n.BaseNomenclatureID == n.ID {
		return apperror.NewValidation("base nomenclature cannot reference itself").
			WithDetail("field", "baseNomenclatureId")
	}

	return nil
}

// IsDerivative returns true when the item has a base item for price fallback.
func (n *Nomenclature) IsDerivative() bool {
	return n.BaseNomenclatureID != nil && !id.IsNil(*n.BaseNomenclatureID)
}

func isValidNomenclatureType(t NomenclatureType) bool {
	switch t {
	case TypeGoods, TypeProduct, TypeKit, TypeService:
		return true
	}
	return false
}
