// Package organization provides the Organization catalog (Справочник "Организации").
package organization

import (
	"context"

	"mercatus/internal/core/entity"
)

// Organization represents a legal entity selling through marketplace connections.
type Organization struct {
	entity.Catalog

	// FullName is the official full name of the organization
	FullName *string `db:"full_name" json:"fullName,omitempty"`

	// INN is the tax identification number
	INN *string `db:"inn" json:"inn,omitempty"`

	// KPP is the code of reason for registration
	KPP *string `db:"kpp" json:"kpp,omitempty"`

	// IsDefault indicates if this is the default organization for new documents
	IsDefault bool `db:"is_default" json:"isDefault"`
}

// NewOrganization creates a new Organization with required fields.
func NewOrganization(code, name string) *Organization {
	return &Organization{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (o *Organization) Validate(ctx context.Context) error {
	return o.Catalog.Validate(ctx)
}
