// Package connection provides the marketplace Connection catalog.
// A connection is one seller cabinet on one marketplace: it carries the
// API credentials reference and the organization the cabinet sells for.
package connection

import (
	"context"

	"github.com/shopspring/decimal"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
)

// Marketplace codes supported by importers.
const (
	MarketplaceWildberries  = "WB"
	MarketplaceOzon         = "OZON"
	MarketplaceYandexMarket = "YM"
	MarketplaceLemanaPro    = "LEMANA"
)

// Connection represents a seller cabinet on a marketplace.
type Connection struct {
	entity.Catalog

	// Marketplace is the marketplace code (WB, OZON, YM, LEMANA)
	Marketplace string `db:"marketplace" json:"marketplace"`

	// OrganizationID is the organization this cabinet sells for.
	// Documents imported through this connection inherit it on posting.
	OrganizationID *id.ID `db:"organization_id" json:"organizationId,omitempty"`

	// PlannedCommissionPercent is the expected marketplace commission,
	// used for margin estimation before the financial report arrives
	PlannedCommissionPercent decimal.Decimal `db:"planned_commission_percent" json:"plannedCommissionPercent"`

	// APIKeyRef points at the stored credential, never the credential itself
	APIKeyRef *string `db:"api_key_ref" json:"apiKeyRef,omitempty"`

	// Active controls whether importers pull data for this connection
	Active bool `db:"active" json:"active"`
}

// NewConnection creates a new Connection with required fields.
func NewConnection(code, name, marketplace string) *Connection {
	return &Connection{
		Catalog:     entity.NewCatalog(code, name),
		Marketplace: marketplace,
		Active:      true,
	}
}

// Validate implements entity.Validatable interface.
func (c *Connection) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidMarketplace(c.Marketplace) {
		return apperror.NewValidation("invalid marketplace code").
			WithDetail("field", "marketplace").
			WithDetail("value", c.Marketplace)
	}

	if c.PlannedCommissionPercent.IsNegative() || c.PlannedCommissionPercent.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewValidation("planned commission percent must be between 0 and 100").
			WithDetail("field", "plannedCommissionPercent")
	}

	return nil
}

func isValidMarketplace(m string) bool {
	switch m {
	case MarketplaceWildberries, MarketplaceOzon, MarketplaceYandexMarket, MarketplaceLemanaPro:
		return true
	}
	return false
}
