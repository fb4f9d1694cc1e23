// Package prices provides the dealer price history table.
// Prices are fed by the ERP import and read during posting to resolve the
// dealer price effective at a sale date.
package prices

import (
	"context"
	"time"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
)

// Repository defines persistence for dealer price history.
type Repository interface {
	// GetPriceOnDate retrieves the price with the latest period at or
	// before the given date. Returns NotFound when no such record exists.
	GetPriceOnDate(ctx context.Context, nomenclatureID id.ID, date time.Time) (*entity.NomenclaturePrice, error)

	// GetLastNonZeroPrice retrieves the most recent record with a
	// non-zero price regardless of date. Returns NotFound when the item
	// has no non-zero price at all.
	GetLastNonZeroPrice(ctx context.Context, nomenclatureID id.ID) (*entity.NomenclaturePrice, error)

	// UpsertPrices inserts or updates price records keyed by
	// (nomenclature_id, period).
	UpsertPrices(ctx context.Context, records []entity.NomenclaturePrice) error

	// ListByNomenclature retrieves the full price history for an item.
	ListByNomenclature(ctx context.Context, nomenclatureID id.ID) ([]entity.NomenclaturePrice, error)
}
