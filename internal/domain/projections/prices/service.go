package prices

import (
	"context"
	"fmt"
	"time"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
)

// Service provides dealer price lookups and history maintenance.
type Service struct {
	repo Repository
}

// NewService creates a new price history service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PriceOnDate returns the price effective at the given date, or nil when
// the item has no price record at or before that date.
func (s *Service) PriceOnDate(ctx context.Context, nomenclatureID id.ID, date time.Time) (*types.Money, error) {
	record, err := s.repo.GetPriceOnDate(ctx, nomenclatureID, date)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price on date: %w", err)
	}
	price := record.Price
	return &price, nil
}

// LastNonZeroPrice returns the most recent non-zero price for the item,
// or nil when it never had one.
func (s *Service) LastNonZeroPrice(ctx context.Context, nomenclatureID id.ID) (*types.Money, error) {
	record, err := s.repo.GetLastNonZeroPrice(ctx, nomenclatureID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last non-zero price: %w", err)
	}
	price := record.Price
	return &price, nil
}

// ImportPrices upserts a batch of price records from the ERP feed.
func (s *Service) ImportPrices(ctx context.Context, records []entity.NomenclaturePrice) error {
	if len(records) == 0 {
		return nil
	}
	for i, r := range records {
		if id.IsNil(r.NomenclatureID) {
			return apperror.NewValidation(fmt.Sprintf("record %d: nomenclature_id is required", i))
		}
		if r.Period.IsZero() {
			return apperror.NewValidation(fmt.Sprintf("record %d: period is required", i))
		}
	}
	return s.repo.UpsertPrices(ctx, records)
}

// History retrieves the full price history for an item.
func (s *Service) History(ctx context.Context, nomenclatureID id.ID) ([]entity.NomenclaturePrice, error) {
	return s.repo.ListByNomenclature(ctx, nomenclatureID)
}
