package projection_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/projections/prices"
	"mercatus/internal/infrastructure/storage/postgres"
)

const nomenclaturePricesTable = "prj_nomenclature_prices"

var nomenclaturePriceColumns = []string{
	"nomenclature_id", "period", "price", "source", "updated_at",
}

// PriceRepo implements prices.Repository.
type PriceRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewPriceRepo creates a new price history repository.
func NewPriceRepo(txm *postgres.TxManager) *PriceRepo {
	return &PriceRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetPriceOnDate retrieves the price effective at the given date.
func (r *PriceRepo) GetPriceOnDate(ctx context.Context, nomenclatureID id.ID, date time.Time) (*entity.NomenclaturePrice, error) {
	var record entity.NomenclaturePrice

	q := r.builder.Select(nomenclaturePriceColumns...).
		From(nomenclaturePricesTable).
		Where(squirrel.Eq{"nomenclature_id": nomenclatureID}).
		Where(squirrel.LtOrEq{"period": date}).
		OrderBy("period DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("nomenclature price", nomenclatureID.String())
		}
		return nil, fmt.Errorf("get price on date: %w", err)
	}

	return &record, nil
}

// GetLastNonZeroPrice retrieves the most recent non-zero price.
func (r *PriceRepo) GetLastNonZeroPrice(ctx context.Context, nomenclatureID id.ID) (*entity.NomenclaturePrice, error) {
	var record entity.NomenclaturePrice

	q := r.builder.Select(nomenclaturePriceColumns...).
		From(nomenclaturePricesTable).
		Where(squirrel.Eq{"nomenclature_id": nomenclatureID}).
		Where(squirrel.Gt{"price": 0}).
		OrderBy("period DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("nomenclature price", nomenclatureID.String())
		}
		return nil, fmt.Errorf("get last non-zero price: %w", err)
	}

	return &record, nil
}

// UpsertPrices inserts or updates price records keyed by (nomenclature_id, period).
func (r *PriceRepo) UpsertPrices(ctx context.Context, records []entity.NomenclaturePrice) error {
	if len(records) == 0 {
		return nil
	}

	q := r.builder.Insert(nomenclaturePricesTable).
		Columns(nomenclaturePriceColumns...)

	for _, rec := range records {
		q = q.Values(rec.NomenclatureID, rec.Period, rec.Price, rec.Source, rec.UpdatedAt)
	}

	q = q.Suffix(`ON CONFLICT (nomenclature_id, period) DO UPDATE SET
		price = EXCLUDED.price,
		source = EXCLUDED.source,
		updated_at = EXCLUDED.updated_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert prices: %w", err)
	}

	return nil
}

// ListByNomenclature retrieves the full price history for an item.
func (r *PriceRepo) ListByNomenclature(ctx context.Context, nomenclatureID id.ID) ([]entity.NomenclaturePrice, error) {
	q := r.builder.Select(nomenclaturePriceColumns...).
		From(nomenclaturePricesTable).
		Where(squirrel.Eq{"nomenclature_id": nomenclatureID}).
		OrderBy("period DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.NomenclaturePrice
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select price history: %w", err)
	}

	return records, nil
}

// Ensure interface compliance.
var _ prices.Repository = (*PriceRepo)(nil)
