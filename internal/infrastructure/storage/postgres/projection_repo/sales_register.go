// Package projection_repo provides PostgreSQL implementations for projection repositories.
package projection_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/projections/salesregister"
	"mercatus/internal/infrastructure/storage/postgres"
)

const salesRegisterTable = "prj_sales_register"

var salesRegisterColumns = []string{
	"registrator_id", "registrator_type", "registrator_version", "line_id",
	"marketplace", "document_no", "scheme",
	"sale_date", "status_source", "status_norm",
	"connection_id", "organization_id", "marketplace_product_id", "nomenclature_id",
	"seller_sku", "item_id", "barcode", "title",
	"qty", "price_list", "discount_total", "price_effective", "amount_line",
	"dealer_price", "margin_pro", "currency_code",
	"created_at",
}

// SalesRegisterRepo implements salesregister.Repository.
type SalesRegisterRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSalesRegisterRepo creates a new sales register repository.
func NewSalesRegisterRepo(txm *postgres.TxManager) *SalesRegisterRepo {
	return &SalesRegisterRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func salesRegisterValues(e entity.SalesRegisterEntry) []any {
	return []any{
		e.RegistratorID, e.RegistratorType, e.RegistratorVersion, e.LineID,
		e.Marketplace, e.DocumentNo, e.Scheme,
		e.SaleDate, e.StatusSource, e.StatusNorm,
		e.ConnectionID, e.OrganizationID, e.MarketplaceProductID, e.NomenclatureID,
		e.SellerSKU, e.ItemID, e.Barcode, e.Title,
		e.Qty, e.PriceList, e.DiscountTotal, e.PriceEffective, e.AmountLine,
		e.DealerPrice, e.MarginPro, e.CurrencyCode,
		e.CreatedAt,
	}
}

// InsertRows bulk inserts sales register rows.
func (r *SalesRegisterRepo) InsertRows(ctx context.Context, rows []entity.SalesRegisterEntry) error {
	if len(rows) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		copyRows := make([][]any, 0, len(rows))
		for _, e := range rows {
			copyRows = append(copyRows, salesRegisterValues(e))
		}
		if _, err := inserter.CopyFromSlice(ctx, salesRegisterTable, salesRegisterColumns, copyRows); err != nil {
			return fmt.Errorf("copy sales register rows: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(salesRegisterTable).Columns(salesRegisterColumns...)
	for _, e := range rows {
		q = q.Values(salesRegisterValues(e)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sales register rows: %w", err)
	}

	return nil
}

// DeleteByRegistrator removes all rows produced by a document.
func (r *SalesRegisterRepo) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	q := r.builder.Delete(salesRegisterTable).
		Where(squirrel.Eq{"registrator_id": registratorID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete sales register rows: %w", err)
	}

	return nil
}

// GetByRegistrator retrieves all rows produced by a document.
func (r *SalesRegisterRepo) GetByRegistrator(ctx context.Context, registratorID id.ID) ([]entity.SalesRegisterEntry, error) {
	q := r.builder.Select(salesRegisterColumns...).
		From(salesRegisterTable).
		Where(squirrel.Eq{"registrator_id": registratorID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []entity.SalesRegisterEntry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales register rows: %w", err)
	}

	return rows, nil
}

// List retrieves rows for reporting.
func (r *SalesRegisterRepo) List(ctx context.Context, filter salesregister.ListFilter) ([]entity.SalesRegisterEntry, error) {
	q := r.builder.Select(salesRegisterColumns...).
		From(salesRegisterTable)

	if filter.ConnectionID != nil {
		q = q.Where(squirrel.Eq{"connection_id": *filter.ConnectionID})
	}

	if filter.Marketplace != "" {
		q = q.Where(squirrel.Eq{"marketplace": filter.Marketplace})
	}

	if filter.StatusNorm != "" {
		q = q.Where(squirrel.Eq{"status_norm": filter.StatusNorm})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"sale_date": *filter.DateTo})
	}

	orderBy := "sale_date DESC"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []entity.SalesRegisterEntry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales register rows: %w", err)
	}

	return rows, nil
}

// Ensure interface compliance.
var _ salesregister.Repository = (*SalesRegisterRepo)(nil)
