package projection_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/projections/salesdata"
	"mercatus/internal/infrastructure/storage/postgres"
)

const salesDataTable = "prj_sales_data"

var salesDataColumns = []string{
	"registrator_id", "registrator_type", "registrator_version", "line_id",
	"date", "connection_id", "nomenclature_id", "marketplace_product_id",
	"customer_in", "customer_out", "commission_out", "acquiring_out",
	"penalty_out", "logistics_out", "seller_out", "total",
	"cost", "document_no", "article",
	"created_at",
}

// SalesDataRepo implements salesdata.Repository.
type SalesDataRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSalesDataRepo creates a new sales data repository.
func NewSalesDataRepo(txm *postgres.TxManager) *SalesDataRepo {
	return &SalesDataRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func salesDataValues(e entity.SalesDataEntry) []any {
	return []any{
		e.RegistratorID, e.RegistratorType, e.RegistratorVersion, e.LineID,
		e.Date, e.ConnectionID, e.NomenclatureID, e.MarketplaceProductID,
		e.CustomerIn, e.CustomerOut, e.CommissionOut, e.AcquiringOut,
		e.PenaltyOut, e.LogisticsOut, e.SellerOut, e.Total,
		e.Cost, e.DocumentNo, e.Article,
		e.CreatedAt,
	}
}

// InsertRows bulk inserts sales data rows.
func (r *SalesDataRepo) InsertRows(ctx context.Context, rows []entity.SalesDataEntry) error {
	if len(rows) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		copyRows := make([][]any, 0, len(rows))
		for _, e := range rows {
			copyRows = append(copyRows, salesDataValues(e))
		}
		if _, err := inserter.CopyFromSlice(ctx, salesDataTable, salesDataColumns, copyRows); err != nil {
			return fmt.Errorf("copy sales data rows: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(salesDataTable).Columns(salesDataColumns...)
	for _, e := range rows {
		q = q.Values(salesDataValues(e)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sales data rows: %w", err)
	}

	return nil
}

// DeleteByRegistrator removes all rows produced by a document.
func (r *SalesDataRepo) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	q := r.builder.Delete(salesDataTable).
		Where(squirrel.Eq{"registrator_id": registratorID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete sales data rows: %w", err)
	}

	return nil
}

// GetByRegistrator retrieves all rows produced by a document.
func (r *SalesDataRepo) GetByRegistrator(ctx context.Context, registratorID id.ID) ([]entity.SalesDataEntry, error) {
	q := r.builder.Select(salesDataColumns...).
		From(salesDataTable).
		Where(squirrel.Eq{"registrator_id": registratorID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []entity.SalesDataEntry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales data rows: %w", err)
	}

	return rows, nil
}

// List retrieves rows for reporting.
func (r *SalesDataRepo) List(ctx context.Context, filter salesdata.ListFilter) ([]entity.SalesDataEntry, error) {
	q := r.builder.Select(salesDataColumns...).
		From(salesDataTable)

	if filter.ConnectionID != nil {
		q = q.Where(squirrel.Eq{"connection_id": *filter.ConnectionID})
	}

	if filter.NomenclatureID != nil {
		q = q.Where(squirrel.Eq{"nomenclature_id": *filter.NomenclatureID})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	orderBy := "date DESC"
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

	var rows []entity.SalesDataEntry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales data rows: %w", err)
	}

	return rows, nil
}

// Ensure interface compliance.
var _ salesdata.Repository = (*SalesDataRepo)(nil)
