package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/production"
	"mercatus/internal/infrastructure/storage/postgres"
)

const productionOutputsTable = "doc_production_outputs"

// ProductionRepo implements production.Repository.
type ProductionRepo struct {
	*BaseDocumentRepo[*production.ProductionOutput]
}

// NewProductionRepo creates a new production output repository.
func NewProductionRepo(txm *postgres.TxManager) *ProductionRepo {
	return &ProductionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*production.ProductionOutput](
			txm,
			productionOutputsTable,
			postgres.ExtractDBColumns[production.ProductionOutput](),
			func() *production.ProductionOutput { return &production.ProductionOutput{} },
		),
	}
}

// List retrieves production outputs with filtering.
func (r *ProductionRepo) List(ctx context.Context, filter production.ListFilter) (domain.ListResult[*production.ProductionOutput], error) {
	result := domain.ListResult[*production.ProductionOutput]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.NomenclatureID != nil {
		q = q.Where(squirrel.Eq{"nomenclature_id": *filter.NomenclatureID})
	}

	if filter.Posted != nil {
		q = q.Where(squirrel.Eq{"posted": *filter.Posted})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
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
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
