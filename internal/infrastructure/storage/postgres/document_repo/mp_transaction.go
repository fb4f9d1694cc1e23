package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/core/id"
	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/mptransaction"
	"mercatus/internal/infrastructure/storage/postgres"
)

const mpTransactionsTable = "doc_mp_transactions"

// MPTransactionRepo implements mptransaction.Repository.
type MPTransactionRepo struct {
	*BaseDocumentRepo[*mptransaction.MarketplaceTransaction]
}

// NewMPTransactionRepo creates a new marketplace transaction repository.
func NewMPTransactionRepo(txm *postgres.TxManager) *MPTransactionRepo {
	return &MPTransactionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*mptransaction.MarketplaceTransaction](
			txm,
			mpTransactionsTable,
			postgres.ExtractDBColumns[mptransaction.MarketplaceTransaction](),
			func() *mptransaction.MarketplaceTransaction { return &mptransaction.MarketplaceTransaction{} },
		),
	}
}

// FindByPostingNumber retrieves all operations attributed to a fulfillment
// posting within a connection.
func (r *MPTransactionRepo) FindByPostingNumber(ctx context.Context, connectionID id.ID, postingNumber string) ([]*mptransaction.MarketplaceTransaction, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"connection_id": connectionID}).
		Where(squirrel.Eq{"posting_number": postingNumber}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("operation_date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*mptransaction.MarketplaceTransaction
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("find by posting number: %w", err)
	}

	return items, nil
}

// List retrieves marketplace transactions with filtering.
func (r *MPTransactionRepo) List(ctx context.Context, filter mptransaction.ListFilter) (domain.ListResult[*mptransaction.MarketplaceTransaction], error) {
	result := domain.ListResult[*mptransaction.MarketplaceTransaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.ConnectionID != nil {
		q = q.Where(squirrel.Eq{"connection_id": *filter.ConnectionID})
	}

	if filter.Marketplace != "" {
		q = q.Where(squirrel.Eq{"marketplace": filter.Marketplace})
	}

	if filter.OperationType != "" {
		q = q.Where(squirrel.Eq{"operation_type": filter.OperationType})
	}

	if filter.Posted != nil {
		q = q.Where(squirrel.Eq{"posted": *filter.Posted})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"operation_date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"operation_date": *filter.DateTo})
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"posting_number": searchPattern},
		})
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

	orderBy := "operation_date DESC"
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
