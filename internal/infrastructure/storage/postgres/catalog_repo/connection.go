package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/domain/catalogs/connection"
	"mercatus/internal/infrastructure/storage/postgres"
)

const connectionTable = "cat_connections"

// ConnectionRepo implements connection.Repository.
type ConnectionRepo struct {
	*BaseCatalogRepo[*connection.Connection]
}

// NewConnectionRepo creates a new connection repository.
func NewConnectionRepo(txm *postgres.TxManager) *ConnectionRepo {
	return &ConnectionRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*connection.Connection](
			txm,
			connectionTable,
			postgres.ExtractDBColumns[connection.Connection](),
			func() *connection.Connection { return &connection.Connection{} },
		),
	}
}

// FindByMarketplace retrieves active connections for a marketplace.
func (r *ConnectionRepo) FindByMarketplace(ctx context.Context, marketplace string) ([]*connection.Connection, error) {
	var items []*connection.Connection

	q := r.Builder().
		Select(r.selectCols...).
		From(connectionTable).
		Where(squirrel.Eq{
			"marketplace":   marketplace,
			"active":        true,
			"deletion_mark": false,
		}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("find connections by marketplace: %w", err)
	}

	return items, nil
}
