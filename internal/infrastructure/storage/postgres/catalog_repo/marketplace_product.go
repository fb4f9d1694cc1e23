package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/domain"
	"mercatus/internal/domain/catalogs/marketplaceproduct"
	"mercatus/internal/infrastructure/storage/postgres"
)

const marketplaceProductTable = "cat_marketplace_products"

// MarketplaceProductRepo implements marketplaceproduct.Repository.
type MarketplaceProductRepo struct {
	*BaseCatalogRepo[*marketplaceproduct.MarketplaceProduct]
}

// NewMarketplaceProductRepo creates a new marketplace product repository.
func NewMarketplaceProductRepo(txm *postgres.TxManager) *MarketplaceProductRepo {
	return &MarketplaceProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*marketplaceproduct.MarketplaceProduct](
			txm,
			marketplaceProductTable,
			postgres.ExtractDBColumns[marketplaceproduct.MarketplaceProduct](),
			func() *marketplaceproduct.MarketplaceProduct { return &marketplaceproduct.MarketplaceProduct{} },
		),
	}
}

// FindBySellerSKU retrieves a listing by seller SKU within a connection.
func (r *MarketplaceProductRepo) FindBySellerSKU(ctx context.Context, connectionID id.ID, sellerSKU string) (*marketplaceproduct.MarketplaceProduct, error) {
	return r.findByKey(ctx, connectionID, "seller_sku", sellerSKU)
}

// FindByItemID retrieves a listing by marketplace item id within a connection.
func (r *MarketplaceProductRepo) FindByItemID(ctx context.Context, connectionID id.ID, itemID string) (*marketplaceproduct.MarketplaceProduct, error) {
	return r.findByKey(ctx, connectionID, "item_id", itemID)
}

func (r *MarketplaceProductRepo) findByKey(ctx context.Context, connectionID id.ID, column, value string) (*marketplaceproduct.MarketplaceProduct, error) {
	product := &marketplaceproduct.MarketplaceProduct{}

	q := r.Builder().
		Select(r.selectCols...).
		From(marketplaceProductTable).
		Where(squirrel.Eq{
			"connection_id": connectionID,
			column:          value,
			"deletion_mark": false,
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, product, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(marketplaceProductTable, value)
		}
		return nil, fmt.Errorf("find marketplace product by %s: %w", column, err)
	}

	return product, nil
}

// FindUnmatched retrieves listings without a nomenclature link.
func (r *MarketplaceProductRepo) FindUnmatched(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*marketplaceproduct.MarketplaceProduct], error) {
	result := domain.ListResult[*marketplaceproduct.MarketplaceProduct]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.Builder().
		Select(r.selectCols...).
		From(marketplaceProductTable).
		Where(squirrel.Eq{"nomenclature_id": nil, "deletion_mark": false})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"seller_sku": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("name")
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
		return result, fmt.Errorf("find unmatched: %w", err)
	}

	return result, nil
}
