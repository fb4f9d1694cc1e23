package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/mpsale"
	"mercatus/internal/infrastructure/storage/postgres"
)

const (
	mpSalesTable     = "doc_mp_sales"
	mpSaleLinesTable = "doc_mp_sale_lines"
)

// MPSaleRepo implements mpsale.Repository.
type MPSaleRepo struct {
	*BaseDocumentRepo[*mpsale.MarketplaceSale]
}

// NewMPSaleRepo creates a new marketplace sale repository.
func NewMPSaleRepo(txm *postgres.TxManager) *MPSaleRepo {
	return &MPSaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*mpsale.MarketplaceSale](
			txm,
			mpSalesTable,
			postgres.ExtractDBColumns[mpsale.MarketplaceSale](),
			func() *mpsale.MarketplaceSale { return &mpsale.MarketplaceSale{} },
		),
	}
}

// GetByNumber retrieves a sale by its document number within a connection.
// Marketplace order numbers are only unique per connection.
func (r *MPSaleRepo) GetByNumber(ctx context.Context, connectionID id.ID, number string) (*mpsale.MarketplaceSale, error) {
	doc := &mpsale.MarketplaceSale{}
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"connection_id": connectionID}).
		Where(squirrel.Eq{"number": number})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(mpSalesTable, number)
		}
		return nil, fmt.Errorf("get by number: %w", err)
	}

	return doc, nil
}

// GetLines retrieves lines for a marketplace sale.
func (r *MPSaleRepo) GetLines(ctx context.Context, docID id.ID) ([]mpsale.MarketplaceSaleLine, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "seller_sku", "item_id", "barcode", "title",
			"qty", "price_list", "discount_total",
			"price_effective", "amount_line",
			"marketplace_product_id", "nomenclature_id", "dealer_price", "margin_pro",
		).
		From(mpSaleLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []mpsale.MarketplaceSaleLine
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a marketplace sale (delete existing + insert new).
func (r *MPSaleRepo) SaveLines(ctx context.Context, docID id.ID, lines []mpsale.MarketplaceSaleLine) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + mpSaleLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(mpSaleLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "seller_sku", "item_id", "barcode", "title",
			"qty", "price_list", "discount_total",
			"price_effective", "amount_line",
			"marketplace_product_id", "nomenclature_id", "dealer_price", "margin_pro",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.SellerSKU, line.ItemID, line.Barcode, line.Title,
			line.Qty, line.PriceList, line.DiscountTotal,
			line.PriceEffective, line.AmountLine,
			line.MarketplaceProductID, line.NomenclatureID, line.DealerPrice, line.MarginPro,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves marketplace sales with filtering.
func (r *MPSaleRepo) List(ctx context.Context, filter mpsale.ListFilter) (domain.ListResult[*mpsale.MarketplaceSale], error) {
	result := domain.ListResult[*mpsale.MarketplaceSale]{
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

	if filter.StatusNorm != "" {
		q = q.Where(squirrel.Eq{"status_norm": filter.StatusNorm})
	}

	if filter.Posted != nil {
		q = q.Where(squirrel.Eq{"posted": *filter.Posted})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"sale_date": *filter.DateTo})
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
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
