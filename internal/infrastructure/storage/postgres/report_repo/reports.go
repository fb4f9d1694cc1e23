// Package report_repo provides PostgreSQL implementations for report
// repositories. Reports read the materialized projections, not the
// documents: the posting engine keeps the projections consistent.
package report_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"

	"mercatus/internal/domain/reports"
	"mercatus/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// GetSalesSummary aggregates the sales register per nomenclature item.
// Unmatched lines (no nomenclature) group by seller SKU so degraded
// postings stay visible in the report.
func (r *ReportRepo) GetSalesSummary(ctx context.Context, filter reports.SalesSummaryFilter) (*reports.SalesSummaryReport, error) {
	marketplaceCol := "'' as marketplace"
	groupBy := "GROUP BY r.nomenclature_id, COALESCE(r.nomenclature_id::text, r.seller_sku)"
	if filter.GroupByMarketplace {
		marketplaceCol = "r.marketplace"
		groupBy += ", r.marketplace"
	}

	query := fmt.Sprintf(`
		SELECT
			r.nomenclature_id,
			COALESCE(MAX(n.name), MAX(r.title)) as nomenclature_name,
			MAX(r.seller_sku) as article,
			%s,
			SUM(r.qty)::float8 / 10000.0 as quantity,
			SUM(r.amount_line) as sales_amount,
			SUM(COALESCE(r.dealer_price, 0) * r.qty / 10000.0) as dealer_amount,
			SUM(r.amount_line) - SUM(COALESCE(r.dealer_price, 0) * r.qty / 10000.0) as margin
		FROM prj_sales_register r
		LEFT JOIN cat_nomenclature n ON r.nomenclature_id = n.id
		WHERE r.sale_date >= $1 AND r.sale_date < $2
	`, marketplaceCol)
	args := []any{filter.FromDate, filter.ToDate}
	argIndex := 3

	if !filter.IncludeCancelled {
		query += " AND r.status_norm NOT IN ('cancelled', 'returned')"
	}

	if filter.Marketplace != "" {
		query += fmt.Sprintf(" AND r.marketplace = $%d", argIndex)
		args = append(args, filter.Marketplace)
		argIndex++
	}

	if len(filter.ConnectionIDs) > 0 {
		placeholders := make([]string, len(filter.ConnectionIDs))
		for i, connID := range filter.ConnectionIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, connID)
			argIndex++
		}
		query += fmt.Sprintf(" AND r.connection_id IN (%s)", strings.Join(placeholders, ","))
	}

	if len(filter.NomenclatureIDs) > 0 {
		placeholders := make([]string, len(filter.NomenclatureIDs))
		for i, nomID := range filter.NomenclatureIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, nomID)
			argIndex++
		}
		query += fmt.Sprintf(" AND r.nomenclature_id IN (%s)", strings.Join(placeholders, ","))
	}

	query += fmt.Sprintf(`
		%s
		ORDER BY sales_amount DESC
	`, groupBy)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var items []reports.SalesSummaryItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	// Calculate totals
	report := &reports.SalesSummaryReport{
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Items:      items,
		TotalItems: len(items),
	}
	for _, item := range items {
		report.TotalQuantity += item.Quantity
		report.TotalAmount = report.TotalAmount.Add(item.SalesAmount)
		report.TotalMargin = report.TotalMargin.Add(item.Margin)
	}

	return report, nil
}

// GetFinancialSummary aggregates the sales data buckets per connection.
func (r *ReportRepo) GetFinancialSummary(ctx context.Context, filter reports.FinancialSummaryFilter) (*reports.FinancialSummaryReport, error) {
	query := `
		SELECT
			d.connection_id,
			MAX(c.name) as connection_name,
			MAX(c.marketplace) as marketplace,
			SUM(d.customer_in) as customer_in,
			SUM(d.customer_out) as customer_out,
			SUM(d.commission_out) as commission_out,
			SUM(d.acquiring_out) as acquiring_out,
			SUM(d.penalty_out) as penalty_out,
			SUM(d.logistics_out) as logistics_out,
			SUM(d.seller_out) as seller_out,
			SUM(d.total) as payout,
			SUM(COALESCE(d.cost, 0)) as cost
		FROM prj_sales_data d
		JOIN cat_connections c ON d.connection_id = c.id
		WHERE d.date >= $1 AND d.date < $2
	`
	args := []any{filter.FromDate, filter.ToDate}
	argIndex := 3

	if filter.Marketplace != "" {
		query += fmt.Sprintf(" AND c.marketplace = $%d", argIndex)
		args = append(args, filter.Marketplace)
		argIndex++
	}

	if len(filter.ConnectionIDs) > 0 {
		placeholders := make([]string, len(filter.ConnectionIDs))
		for i, connID := range filter.ConnectionIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, connID)
			argIndex++
		}
		query += fmt.Sprintf(" AND d.connection_id IN (%s)", strings.Join(placeholders, ","))
	}

	query += `
		GROUP BY d.connection_id
		ORDER BY payout DESC
	`

	var items []reports.FinancialSummaryItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("financial summary: %w", err)
	}

	report := &reports.FinancialSummaryReport{
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Items:      items,
		TotalItems: len(items),
	}
	for _, item := range items {
		report.TotalPayout = report.TotalPayout.Add(item.Payout)
	}

	return report, nil
}

// journalDocTypes maps journal document type names to their source tables.
var journalDocTypes = []string{"mp_sale", "mp_transaction", "production_output"}

// GetDocumentJournal retrieves documents of all types for the journal view.
func (r *ReportRepo) GetDocumentJournal(ctx context.Context, filter reports.DocumentJournalFilter) (*reports.DocumentJournal, error) {
	docTypes := filter.DocumentTypes
	if len(docTypes) == 0 {
		docTypes = journalDocTypes
	}

	var unions []string
	var args []any
	argIndex := 1

	appendCommonFilters := func(q string) string {
		if filter.FromDate != nil {
			q += fmt.Sprintf(" AND date >= $%d", argIndex)
			args = append(args, *filter.FromDate)
			argIndex++
		}
		if filter.ToDate != nil {
			q += fmt.Sprintf(" AND date < $%d", argIndex)
			args = append(args, *filter.ToDate)
			argIndex++
		}
		if filter.Posted != nil {
			q += fmt.Sprintf(" AND posted = $%d", argIndex)
			args = append(args, *filter.Posted)
			argIndex++
		}
		if filter.NumberContains != "" {
			q += fmt.Sprintf(" AND number ILIKE $%d", argIndex)
			args = append(args, "%"+filter.NumberContains+"%")
			argIndex++
		}
		return q
	}

	appendConnectionFilter := func(q string) string {
		if len(filter.ConnectionIDs) == 0 {
			return q
		}
		placeholders := make([]string, len(filter.ConnectionIDs))
		for i, connID := range filter.ConnectionIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, connID)
			argIndex++
		}
		return q + fmt.Sprintf(" AND connection_id IN (%s)", strings.Join(placeholders, ","))
	}

	for _, docType := range docTypes {
		switch docType {
		case "mp_sale":
			q := `
				SELECT
					id, 'mp_sale' as document_type, number, date, posted,
					marketplace, connection_id,
					COALESCE((SELECT SUM(amount_line) FROM doc_mp_sale_lines WHERE document_id = d.id), 0) as total_amount,
					comment, deletion_mark, created_at, updated_at
				FROM doc_mp_sales d
				WHERE deletion_mark = false
			`
			q = appendCommonFilters(q)
			q = appendConnectionFilter(q)
			unions = append(unions, q)

		case "mp_transaction":
			q := `
				SELECT
					id, 'mp_transaction' as document_type, number, date, posted,
					marketplace, connection_id,
					amount as total_amount,
					comment, deletion_mark, created_at, updated_at
				FROM doc_mp_transactions d
				WHERE deletion_mark = false
			`
			q = appendCommonFilters(q)
			q = appendConnectionFilter(q)
			unions = append(unions, q)

		case "production_output":
			// Local documents carry no marketplace identity
			if len(filter.ConnectionIDs) > 0 {
				continue
			}
			q := `
				SELECT
					id, 'production_output' as document_type, number, date, posted,
					'' as marketplace, NULL::uuid as connection_id,
					amount as total_amount,
					comment, deletion_mark, created_at, updated_at
				FROM doc_production_outputs d
				WHERE deletion_mark = false
			`
			q = appendCommonFilters(q)
			unions = append(unions, q)
		}
	}

	if len(unions) == 0 {
		return &reports.DocumentJournal{
			Items:      []reports.DocumentJournalItem{},
			TotalCount: 0,
			Limit:      filter.Limit,
			Offset:     filter.Offset,
		}, nil
	}

	query := strings.Join(unions, " UNION ALL ")
	query += " ORDER BY " + journalOrderClause(filter.SortBy, filter.SortOrder)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var items []reports.DocumentJournalItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("document journal: %w", err)
	}

	return &reports.DocumentJournal{
		Items:      items,
		TotalCount: len(items),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// journalOrderClause whitelists sort columns; anything else falls back to
// date DESC.
func journalOrderClause(sortBy, sortOrder string) string {
	column := "date"
	switch sortBy {
	case "number":
		column = "number"
	case "amount":
		column = "total_amount"
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	if column == "date" {
		return "date " + direction + ", number"
	}
	return column + " " + direction
}

// GetDocumentTypeSummary returns document counts and totals by type.
func (r *ReportRepo) GetDocumentTypeSummary(ctx context.Context, filter reports.DocumentJournalFilter) ([]reports.DocumentTypeSummary, error) {
	var result []reports.DocumentTypeSummary

	docTypes := filter.DocumentTypes
	if len(docTypes) == 0 {
		docTypes = journalDocTypes
	}

	querier := r.txManager.GetQuerier(ctx)

	for _, docType := range docTypes {
		var summary reports.DocumentTypeSummary
		summary.DocumentType = docType

		var query string
		switch docType {
		case "mp_sale":
			query = `
				SELECT
					COUNT(*) as count,
					COUNT(*) FILTER (WHERE posted = true) as posted_count,
					COALESCE(SUM((SELECT SUM(amount_line) FROM doc_mp_sale_lines WHERE document_id = d.id)), 0) as total_amount
				FROM doc_mp_sales d
				WHERE deletion_mark = false
			`
		case "mp_transaction":
			query = `
				SELECT
					COUNT(*) as count,
					COUNT(*) FILTER (WHERE posted = true) as posted_count,
					COALESCE(SUM(amount), 0) as total_amount
				FROM doc_mp_transactions d
				WHERE deletion_mark = false
			`
		case "production_output":
			query = `
				SELECT
					COUNT(*) as count,
					COUNT(*) FILTER (WHERE posted = true) as posted_count,
					COALESCE(SUM(amount), 0) as total_amount
				FROM doc_production_outputs d
				WHERE deletion_mark = false
			`
		default:
			continue
		}

		var args []any
		argIndex := 1

		if filter.FromDate != nil {
			query += fmt.Sprintf(" AND date >= $%d", argIndex)
			args = append(args, *filter.FromDate)
			argIndex++
		}
		if filter.ToDate != nil {
			query += fmt.Sprintf(" AND date < $%d", argIndex)
			args = append(args, *filter.ToDate)
			argIndex++
		}

		err := querier.QueryRow(ctx, query, args...).Scan(
			&summary.Count,
			&summary.PostedCount,
			&summary.TotalAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("document type summary for %s: %w", docType, err)
		}

		result = append(result, summary)
	}

	return result, nil
}

// Ensure interface compliance
var _ reports.Repository = (*ReportRepo)(nil)
