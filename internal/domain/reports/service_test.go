package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	salesFilter     SalesSummaryFilter
	financialFilter FinancialSummaryFilter
	journalFilter   DocumentJournalFilter
	summaryCalls    int
	summaryErr      error
}

func (s *stubRepo) GetSalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummaryReport, error) {
	s.salesFilter = filter
	return &SalesSummaryReport{FromDate: filter.FromDate, ToDate: filter.ToDate}, nil
}

func (s *stubRepo) GetFinancialSummary(ctx context.Context, filter FinancialSummaryFilter) (*FinancialSummaryReport, error) {
	s.financialFilter = filter
	return &FinancialSummaryReport{FromDate: filter.FromDate, ToDate: filter.ToDate}, nil
}

func (s *stubRepo) GetDocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error) {
	s.journalFilter = filter
	return &DocumentJournal{Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *stubRepo) GetDocumentTypeSummary(ctx context.Context, filter DocumentJournalFilter) ([]DocumentTypeSummary, error) {
	s.summaryCalls++
	if s.summaryErr != nil {
		return nil, s.summaryErr
	}
	return []DocumentTypeSummary{{DocumentType: "mp_sale", Count: 3}}, nil
}

func period() (time.Time, time.Time) {
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func TestService_GetSalesSummary_RequiresPeriod(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.GetSalesSummary(context.Background(), SalesSummaryFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	from, to := period()
	_, err = svc.GetSalesSummary(context.Background(), SalesSummaryFilter{FromDate: to, ToDate: from})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before")
}

func TestService_GetSalesSummary_ClampsPagination(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	from, to := period()

	_, err := svc.GetSalesSummary(context.Background(), SalesSummaryFilter{FromDate: from, ToDate: to})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.salesFilter.Limit)

	_, err = svc.GetSalesSummary(context.Background(), SalesSummaryFilter{FromDate: from, ToDate: to, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1000, repo.salesFilter.Limit)
}

func TestService_GetFinancialSummary_RequiresPeriod(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.GetFinancialSummary(context.Background(), FinancialSummaryFilter{})
	require.Error(t, err)
}

func TestService_GetDocumentJournal_Defaults(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	journal, err := svc.GetDocumentJournal(context.Background(), DocumentJournalFilter{})
	require.NoError(t, err)

	assert.Equal(t, 50, repo.journalFilter.Limit)
	assert.Equal(t, "date", repo.journalFilter.SortBy)
	assert.Equal(t, "desc", repo.journalFilter.SortOrder)

	// First page carries the per-type summary
	require.Len(t, journal.Summary, 1)
	assert.Equal(t, 1, repo.summaryCalls)
}

func TestService_GetDocumentJournal_NoSummaryOnLaterPages(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	journal, err := svc.GetDocumentJournal(context.Background(), DocumentJournalFilter{Offset: 50})
	require.NoError(t, err)

	assert.Empty(t, journal.Summary)
	assert.Equal(t, 0, repo.summaryCalls)
}

func TestService_GetDocumentJournal_SummaryFailureIsNotFatal(t *testing.T) {
	repo := &stubRepo{summaryErr: errors.New("summary broken")}
	svc := NewService(repo)

	journal, err := svc.GetDocumentJournal(context.Background(), DocumentJournalFilter{})
	require.NoError(t, err)
	assert.Empty(t, journal.Summary)
}
