package mptransaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/mpsale"
	"mercatus/internal/domain/posting"
)

// Mock objects

type stubTx struct{}

func (s *stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	docs map[id.ID]*MarketplaceTransaction
}

func newMemRepo() *memRepo {
	return &memRepo{docs: map[id.ID]*MarketplaceTransaction{}}
}

func (m *memRepo) Create(ctx context.Context, doc *MarketplaceTransaction) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, docID id.ID) (*MarketplaceTransaction, error) {
	if doc, ok := m.docs[docID]; ok {
		return doc, nil
	}
	return nil, apperror.NewNotFound("transaction", docID.String())
}

func (m *memRepo) Update(ctx context.Context, doc *MarketplaceTransaction) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *memRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(m.docs, docID)
	return nil
}

func (m *memRepo) FindByPostingNumber(ctx context.Context, connectionID id.ID, postingNumber string) ([]*MarketplaceTransaction, error) {
	var out []*MarketplaceTransaction
	for _, doc := range m.docs {
		if doc.ConnectionID == connectionID && doc.PostingNumber == postingNumber {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*MarketplaceTransaction], error) {
	return domain.ListResult[*MarketplaceTransaction]{}, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, docID id.ID) (*MarketplaceTransaction, error) {
	return m.GetByID(ctx, docID)
}

type stubSaleLookup struct {
	byNumber map[string]*mpsale.MarketplaceSale
}

func (s *stubSaleLookup) GetByNumber(ctx context.Context, connectionID id.ID, number string) (*mpsale.MarketplaceSale, error) {
	if sale, ok := s.byNumber[number]; ok && sale.ConnectionID == connectionID {
		return sale, nil
	}
	return nil, apperror.NewNotFound("sale", number)
}

type recordingDataWriter struct {
	rows    map[id.ID][]entity.SalesDataEntry
	deletes int
}

func newRecordingDataWriter() *recordingDataWriter {
	return &recordingDataWriter{rows: map[id.ID][]entity.SalesDataEntry{}}
}

func (w *recordingDataWriter) ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesDataEntry) error {
	w.rows[registratorID] = rows
	return nil
}

func (w *recordingDataWriter) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	delete(w.rows, registratorID)
	w.deletes++
	return nil
}

type noopRegisterWriter struct{}

func (noopRegisterWriter) ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesRegisterEntry) error {
	return nil
}

func (noopRegisterWriter) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	return nil
}

type serviceFixture struct {
	svc    *Service
	repo   *memRepo
	sales  *stubSaleLookup
	writer *recordingDataWriter
	connID id.ID
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:   newMemRepo(),
		sales:  &stubSaleLookup{byNumber: map[string]*mpsale.MarketplaceSale{}},
		writer: newRecordingDataWriter(),
		connID: id.New(),
	}
	engine := posting.NewEngine(&stubTx{}, noopRegisterWriter{}, f.writer)
	engine.RegisterDocumentType("MarketplaceTransaction", posting.TargetSalesData)
	f.svc = NewService(f.repo, f.sales, engine, &stubTx{})
	return f
}

func (f *serviceFixture) createTransaction(t *testing.T, opType OperationType, amount, postingNumber string) *MarketplaceTransaction {
	t.Helper()
	doc := NewMarketplaceTransaction(f.connID, "Ozon", "TX-"+postingNumber, opType,
		time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), types.MustMoney(amount))
	doc.PostingNumber = postingNumber
	require.NoError(t, f.svc.Create(context.Background(), doc))
	return doc
}

func TestService_Post_MatchesSale(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	sale := mpsale.NewMarketplaceSale(f.connID, "Ozon", "POST-1", time.Now())
	f.sales.byNumber["POST-1"] = sale

	doc := f.createTransaction(t, OpCommission, "-50", "POST-1")
	require.NoError(t, f.svc.Post(ctx, doc.ID))

	stored, err := f.repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Posted)
	require.NotNil(t, stored.SaleID)
	assert.Equal(t, sale.ID, *stored.SaleID)
	require.NotNil(t, stored.SaleType)
	assert.Equal(t, "MarketplaceSale", *stored.SaleType)

	rows := f.writer.rows[doc.ID]
	require.Len(t, rows, 1)
	assert.True(t, rows[0].CommissionOut.Equal(types.MustMoney("50")))
}

func TestService_Post_MissingSaleIsNotFatal(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	doc := f.createTransaction(t, OpLogistics, "-80", "POST-UNKNOWN")
	require.NoError(t, f.svc.Post(ctx, doc.ID))

	stored, _ := f.repo.GetByID(ctx, doc.ID)
	assert.True(t, stored.Posted)
	assert.Nil(t, stored.SaleID)
	assert.Len(t, f.writer.rows[doc.ID], 1)
}

func TestService_Repost_PicksUpLateSale(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	doc := f.createTransaction(t, OpSale, "1200", "POST-2")
	require.NoError(t, f.svc.Post(ctx, doc.ID))
	stored, _ := f.repo.GetByID(ctx, doc.ID)
	assert.Nil(t, stored.SaleID)

	// Sale arrives later; re-posting refreshes the match.
	sale := mpsale.NewMarketplaceSale(f.connID, "Ozon", "POST-2", time.Now())
	f.sales.byNumber["POST-2"] = sale

	require.NoError(t, f.svc.Post(ctx, doc.ID))
	stored, _ = f.repo.GetByID(ctx, doc.ID)
	require.NotNil(t, stored.SaleID)
	assert.Equal(t, sale.ID, *stored.SaleID)
	assert.Equal(t, 2, stored.PostedVersion)
	assert.Len(t, f.writer.rows[doc.ID], 1)
}

func TestService_Unpost_ClearsSaleLink(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	sale := mpsale.NewMarketplaceSale(f.connID, "Ozon", "POST-3", time.Now())
	f.sales.byNumber["POST-3"] = sale

	doc := f.createTransaction(t, OpSale, "900", "POST-3")
	require.NoError(t, f.svc.Post(ctx, doc.ID))

	require.NoError(t, f.svc.Unpost(ctx, doc.ID))

	stored, _ := f.repo.GetByID(ctx, doc.ID)
	assert.False(t, stored.Posted)
	assert.Nil(t, stored.SaleID)
	assert.Nil(t, stored.SaleType)
	assert.Empty(t, f.writer.rows)
	assert.Equal(t, 1, f.writer.deletes)
}

func TestService_Update_RefusesPosted(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	doc := f.createTransaction(t, OpPenalty, "-10", "POST-4")
	require.NoError(t, f.svc.Post(ctx, doc.ID))

	stored, _ := f.repo.GetByID(ctx, doc.ID)
	assert.Error(t, f.svc.Update(ctx, stored))
	assert.Error(t, f.svc.Delete(ctx, doc.ID))
}
