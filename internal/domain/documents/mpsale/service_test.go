package mpsale

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
	"mercatus/internal/domain/catalogs/connection"
	"mercatus/internal/domain/catalogs/marketplaceproduct"
	"mercatus/internal/domain/catalogs/nomenclature"
	"mercatus/internal/domain/catalogs/organization"
	"mercatus/internal/domain/posting"
	"mercatus/internal/domain/resolve"
)

// Mock objects

type stubTx struct{}

func (s *stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	docs  map[id.ID]*MarketplaceSale
	lines map[id.ID][]MarketplaceSaleLine
}

func newMemRepo() *memRepo {
	return &memRepo{
		docs:  map[id.ID]*MarketplaceSale{},
		lines: map[id.ID][]MarketplaceSaleLine{},
	}
}

func (m *memRepo) Create(ctx context.Context, doc *MarketplaceSale) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, docID id.ID) (*MarketplaceSale, error) {
	if doc, ok := m.docs[docID]; ok {
		return doc, nil
	}
	return nil, apperror.NewNotFound("sale", docID.String())
}

func (m *memRepo) GetByNumber(ctx context.Context, connectionID id.ID, number string) (*MarketplaceSale, error) {
	for _, doc := range m.docs {
		if doc.ConnectionID == connectionID && doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("sale", number)
}

func (m *memRepo) Update(ctx context.Context, doc *MarketplaceSale) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *memRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(m.docs, docID)
	return nil
}

func (m *memRepo) GetLines(ctx context.Context, docID id.ID) ([]MarketplaceSaleLine, error) {
	return m.lines[docID], nil
}

func (m *memRepo) SaveLines(ctx context.Context, docID id.ID, lines []MarketplaceSaleLine) error {
	m.lines[docID] = lines
	return nil
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*MarketplaceSale], error) {
	return domain.ListResult[*MarketplaceSale]{}, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, docID id.ID) (*MarketplaceSale, error) {
	return m.GetByID(ctx, docID)
}

// stubCatalogRepo provides the CatalogRepository surface over a map.
// Only GetByID is meaningful here; the rest exists to satisfy the interface.
type stubCatalogRepo[T entity.Validatable] struct {
	byID map[id.ID]T
	name string
}

func (s *stubCatalogRepo[T]) Create(ctx context.Context, e T) error { return nil }

func (s *stubCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	if e, ok := s.byID[entityID]; ok {
		return e, nil
	}
	var zero T
	return zero, apperror.NewNotFound(s.name, entityID.String())
}

func (s *stubCatalogRepo[T]) GetByCode(ctx context.Context, code string) (T, error) {
	var zero T
	return zero, apperror.NewNotFound(s.name, code)
}

func (s *stubCatalogRepo[T]) Update(ctx context.Context, e T) error { return nil }

func (s *stubCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error { return nil }

func (s *stubCatalogRepo[T]) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	return nil
}

func (s *stubCatalogRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	return domain.ListResult[T]{}, nil
}

func (s *stubCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	_, ok := s.byID[entityID]
	return ok, nil
}

func (s *stubCatalogRepo[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (s *stubCatalogRepo[T]) GetTree(ctx context.Context, rootID *id.ID) ([]T, error) {
	return nil, nil
}

func (s *stubCatalogRepo[T]) GetPath(ctx context.Context, entityID id.ID) ([]T, error) {
	return nil, nil
}

type stubConnectionRepo struct {
	stubCatalogRepo[*connection.Connection]
}

func (s *stubConnectionRepo) FindByMarketplace(ctx context.Context, marketplace string) ([]*connection.Connection, error) {
	return nil, nil
}

type stubOrganizationRepo struct {
	stubCatalogRepo[*organization.Organization]
}

func (s *stubOrganizationRepo) GetDefault(ctx context.Context) (*organization.Organization, error) {
	return nil, apperror.NewNotFound("organization", "default")
}

type stubNomenclatureRepo struct {
	stubCatalogRepo[*nomenclature.Nomenclature]
}

func (s *stubNomenclatureRepo) FindByArticle(ctx context.Context, article string) (*nomenclature.Nomenclature, error) {
	return nil, apperror.NewNotFound("nomenclature", article)
}

func (s *stubNomenclatureRepo) FindByBarcode(ctx context.Context, barcode string) (*nomenclature.Nomenclature, error) {
	return nil, apperror.NewNotFound("nomenclature", barcode)
}

// stubProductFinder matches listings by seller SKU.
type stubProductFinder struct {
	bySKU map[string]*marketplaceproduct.MarketplaceProduct
}

func (s *stubProductFinder) FindOrCreate(ctx context.Context, connectionID id.ID, marketplace, sellerSKU, itemID, title string) (*marketplaceproduct.MarketplaceProduct, error) {
	if p, ok := s.bySKU[sellerSKU]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("marketplace product", sellerSKU)
}

type stubPriceLookup struct {
	onDate map[id.ID]*types.Money
}

func (s *stubPriceLookup) PriceOnDate(ctx context.Context, nomenclatureID id.ID, date time.Time) (*types.Money, error) {
	return s.onDate[nomenclatureID], nil
}

func (s *stubPriceLookup) LastNonZeroPrice(ctx context.Context, nomenclatureID id.ID) (*types.Money, error) {
	return nil, nil
}

type recordingRegisterWriter struct {
	rows map[id.ID][]entity.SalesRegisterEntry
}

func (w *recordingRegisterWriter) ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesRegisterEntry) error {
	w.rows[registratorID] = rows
	return nil
}

func (w *recordingRegisterWriter) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	delete(w.rows, registratorID)
	return nil
}

type recordingDataWriter struct {
	rows map[id.ID][]entity.SalesDataEntry
}

func (w *recordingDataWriter) ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesDataEntry) error {
	w.rows[registratorID] = rows
	return nil
}

func (w *recordingDataWriter) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	delete(w.rows, registratorID)
	return nil
}

type serviceFixture struct {
	svc      *Service
	repo     *memRepo
	register *recordingRegisterWriter
	data     *recordingDataWriter
	conn     *connection.Connection
	noms     *stubNomenclatureRepo
	products *stubProductFinder
	prices   *stubPriceLookup
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:     newMemRepo(),
		register: &recordingRegisterWriter{rows: map[id.ID][]entity.SalesRegisterEntry{}},
		data:     &recordingDataWriter{rows: map[id.ID][]entity.SalesDataEntry{}},
		noms:     &stubNomenclatureRepo{stubCatalogRepo[*nomenclature.Nomenclature]{byID: map[id.ID]*nomenclature.Nomenclature{}, name: "nomenclature"}},
		products: &stubProductFinder{bySKU: map[string]*marketplaceproduct.MarketplaceProduct{}},
		prices:   &stubPriceLookup{onDate: map[id.ID]*types.Money{}},
	}

	org := organization.NewOrganization("ORG-001", "ООО Ромашка")
	orgs := &stubOrganizationRepo{stubCatalogRepo[*organization.Organization]{byID: map[id.ID]*organization.Organization{org.ID: org}, name: "organization"}}

	f.conn = connection.NewConnection("CONN-001", "Ozon Main", "Ozon")
	f.conn.OrganizationID = &org.ID
	conns := &stubConnectionRepo{stubCatalogRepo[*connection.Connection]{byID: map[id.ID]*connection.Connection{f.conn.ID: f.conn}, name: "connection"}}

	resolver := resolve.NewResolver(conns, orgs, f.noms, f.products, f.prices)

	engine := posting.NewEngine(&stubTx{}, f.register, f.data)
	engine.RegisterDocumentType("MarketplaceSale", posting.TargetSalesRegister, posting.TargetSalesData)

	f.svc = NewService(f.repo, engine, resolver, &stubTx{})
	return f
}

// matchItem registers a nomenclature item with a dealer price and a matched
// listing for the given seller SKU.
func (f *serviceFixture) matchItem(sellerSKU, dealerPrice string) *nomenclature.Nomenclature {
	item := nomenclature.NewNomenclature("NM-"+sellerSKU, "Товар "+sellerSKU, nomenclature.TypeGoods)
	f.noms.byID[item.ID] = item

	price := types.MustMoney(dealerPrice)
	f.prices.onDate[item.ID] = &price

	product := marketplaceproduct.NewMarketplaceProduct(f.conn.ID, "Ozon", sellerSKU, "", "Товар "+sellerSKU)
	product.NomenclatureID = &item.ID
	f.products.bySKU[sellerSKU] = product

	return item
}

func (f *serviceFixture) createSale(t *testing.T) *MarketplaceSale {
	t.Helper()
	doc := NewMarketplaceSale(f.conn.ID, "Ozon", "ORD-1001",
		time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
	doc.AddLine("SKU-1", "3001", "Кружка керамическая",
		types.NewQuantityFromFloat64(1), types.MustMoney("100"), types.MustMoney("0"))
	doc.AddLine("SKU-2", "3002", "Тарелка глубокая",
		types.NewQuantityFromFloat64(2), types.MustMoney("50"), types.MustMoney("10"))
	require.NoError(t, f.svc.Create(context.Background(), doc))
	return doc
}

func TestService_Post_EnrichesLinesAndTotals(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	item := f.matchItem("SKU-1", "80")
	doc := f.createSale(t)

	require.NoError(t, f.svc.Post(ctx, doc.ID))

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Posted)
	require.NotNil(t, stored.OrganizationID)
	assert.Equal(t, *f.conn.OrganizationID, *stored.OrganizationID)

	// Matched line: effective price 100, dealer price 80, margin 25%.
	matched := stored.Lines[0]
	require.NotNil(t, matched.NomenclatureID)
	assert.Equal(t, item.ID, *matched.NomenclatureID)
	assert.True(t, matched.PriceEffective.Equal(types.MustMoney("100")))
	assert.True(t, matched.AmountLine.Equal(types.MustMoney("100")))
	require.NotNil(t, matched.DealerPrice)
	assert.True(t, matched.DealerPrice.Equal(types.MustMoney("80")))
	require.NotNil(t, matched.MarginPro)
	assert.True(t, matched.MarginPro.Equal(types.MustMoney("25")))

	// Unmatched line posts in degraded mode with empty derived fields.
	unmatched := stored.Lines[1]
	assert.Nil(t, unmatched.NomenclatureID)
	assert.Nil(t, unmatched.DealerPrice)
	assert.Nil(t, unmatched.MarginPro)
	assert.True(t, unmatched.AmountLine.Equal(types.MustMoney("80")))

	// Only the matched line contributes to the document totals.
	assert.True(t, stored.HasUnmatchedLines)
	assert.True(t, stored.TotalDealerAmount.Equal(types.MustMoney("80")))
	assert.True(t, stored.TotalMargin.Equal(types.MustMoney("20")))

	assert.Len(t, f.register.rows[doc.ID], 2)
	assert.Len(t, f.data.rows[doc.ID], 2)
}

func TestService_Post_NoUnmatchedFlagWhenAllLinesMatch(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.matchItem("SKU-1", "80")
	f.matchItem("SKU-2", "30")
	doc := f.createSale(t)

	require.NoError(t, f.svc.Post(ctx, doc.ID))

	stored, _ := f.svc.GetByID(ctx, doc.ID)
	assert.False(t, stored.HasUnmatchedLines)
	// 80*1 + 30*2 dealer, (100-80) + (80-60) margin.
	assert.True(t, stored.TotalDealerAmount.Equal(types.MustMoney("140")))
	assert.True(t, stored.TotalMargin.Equal(types.MustMoney("40")))
}

func TestService_Post_UnknownConnectionAborts(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	doc := NewMarketplaceSale(id.New(), "Ozon", "ORD-2001",
		time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
	doc.AddLine("SKU-1", "3001", "Кружка керамическая",
		types.NewQuantityFromFloat64(1), types.MustMoney("100"), types.MustMoney("0"))
	require.NoError(t, f.svc.Create(ctx, doc))

	err := f.svc.Post(ctx, doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsUnresolvedReference(err))

	stored, _ := f.repo.GetByID(ctx, doc.ID)
	assert.False(t, stored.Posted)
	assert.Empty(t, f.register.rows)
	assert.Empty(t, f.data.rows)
}

func TestService_Post_ConnectionWithoutOrganizationAborts(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.conn.OrganizationID = nil
	f.matchItem("SKU-1", "80")
	f.matchItem("SKU-2", "30")
	doc := f.createSale(t)

	err := f.svc.Post(ctx, doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsUnresolvedReference(err))
}

func TestService_Repost_PicksUpLateMatch(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.matchItem("SKU-1", "80")
	doc := f.createSale(t)
	require.NoError(t, f.svc.Post(ctx, doc.ID))

	stored, _ := f.svc.GetByID(ctx, doc.ID)
	assert.True(t, stored.HasUnmatchedLines)

	// The second listing gets matched later; re-posting refreshes
	// the lines, the flag and the totals.
	f.matchItem("SKU-2", "30")
	require.NoError(t, f.svc.Post(ctx, doc.ID))

	stored, _ = f.svc.GetByID(ctx, doc.ID)
	assert.False(t, stored.HasUnmatchedLines)
	assert.True(t, stored.TotalDealerAmount.Equal(types.MustMoney("140")))
	assert.Equal(t, 2, stored.PostedVersion)
	assert.Len(t, f.register.rows[doc.ID], 2)
}

func TestService_Unpost_RemovesProjections(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.matchItem("SKU-1", "80")
	doc := f.createSale(t)
	require.NoError(t, f.svc.Post(ctx, doc.ID))

	require.NoError(t, f.svc.Unpost(ctx, doc.ID))

	stored, _ := f.svc.GetByID(ctx, doc.ID)
	assert.False(t, stored.Posted)
	assert.Empty(t, f.register.rows)
	assert.Empty(t, f.data.rows)
}
