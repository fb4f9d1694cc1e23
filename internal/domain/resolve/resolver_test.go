package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
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
)

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
	byArticle map[string]*nomenclature.Nomenclature
}

func (s *stubNomenclatureRepo) FindByArticle(ctx context.Context, article string) (*nomenclature.Nomenclature, error) {
	if item, ok := s.byArticle[article]; ok {
		return item, nil
	}
	return nil, apperror.NewNotFound("nomenclature", article)
}

func (s *stubNomenclatureRepo) FindByBarcode(ctx context.Context, barcode string) (*nomenclature.Nomenclature, error) {
	return nil, apperror.NewNotFound("nomenclature", barcode)
}

// The catalog service is what production wiring hands the resolver.
var _ ProductFinder = (*marketplaceproduct.Service)(nil)

type stubProductFinder struct {
	product *marketplaceproduct.MarketplaceProduct
	err     error
}

func (s *stubProductFinder) FindOrCreate(ctx context.Context, connectionID id.ID, marketplace, sellerSKU, itemID, title string) (*marketplaceproduct.MarketplaceProduct, error) {
	return s.product, s.err
}

// priceCall records which lookup the resolver tried.
type priceCall struct {
	method string
	id     id.ID
}

type stubPriceLookup struct {
	onDate      map[id.ID]*types.Money
	lastNonZero map[id.ID]*types.Money
	calls       []priceCall
}

func (s *stubPriceLookup) PriceOnDate(ctx context.Context, nomenclatureID id.ID, date time.Time) (*types.Money, error) {
	s.calls = append(s.calls, priceCall{"PriceOnDate", nomenclatureID})
	if p, ok := s.onDate[nomenclatureID]; ok {
		return p, nil
	}
	return nil, nil
}

func (s *stubPriceLookup) LastNonZeroPrice(ctx context.Context, nomenclatureID id.ID) (*types.Money, error) {
	s.calls = append(s.calls, priceCall{"LastNonZeroPrice", nomenclatureID})
	if p, ok := s.lastNonZero[nomenclatureID]; ok {
		return p, nil
	}
	return nil, nil
}

type fixture struct {
	resolver *Resolver
	conns    *stubConnectionRepo
	orgs     *stubOrganizationRepo
	noms     *stubNomenclatureRepo
	products *stubProductFinder
	prices   *stubPriceLookup
}

func newFixture() *fixture {
	f := &fixture{
		conns:    &stubConnectionRepo{stubCatalogRepo[*connection.Connection]{byID: map[id.ID]*connection.Connection{}, name: "connection"}},
		orgs:     &stubOrganizationRepo{stubCatalogRepo[*organization.Organization]{byID: map[id.ID]*organization.Organization{}, name: "organization"}},
		noms:     &stubNomenclatureRepo{stubCatalogRepo: stubCatalogRepo[*nomenclature.Nomenclature]{byID: map[id.ID]*nomenclature.Nomenclature{}, name: "nomenclature"}, byArticle: map[string]*nomenclature.Nomenclature{}},
		products: &stubProductFinder{},
		prices:   &stubPriceLookup{onDate: map[id.ID]*types.Money{}, lastNonZero: map[id.ID]*types.Money{}},
	}
	f.resolver = NewResolver(f.conns, f.orgs, f.noms, f.products, f.prices)
	return f
}

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func TestSyncOrganization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	org := organization.NewOrganization("ORG-001", "Org")
	f.orgs.byID[org.ID] = org

	conn := connection.NewConnection("CONN-001", "WB Main", "WB")
	conn.OrganizationID = &org.ID
	f.conns.byID[conn.ID] = conn

	resolved, outcome := f.resolver.SyncOrganization(ctx, conn.ID, nil)
	require.True(t, outcome.Resolved)
	require.NotNil(t, resolved)
	assert.Equal(t, org.ID, *resolved)

	// Already synced: same pointer comes back.
	same, outcome := f.resolver.SyncOrganization(ctx, conn.ID, resolved)
	assert.True(t, outcome.Resolved)
	assert.Equal(t, resolved, same)
}

func TestSyncOrganization_Degrades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := id.New()

	// Unknown connection keeps the current value.
	got, outcome := f.resolver.SyncOrganization(ctx, id.New(), &current)
	assert.False(t, outcome.Resolved)
	assert.NotEmpty(t, outcome.Reason)
	require.NotNil(t, got)
	assert.Equal(t, current, *got)

	// Connection without organization.
	conn := connection.NewConnection("CONN-002", "Bare", "Ozon")
	f.conns.byID[conn.ID] = conn
	got, outcome = f.resolver.SyncOrganization(ctx, conn.ID, nil)
	assert.False(t, outcome.Resolved)
	assert.Nil(t, got)

	// Connection pointing at a vanished organization.
	missing := id.New()
	conn2 := connection.NewConnection("CONN-003", "Dangling", "WB")
	conn2.OrganizationID = &missing
	f.conns.byID[conn2.ID] = conn2
	got, outcome = f.resolver.SyncOrganization(ctx, conn2.ID, &current)
	assert.False(t, outcome.Resolved)
	require.NotNil(t, got)
	assert.Equal(t, current, *got)
}

func TestResolveProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	connID := id.New()

	nomID := id.New()
	matched := marketplaceproduct.NewMarketplaceProduct(connID, "WB", "SKU-1", "100", "Item")
	matched.NomenclatureID = &nomID
	f.products.product = matched

	link, outcome := f.resolver.ResolveProduct(ctx, connID, "WB", "SKU-1", "100", "Item")
	assert.True(t, outcome.Resolved)
	require.NotNil(t, link)
	assert.Equal(t, &nomID, link.NomenclatureID)
}

func TestResolveProduct_Unmatched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	connID := id.New()

	// Listing registered but not matched: link comes back, outcome does not.
	f.products.product = marketplaceproduct.NewMarketplaceProduct(connID, "WB", "SKU-2", "101", "Item")
	link, outcome := f.resolver.ResolveProduct(ctx, connID, "WB", "SKU-2", "101", "Item")
	assert.False(t, outcome.Resolved)
	assert.NotNil(t, link)

	// No identifiers at all.
	link, outcome = f.resolver.ResolveProduct(ctx, connID, "WB", "", "", "Item")
	assert.False(t, outcome.Resolved)
	assert.Nil(t, link)

	// Lookup failure degrades instead of erroring.
	f.products.product = nil
	f.products.err = errors.New("db down")
	link, outcome = f.resolver.ResolveProduct(ctx, connID, "WB", "SKU-3", "102", "Item")
	assert.False(t, outcome.Resolved)
	assert.Nil(t, link)
}

func TestPlannedCommission(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	conn := connection.NewConnection("CONN-001", "WB Main", "WB")
	conn.PlannedCommissionPercent = decimal.NewFromFloat(19.5)
	f.conns.byID[conn.ID] = conn

	percent, outcome := f.resolver.PlannedCommission(ctx, conn.ID)
	assert.True(t, outcome.Resolved)
	assert.True(t, percent.Equal(decimal.NewFromFloat(19.5)))

	// No commission configured.
	bare := connection.NewConnection("CONN-002", "Bare", "Ozon")
	f.conns.byID[bare.ID] = bare
	percent, outcome = f.resolver.PlannedCommission(ctx, bare.ID)
	assert.False(t, outcome.Resolved)
	assert.True(t, percent.IsZero())

	_, outcome = f.resolver.PlannedCommission(ctx, id.New())
	assert.False(t, outcome.Resolved)
}

func TestResolveNomenclatureByArticle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	item := nomenclature.NewNomenclature("NM-001", "Мука пшеничная", nomenclature.TypeGoods)
	f.noms.byArticle["FLOUR-01"] = item

	got, outcome := f.resolver.ResolveNomenclatureByArticle(ctx, "FLOUR-01")
	require.True(t, outcome.Resolved)
	require.NotNil(t, got)
	assert.Equal(t, item.ID, *got)

	got, outcome = f.resolver.ResolveNomenclatureByArticle(ctx, "UNKNOWN")
	assert.False(t, outcome.Resolved)
	assert.Nil(t, got)

	got, outcome = f.resolver.ResolveNomenclatureByArticle(ctx, "")
	assert.False(t, outcome.Resolved)
	assert.Nil(t, got)
}

func TestDealerPrice_FallbackChain(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("price on date for the item", func(t *testing.T) {
		f := newFixture()
		itemID := id.New()
		f.noms.byID[itemID] = nomenclature.NewNomenclature("NM-001", "Item", nomenclature.TypeGoods)
		f.prices.onDate[itemID] = money("450")

		price, outcome := f.resolver.DealerPrice(ctx, itemID, asOf)
		require.True(t, outcome.Resolved)
		assert.True(t, price.Equal(types.MustMoney("450")))
		require.Len(t, f.prices.calls, 1)
		assert.Equal(t, priceCall{"PriceOnDate", itemID}, f.prices.calls[0])
	})

	t.Run("falls through to the base item", func(t *testing.T) {
		f := newFixture()
		base := nomenclature.NewNomenclature("NM-BASE", "Base", nomenclature.TypeGoods)
		item := nomenclature.NewNomenclature("NM-VAR", "Variant", nomenclature.TypeGoods)
		item.BaseNomenclatureID = &base.ID
		f.noms.byID[item.ID] = item
		f.noms.byID[base.ID] = base
		f.prices.onDate[base.ID] = money("400")

		price, outcome := f.resolver.DealerPrice(ctx, item.ID, asOf)
		require.True(t, outcome.Resolved)
		assert.True(t, price.Equal(types.MustMoney("400")))
		require.Len(t, f.prices.calls, 2)
		assert.Equal(t, priceCall{"PriceOnDate", item.ID}, f.prices.calls[0])
		assert.Equal(t, priceCall{"PriceOnDate", base.ID}, f.prices.calls[1])
	})

	t.Run("falls through to last non-zero price", func(t *testing.T) {
		f := newFixture()
		itemID := id.New()
		f.noms.byID[itemID] = nomenclature.NewNomenclature("NM-001", "Item", nomenclature.TypeGoods)
		f.prices.lastNonZero[itemID] = money("390.50")

		price, outcome := f.resolver.DealerPrice(ctx, itemID, asOf)
		require.True(t, outcome.Resolved)
		assert.True(t, price.Equal(types.MustMoney("390.50")))
	})

	t.Run("base item last non-zero is the final step", func(t *testing.T) {
		f := newFixture()
		base := nomenclature.NewNomenclature("NM-BASE", "Base", nomenclature.TypeGoods)
		item := nomenclature.NewNomenclature("NM-VAR", "Variant", nomenclature.TypeGoods)
		item.BaseNomenclatureID = &base.ID
		f.noms.byID[item.ID] = item
		f.prices.lastNonZero[base.ID] = money("380")

		price, outcome := f.resolver.DealerPrice(ctx, item.ID, asOf)
		require.True(t, outcome.Resolved)
		assert.True(t, price.Equal(types.MustMoney("380")))
		require.Len(t, f.prices.calls, 4)
		assert.Equal(t, priceCall{"LastNonZeroPrice", base.ID}, f.prices.calls[3])
	})

	t.Run("nothing found", func(t *testing.T) {
		f := newFixture()
		itemID := id.New()
		f.noms.byID[itemID] = nomenclature.NewNomenclature("NM-001", "Item", nomenclature.TypeGoods)

		price, outcome := f.resolver.DealerPrice(ctx, itemID, asOf)
		assert.False(t, outcome.Resolved)
		assert.Nil(t, price)
		// No base item: only the two item lookups run.
		assert.Len(t, f.prices.calls, 2)
	})

	t.Run("zero price is not a price", func(t *testing.T) {
		f := newFixture()
		itemID := id.New()
		f.noms.byID[itemID] = nomenclature.NewNomenclature("NM-001", "Item", nomenclature.TypeGoods)
		f.prices.onDate[itemID] = money("0")
		f.prices.lastNonZero[itemID] = money("120")

		price, outcome := f.resolver.DealerPrice(ctx, itemID, asOf)
		require.True(t, outcome.Resolved)
		assert.True(t, price.Equal(types.MustMoney("120")))
	})

	t.Run("nil nomenclature", func(t *testing.T) {
		f := newFixture()
		price, outcome := f.resolver.DealerPrice(ctx, id.Nil(), asOf)
		assert.False(t, outcome.Resolved)
		assert.Nil(t, price)
		assert.Empty(t, f.prices.calls)
	})
}
