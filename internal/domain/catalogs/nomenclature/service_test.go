package nomenclature

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/core/numerator"
	"mercatus/internal/domain"
)

type stubTx struct{}

func (s *stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	items map[id.ID]*Nomenclature
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[id.ID]*Nomenclature{}}
}

func (m *memRepo) Create(ctx context.Context, item *Nomenclature) error {
	m.items[item.ID] = item
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, itemID id.ID) (*Nomenclature, error) {
	if item, ok := m.items[itemID]; ok {
		return item, nil
	}
	return nil, apperror.NewNotFound("nomenclature", itemID.String())
}

func (m *memRepo) GetByCode(ctx context.Context, code string) (*Nomenclature, error) {
	for _, item := range m.items {
		if item.Code == code {
			return item, nil
		}
	}
	return nil, apperror.NewNotFound("nomenclature", code)
}

func (m *memRepo) Update(ctx context.Context, item *Nomenclature) error {
	m.items[item.ID] = item
	return nil
}

func (m *memRepo) Delete(ctx context.Context, itemID id.ID) error {
	delete(m.items, itemID)
	return nil
}

func (m *memRepo) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	if item, ok := m.items[itemID]; ok {
		item.DeletionMark = marked
	}
	return nil
}

func (m *memRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Nomenclature], error) {
	return domain.ListResult[*Nomenclature]{}, nil
}

func (m *memRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	_, ok := m.items[itemID]
	return ok, nil
}

func (m *memRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := m.GetByCode(ctx, code)
	return err == nil, nil
}

func (m *memRepo) GetTree(ctx context.Context, rootID *id.ID) ([]*Nomenclature, error) {
	return nil, nil
}

func (m *memRepo) GetPath(ctx context.Context, itemID id.ID) ([]*Nomenclature, error) {
	return nil, nil
}

func (m *memRepo) FindByArticle(ctx context.Context, article string) (*Nomenclature, error) {
	for _, item := range m.items {
		if item.Article != nil && *item.Article == article {
			return item, nil
		}
	}
	return nil, apperror.NewNotFound("nomenclature", article)
}

func (m *memRepo) FindByBarcode(ctx context.Context, barcode string) (*Nomenclature, error) {
	for _, item := range m.items {
		if item.Barcode != nil && *item.Barcode == barcode {
			return item, nil
		}
	}
	return nil, apperror.NewNotFound("nomenclature", barcode)
}

func newTestService(repo *memRepo, gen numerator.Generator) *Service {
	return NewService(repo, &stubTx{}, gen)
}

func TestService_CreateGeneratesCode(t *testing.T) {
	repo := newMemRepo()
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			assert.Equal(t, "NM", cfg.Prefix)
			return "NM-2026-00042", nil
		},
	}
	svc := newTestService(repo, gen)

	item := NewNomenclature("", "Кружка керамическая", TypeGoods)
	require.NoError(t, svc.Create(context.Background(), item))
	assert.Equal(t, "NM-2026-00042", item.Code)
}

func TestService_CreateKeepsProvidedCode(t *testing.T) {
	repo := newMemRepo()
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			t.Fatal("generator must not be called when code is provided")
			return "", nil
		},
	}
	svc := newTestService(repo, gen)

	item := NewNomenclature("NM-001", "Кружка керамическая", TypeGoods)
	require.NoError(t, svc.Create(context.Background(), item))
	assert.Equal(t, "NM-001", item.Code)
}

func TestService_CreateGeneratorFailure(t *testing.T) {
	repo := newMemRepo()
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			return "", errors.New("sequence unavailable")
		},
	}
	svc := newTestService(repo, gen)

	item := NewNomenclature("", "Кружка керамическая", TypeGoods)
	err := svc.Create(context.Background(), item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate code")
	assert.Empty(t, repo.items)
}

func TestService_CreateDuplicateArticle(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &numerator.MockGenerator{})

	article := "ART-100"
	first := NewNomenclature("NM-001", "Кружка", TypeGoods)
	first.Article = &article
	require.NoError(t, svc.Create(context.Background(), first))

	second := NewNomenclature("NM-002", "Кружка белая", TypeGoods)
	second.Article = &article
	err := svc.Create(context.Background(), second)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestService_UpdateOwnArticleNoConflict(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &numerator.MockGenerator{})

	article := "ART-100"
	item := NewNomenclature("NM-001", "Кружка", TypeGoods)
	item.Article = &article
	require.NoError(t, svc.Create(context.Background(), item))

	item.Name = "Кружка керамическая 350мл"
	require.NoError(t, svc.Update(context.Background(), item))
}
