package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"mercatus/internal/core/apperror"
	"mercatus/internal/domain/catalogs/nomenclature"
	"mercatus/internal/infrastructure/storage/postgres"
)

const nomenclatureTable = "cat_nomenclature"

// NomenclatureRepo implements nomenclature.Repository.
type NomenclatureRepo struct {
	*BaseCatalogRepo[*nomenclature.Nomenclature]
}

// NewNomenclatureRepo creates a new nomenclature repository.
func NewNomenclatureRepo(txm *postgres.TxManager) *NomenclatureRepo {
	return &NomenclatureRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*nomenclature.Nomenclature](
			txm,
			nomenclatureTable,
			postgres.ExtractDBColumns[nomenclature.Nomenclature](),
			func() *nomenclature.Nomenclature { return &nomenclature.Nomenclature{} },
		),
	}
}

// FindByArticle retrieves nomenclature by article.
func (r *NomenclatureRepo) FindByArticle(ctx context.Context, article string) (*nomenclature.Nomenclature, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"article": article}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("nomenclature", article)
		}
		return nil, err
	}
	return item, nil
}

// FindByBarcode retrieves nomenclature by barcode.
func (r *NomenclatureRepo) FindByBarcode(ctx context.Context, barcode string) (*nomenclature.Nomenclature, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("nomenclature", barcode)
		}
		return nil, err
	}
	return item, nil
}
