// Package production provides the ProductionOutput repository.
package production

import (
	"context"
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/domain"
)

// Repository defines operations for production output documents.
type Repository interface {
	Create(ctx context.Context, doc *ProductionOutput) error
	GetByID(ctx context.Context, docID id.ID) (*ProductionOutput, error)
	GetByNumber(ctx context.Context, number string) (*ProductionOutput, error)
	Update(ctx context.Context, doc *ProductionOutput) error
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*ProductionOutput], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*ProductionOutput, error)
}

// ListFilter for filtering production output documents.
type ListFilter struct {
	domain.ListFilter

	NomenclatureID *id.ID
	Posted         *bool
	DateFrom       *time.Time
	DateTo         *time.Time
}
