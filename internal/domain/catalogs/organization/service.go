package organization

import (
	"context"

	"mercatus/internal/core/numerator"
	"mercatus/internal/core/tx"
	"mercatus/internal/domain"
)

// Service provides business logic for Organization catalog.
type Service struct {
	*domain.CatalogService[*Organization]
	repo Repository
}

// NewService creates a new Organization service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Organization]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "organization",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// GetDefault retrieves the default organization.
func (s *Service) GetDefault(ctx context.Context) (*Organization, error) {
	return s.repo.GetDefault(ctx)
}
