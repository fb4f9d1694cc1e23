package connection

import (
	"context"

	"mercatus/internal/core/numerator"
	"mercatus/internal/core/tx"
	"mercatus/internal/domain"
)

// Service provides business logic for Connection catalog.
type Service struct {
	*domain.CatalogService[*Connection]
	repo Repository
}

// NewService creates a new Connection service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Connection]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "connection",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// FindByMarketplace retrieves active connections for a marketplace.
func (s *Service) FindByMarketplace(ctx context.Context, marketplace string) ([]*Connection, error) {
	return s.repo.FindByMarketplace(ctx, marketplace)
}
