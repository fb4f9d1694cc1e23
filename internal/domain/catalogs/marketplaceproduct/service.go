package marketplaceproduct

import (
	"context"
	"fmt"
	"time"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/core/numerator"
	"mercatus/internal/core/tx"
	"mercatus/internal/domain"
)

// Service provides business logic for MarketplaceProduct catalog.
type Service struct {
	*domain.CatalogService[*MarketplaceProduct]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new MarketplaceProduct service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*MarketplaceProduct]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "marketplace product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, item *MarketplaceProduct) error {
	if item.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("MP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}
	return nil
}

// FindBySellerSKU retrieves a listing by seller SKU within a connection.
func (s *Service) FindBySellerSKU(ctx context.Context, connectionID id.ID, sellerSKU string) (*MarketplaceProduct, error) {
	return s.repo.FindBySellerSKU(ctx, connectionID, sellerSKU)
}

// FindByItemID retrieves a listing by marketplace item id within a connection.
func (s *Service) FindByItemID(ctx context.Context, connectionID id.ID, itemID string) (*MarketplaceProduct, error) {
	return s.repo.FindByItemID(ctx, connectionID, itemID)
}

// FindOrCreate returns the listing for (connection, sellerSKU, itemID),
// creating an unmatched record when none exists. Importers and the posting
// resolver both go through this so a listing is registered the first time
// it is ever seen.
func (s *Service) FindOrCreate(ctx context.Context, connectionID id.ID, marketplace, sellerSKU, itemID, title string) (*MarketplaceProduct, error) {
	if sellerSKU != "" {
		existing, err := s.repo.FindBySellerSKU(ctx, connectionID, sellerSKU)
		if err == nil {
			return existing, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
	}
	if itemID != "" {
		existing, err := s.repo.FindByItemID(ctx, connectionID, itemID)
		if err == nil {
			return existing, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
	}

	if title == "" {
		title = sellerSKU
	}
	if title == "" {
		title = itemID
	}

	product := NewMarketplaceProduct(connectionID, marketplace, sellerSKU, itemID, title)
	if err := s.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create marketplace product: %w", err)
	}
	return product, nil
}

// FindUnmatched retrieves listings without a nomenclature link.
func (s *Service) FindUnmatched(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*MarketplaceProduct], error) {
	return s.repo.FindUnmatched(ctx, filter)
}

// Match links a listing to a nomenclature item.
func (s *Service) Match(ctx context.Context, productID, nomenclatureID id.ID) error {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	product.NomenclatureID = &nomenclatureID
	return s.Update(ctx, product)
}
