package mptransaction

import (
	"context"
	"fmt"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/core/tx"
	"mercatus/internal/domain"
	"mercatus/internal/domain/documents/mpsale"
	"mercatus/internal/domain/posting"
	"mercatus/pkg/logger"
)

// SaleLookup finds sale documents for posting-number matching.
// Implemented by the mpsale repository.
type SaleLookup interface {
	GetByNumber(ctx context.Context, connectionID id.ID, number string) (*mpsale.MarketplaceSale, error)
}

// Service provides business operations for marketplace transactions.
type Service struct {
	repo          Repository
	sales         SaleLookup
	postingEngine *posting.Engine
	txManager     tx.Manager
}

// NewService creates a new marketplace transaction service.
func NewService(
	repo Repository,
	sales SaleLookup,
	postingEngine *posting.Engine,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		sales:         sales,
		postingEngine: postingEngine,
		txManager:     txManager,
	}
}

// Create creates a new transaction document in draft state.
func (s *Service) Create(ctx context.Context, doc *MarketplaceTransaction) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	logger.Info(ctx, "marketplace transaction created",
		"id", doc.ID,
		"number", doc.Number,
		"operation_type", doc.OperationType)

	return nil
}

// GetByID retrieves a transaction document.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*MarketplaceTransaction, error) {
	return s.repo.GetByID(ctx, docID)
}

// Update updates a draft transaction document.
func (s *Service) Update(ctx context.Context, doc *MarketplaceTransaction) error {
	if err := doc.CanModify(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}

// Delete soft-deletes a draft transaction document.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Posted {
		return doc.CanModify()
	}

	return s.repo.Delete(ctx, docID)
}

// Post matches the operation to its sale document and materializes the
// sales data projection.
func (s *Service) Post(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.postingEngine.Post(ctx, doc, posting.Steps{
		Prepare: func(ctx context.Context) error {
			return s.matchSale(ctx, doc)
		},
		Save: func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		},
	})
}

// Unpost clears the posted flag, drops the derived sale link and removes
// the projection rows.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.postingEngine.Unpost(ctx, doc, posting.Steps{
		Save: func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		},
		ClearDerivedRefs: doc.ClearSaleLink,
	})
}

// matchSale links the operation to the sale document carrying the same
// posting number. A missing match is a warning, not an error: settlement
// reports regularly reference postings imported later.
func (s *Service) matchSale(ctx context.Context, doc *MarketplaceTransaction) error {
	doc.ClearSaleLink()

	if doc.PostingNumber == "" {
		return nil
	}

	sale, err := s.sales.GetByNumber(ctx, doc.ConnectionID, doc.PostingNumber)
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Warn(ctx, "transaction posting number matches no sale",
				"number", doc.Number,
				"posting_number", doc.PostingNumber)
			return nil
		}
		return fmt.Errorf("match sale: %w", err)
	}

	saleID := sale.ID
	saleType := sale.GetDocumentType()
	doc.SaleID = &saleID
	doc.SaleType = &saleType
	return nil
}

// FindByPostingNumber retrieves all operations for a fulfillment posting.
func (s *Service) FindByPostingNumber(ctx context.Context, connectionID id.ID, postingNumber string) ([]*MarketplaceTransaction, error) {
	return s.repo.FindByPostingNumber(ctx, connectionID, postingNumber)
}

// List retrieves transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*MarketplaceTransaction], error) {
	return s.repo.List(ctx, filter)
}
