package production

import (
	"context"
	"fmt"
	"time"

	"mercatus/internal/core/id"
	"mercatus/internal/core/numerator"
	"mercatus/internal/core/tx"
	"mercatus/internal/domain"
	"mercatus/internal/domain/enrich"
	"mercatus/internal/domain/posting"
	"mercatus/internal/domain/resolve"
	"mercatus/pkg/logger"
)

// Service provides business operations for production output documents.
type Service struct {
	repo          Repository
	postingEngine *posting.Engine
	resolver      *resolve.Resolver
	numerator     numerator.Generator
	txManager     tx.Manager
}

// NewService creates a new production output service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	resolver *resolve.Resolver,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		postingEngine: postingEngine,
		resolver:      resolver,
		numerator:     numerator,
		txManager:     txManager,
	}
}

// Create creates a new production output document.
func (s *Service) Create(ctx context.Context, doc *ProductionOutput) error {
	// Generate number if empty
	if doc.Number == "" {
		cfg := numerator.DefaultConfig(NumeratorPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("create production output: %w", err)
	}

	logger.Info(ctx, "production output created",
		"id", doc.ID,
		"number", doc.Number)

	return nil
}

// GetByID retrieves a production output document.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*ProductionOutput, error) {
	return s.repo.GetByID(ctx, docID)
}

// Update updates a draft production output document.
func (s *Service) Update(ctx context.Context, doc *ProductionOutput) error {
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

// Delete soft-deletes a draft production output document.
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

// Post finalizes the document and fixes its unit cost. Production output
// feeds no projection tables; posting resolves the article, computes the
// cost and flips the flag.
func (s *Service) Post(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.postingEngine.Post(ctx, doc, posting.Steps{
		Prepare: func(ctx context.Context) error {
			if id.IsNil(doc.NomenclatureID) && doc.Article != nil {
				nomID, outcome := s.resolver.ResolveNomenclatureByArticle(ctx, *doc.Article)
				if outcome.Resolved {
					doc.NomenclatureID = *nomID
				} else {
					logger.Warn(ctx, "production output left without nomenclature",
						"number", doc.Number,
						"reason", outcome.Reason)
				}
			}
			doc.CostOfProduction = enrich.CostOfProduction(doc.Amount, doc.Count)
			return nil
		},
		Save: func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		},
	})
}

// Unpost clears the posted flag and the derived unit cost.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.postingEngine.Unpost(ctx, doc, posting.Steps{
		Save: func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		},
		ClearDerivedRefs: func() {
			doc.CostOfProduction = nil
		},
	})
}

// List retrieves production output documents with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ProductionOutput], error) {
	return s.repo.List(ctx, filter)
}
