package mpsale

import (
	"context"
	"fmt"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/core/tx"
	"mercatus/internal/domain"
	"mercatus/internal/domain/catalogs/connection"
	"mercatus/internal/domain/enrich"
	"mercatus/internal/domain/posting"
	"mercatus/internal/domain/resolve"
	"mercatus/pkg/logger"
)

// Service provides business operations for marketplace sale documents.
type Service struct {
	repo          Repository
	postingEngine *posting.Engine
	resolver      *resolve.Resolver
	txManager     tx.Manager
	hooks         *domain.HookRegistry[*MarketplaceSale]
}

// NewService creates a new marketplace sale service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	resolver *resolve.Resolver,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		postingEngine: postingEngine,
		resolver:      resolver,
		txManager:     txManager,
		hooks:         domain.NewHookRegistry[*MarketplaceSale](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*MarketplaceSale] {
	return s.hooks
}

// Create creates a new sale document in draft state.
func (s *Service) Create(ctx context.Context, doc *MarketplaceSale) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "marketplace sale created",
		"id", doc.ID,
		"number", doc.Number,
		"marketplace", doc.Marketplace)

	return nil
}

// GetByID retrieves a sale document with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*MarketplaceSale, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates a draft sale document.
func (s *Service) Update(ctx context.Context, doc *MarketplaceSale) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.RunAfterUpdate(ctx, doc)
}

// Delete soft-deletes a draft sale document.
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

// Post resolves references, enriches the document and materializes its
// projections. Re-posting is legal and replaces the projection rows.
func (s *Service) Post(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.postingEngine.Post(ctx, doc, posting.Steps{
		Prepare: func(ctx context.Context) error {
			return s.prepare(ctx, doc)
		},
		Save: func(ctx context.Context) error {
			if err := s.repo.Update(ctx, doc); err != nil {
				return err
			}
			return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
		},
	})
}

// Unpost clears the posted flag and removes the projection rows.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.postingEngine.Unpost(ctx, doc, posting.Steps{
		Save: func(ctx context.Context) error {
			return s.repo.Update(ctx, doc)
		},
	})
}

// prepare runs reference resolution and enrichment on the document.
// The connection and its organization are required: a failed sync aborts
// posting with UnresolvedReference. Line-level matches are optional and
// degrade to warnings, leaving the affected fields empty.
func (s *Service) prepare(ctx context.Context, doc *MarketplaceSale) error {
	// Organization sync from the connection
	orgID, outcome := s.resolver.SyncOrganization(ctx, doc.ConnectionID, doc.OrganizationID)
	if !outcome.Resolved {
		return apperror.NewUnresolvedReference("organization", outcome.Reason)
	}
	doc.OrganizationID = orgID

	doc.HasUnmatchedLines = false
	dealerAmounts := make([]*types.Money, 0, len(doc.Lines))
	marginAmounts := make([]*types.Money, 0, len(doc.Lines))

	for i := range doc.Lines {
		line := &doc.Lines[i]

		// Product / nomenclature auto-fill
		product, outcome := s.resolver.ResolveProduct(ctx,
			doc.ConnectionID, doc.Marketplace, line.SellerSKU, line.ItemID, line.Title)
		if product != nil {
			productID := product.ID
			line.MarketplaceProductID = &productID
			line.NomenclatureID = product.NomenclatureID
		}
		if !outcome.Resolved {
			doc.HasUnmatchedLines = true
			logger.Warn(ctx, "sale line left without nomenclature",
				"document", doc.Number,
				"line_no", line.LineNo,
				"reason", outcome.Reason)
		}

		// Money enrichment
		line.PriceEffective = enrich.EffectivePrice(line.PriceList, line.DiscountTotal)
		line.AmountLine = enrich.LineAmount(line.PriceEffective, line.Qty)

		// Dealer price and margin, only for matched lines
		line.DealerPrice = nil
		line.MarginPro = nil
		if line.NomenclatureID != nil {
			price, _ := s.resolver.DealerPrice(ctx, *line.NomenclatureID, doc.SaleDate)
			line.DealerPrice = price

			// Wildberries settles through periodic financial reports, so
			// the margin is estimated from the planned commission until
			// the report arrives. Other marketplaces report effective
			// prices directly.
			if doc.Marketplace == connection.MarketplaceWildberries {
				commission, outcome := s.resolver.PlannedCommission(ctx, doc.ConnectionID)
				if outcome.Resolved {
					line.MarginPro = enrich.MarginProWithCommission(line.PriceEffective, commission, price)
				} else {
					line.MarginPro = enrich.MarginPro(&line.PriceEffective, price)
				}
			} else {
				line.MarginPro = enrich.MarginPro(&line.PriceEffective, price)
			}
		}

		dealerAmount := enrich.DealerAmount(line.DealerPrice, line.Qty)
		dealerAmounts = append(dealerAmounts, dealerAmount)

		var marginAmount *types.Money
		if dealerAmount != nil {
			m := line.AmountLine.Sub(*dealerAmount)
			marginAmount = &m
		}
		marginAmounts = append(marginAmounts, marginAmount)
	}

	doc.TotalDealerAmount = enrich.SumSkippingNil(dealerAmounts)
	doc.TotalMargin = enrich.SumSkippingNil(marginAmounts)

	return nil
}

// GetByNumber retrieves a sale by its marketplace document number.
func (s *Service) GetByNumber(ctx context.Context, connectionID id.ID, number string) (*MarketplaceSale, error) {
	return s.repo.GetByNumber(ctx, connectionID, number)
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*MarketplaceSale], error) {
	return s.repo.List(ctx, filter)
}
