package salesregister

import (
	"context"
	"fmt"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
	"mercatus/pkg/logger"
)

// Service provides operations on the sales register projection.
// Transactions are managed by the caller (posting engine).
type Service struct {
	repo Repository
}

// NewService creates a new sales register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ReplaceRows replaces all rows for a registrator with the new set.
// Delete-then-insert keeps re-posting idempotent even when the row set
// shrinks between postings.
func (s *Service) ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesRegisterEntry) error {
	if err := s.repo.DeleteByRegistrator(ctx, registratorID); err != nil {
		return fmt.Errorf("delete sales register rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.repo.InsertRows(ctx, rows); err != nil {
		return fmt.Errorf("insert sales register rows: %w", err)
	}

	logger.Info(ctx, "sales register rows replaced",
		"registrator_id", registratorID,
		"count", len(rows),
	)
	return nil
}

// DeleteByRegistrator removes all rows for a registrator (unposting).
func (s *Service) DeleteByRegistrator(ctx context.Context, registratorID id.ID) error {
	if err := s.repo.DeleteByRegistrator(ctx, registratorID); err != nil {
		return fmt.Errorf("delete sales register rows: %w", err)
	}
	return nil
}

// GetByRegistrator retrieves all rows produced by a document.
func (s *Service) GetByRegistrator(ctx context.Context, registratorID id.ID) ([]entity.SalesRegisterEntry, error) {
	return s.repo.GetByRegistrator(ctx, registratorID)
}

// List retrieves rows for reporting.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]entity.SalesRegisterEntry, error) {
	return s.repo.List(ctx, filter)
}
