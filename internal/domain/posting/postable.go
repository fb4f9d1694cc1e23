// Package posting provides the document posting engine.
// Posting turns an editable document into an accounting fact: the document
// is flagged as posted and its projection rows are materialized in the same
// transaction. Unposting reverses both.
package posting

import (
	"context"
	"time"

	"mercatus/internal/core/entity"
	"mercatus/internal/core/id"
)

// Target identifies a projection a document type writes to.
type Target string

const (
	TargetSalesRegister Target = "sales_register"
	TargetSalesData     Target = "sales_data"
)

// Postable is implemented by documents that can be posted.
// entity.Document provides the flag/version accessors; each document type
// adds GetDocumentType and GenerateProjections.
type Postable interface {
	GetID() id.ID
	GetDocumentType() string
	GetDate() time.Time
	GetPostedVersion() int
	IsPosted() bool
	IsDeleted() bool

	// CanPost validates that the document is in a postable state.
	CanPost(ctx context.Context) error

	// MarkPosted sets the posted flag and increments the posted version.
	MarkPosted()

	// MarkUnposted clears the posted flag.
	MarkUnposted()

	// GenerateProjections builds the full projection row set for this
	// document. Must be pure with respect to storage: any failure here
	// aborts posting before anything is written.
	GenerateProjections(ctx context.Context) (*ProjectionSet, error)
}

// ProjectionSet holds all projection rows produced by one document posting.
type ProjectionSet struct {
	SalesRegister []entity.SalesRegisterEntry
	SalesData     []entity.SalesDataEntry
}

// NewProjectionSet creates an empty projection set.
func NewProjectionSet() *ProjectionSet {
	return &ProjectionSet{}
}

// AddSalesRegister appends a sales register row.
func (s *ProjectionSet) AddSalesRegister(row entity.SalesRegisterEntry) {
	s.SalesRegister = append(s.SalesRegister, row)
}

// AddSalesData appends a sales data row.
func (s *ProjectionSet) AddSalesData(row entity.SalesDataEntry) {
	s.SalesData = append(s.SalesData, row)
}

// IsEmpty reports whether the set contains no rows.
func (s *ProjectionSet) IsEmpty() bool {
	return len(s.SalesRegister) == 0 && len(s.SalesData) == 0
}

// SalesRegisterWriter replaces sales register rows for a registrator.
// Implemented by the sales register projection service.
type SalesRegisterWriter interface {
	ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesRegisterEntry) error
	DeleteByRegistrator(ctx context.Context, registratorID id.ID) error
}

// SalesDataWriter replaces sales data rows for a registrator.
type SalesDataWriter interface {
	ReplaceRows(ctx context.Context, registratorID id.ID, rows []entity.SalesDataEntry) error
	DeleteByRegistrator(ctx context.Context, registratorID id.ID) error
}
