package entity

import (
	"context"
	"time"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
)

// Document is the base type for business documents: marketplace sales,
// financial transactions, production output, purchases.
type Document struct {
	BaseDocument

	// Number is the document number. For imported documents it is the
	// source-system number (posting number, srid, order id); for
	// locally created documents it is auto-generated.
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Posted indicates if the document's projection rows are materialized
	Posted bool `db:"posted" json:"posted"`

	// PostedVersion tracks posting iterations for projection reconciliation.
	// Incremented each time the document is posted.
	PostedVersion int `db:"posted_version" json:"postedVersion"`

	// OrganizationID is the owning organization. May start empty for
	// imported documents and is synced from the connection at posting time.
	OrganizationID *id.ID `db:"organization_id" json:"organizationId,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Number == "" {
		return apperror.NewValidation("document number is required").
			WithDetail("field", "number")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// CanModify checks if document can be modified.
// Posted documents require unposting first.
func (d *Document) CanModify() error {
	if d.Posted {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentPosted,
			"Cannot modify posted document. Unpost first.",
		).WithDetail("document_id", d.ID.String())
	}
	return nil
}

// MarkPosted sets the posted flag and increments version.
func (d *Document) MarkPosted() {
	d.Posted = true
	d.PostedVersion++
	d.Touch()
}

// MarkUnposted clears the posted flag.
func (d *Document) MarkUnposted() {
	d.Posted = false
	d.Touch()
}

// --- Postable interface default implementations ---
// These methods provide default implementations for the Postable interface.
// Document-specific types only need to implement GetDocumentType() and
// GenerateProjections().

// GetID returns the document ID (Postable interface).
func (d *Document) GetID() id.ID {
	return d.ID
}

// GetDate returns the business date (Postable interface). Posting policies
// check it against the closed period boundary.
func (d *Document) GetDate() time.Time {
	return d.Date
}

// GetPostedVersion returns the current posting version (Postable interface).
func (d *Document) GetPostedVersion() int {
	return d.PostedVersion
}

// IsPosted returns true if document is currently posted (Postable interface).
func (d *Document) IsPosted() bool {
	return d.Posted
}

// IsDeleted returns true if document carries the deletion mark.
// Posting rejects deleted documents.
func (d *Document) IsDeleted() bool {
	return d.DeletionMark
}

// CanPost validates if document can be posted (Postable interface default).
// Override in specific document types if additional validation is needed.
func (d *Document) CanPost(ctx context.Context) error {
	if d.DeletionMark {
		return apperror.NewNotFound("document", d.ID.String())
	}
	return d.Validate(ctx)
}
