package posting

import (
	"context"
	"fmt"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/core/security"
	"mercatus/internal/core/tx"
	"mercatus/pkg/logger"
)

// Steps are the document-specific callbacks the engine runs inside the
// posting transaction. Document services build them as closures over their
// own repositories.
type Steps struct {
	// Prepare resolves references and calculates derived values on the
	// document before projections are generated. Optional.
	Prepare func(ctx context.Context) error

	// Save persists the document (including the flipped posted flag).
	// Required for Post; optional for Unpost of a draft.
	Save func(ctx context.Context) error

	// ClearDerivedRefs clears document fields that were derived during
	// posting (e.g. links to matched documents). Used by Unpost. Optional.
	ClearDerivedRefs func()
}

// Event is emitted when a document changes posting state. Events are
// written in the posting transaction, so consumers never observe an event
// for a rolled-back posting.
type Event struct {
	AggregateType string
	AggregateID   id.ID
	EventType     string
	Payload       any
}

// Event types emitted by the engine.
const (
	EventDocumentPosted   = "DocumentPosted"
	EventDocumentUnposted = "DocumentUnposted"
)

// EventPublisher persists posting events. Implementations must write within
// the transaction carried by ctx.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Engine orchestrates document posting and unposting.
// It owns the transaction boundary: flag flip, document save and projection
// replacement either all commit or all roll back.
type Engine struct {
	txManager     tx.Manager
	salesRegister SalesRegisterWriter
	salesData     SalesDataWriter
	policy        security.PostingPolicy
	events        EventPublisher

	// targets maps document type to the projections it writes.
	// Deleting for every registered target (even when the new set has no
	// rows for it) is what makes re-posting a true replacement.
	targets map[string][]Target
}

// NewEngine creates a posting engine.
func NewEngine(txManager tx.Manager, salesRegister SalesRegisterWriter, salesData SalesDataWriter) *Engine {
	return &Engine{
		txManager:     txManager,
		salesRegister: salesRegister,
		salesData:     salesData,
		policy:        security.OpenPolicy{},
		targets:       make(map[string][]Target),
	}
}

// SetPolicy replaces the posting policy. The default OpenPolicy allows
// every operation; deployments with period closing install StrictPolicy
// or FlexiblePolicy at startup.
func (e *Engine) SetPolicy(policy security.PostingPolicy) {
	if policy != nil {
		e.policy = policy
	}
}

// SetEventPublisher enables posting event emission. Nil (the default)
// disables it.
func (e *Engine) SetEventPublisher(events EventPublisher) {
	e.events = events
}

func (e *Engine) publishEvent(ctx context.Context, doc Postable, eventType string) error {
	if e.events == nil {
		return nil
	}
	return e.events.Publish(ctx, Event{
		AggregateType: doc.GetDocumentType(),
		AggregateID:   doc.GetID(),
		EventType:     eventType,
		Payload: map[string]any{
			"posted_version": doc.GetPostedVersion(),
			"date":           doc.GetDate(),
		},
	})
}

// RegisterDocumentType declares which projections a document type writes.
// Document types with no targets (e.g. production output) are registered
// with an empty list and only get the flag/save treatment.
func (e *Engine) RegisterDocumentType(docType string, targets ...Target) {
	e.targets[docType] = targets
}

// Targets returns the registered projection targets for a document type.
func (e *Engine) Targets(docType string) []Target {
	return e.targets[docType]
}

// Post posts a document: prepare, generate projections, flip the flag,
// save, replace projection rows. Re-posting an already posted document is
// allowed and replaces its projections.
func (e *Engine) Post(ctx context.Context, doc Postable, steps Steps) error {
	if err := doc.CanPost(ctx); err != nil {
		return err
	}
	if err := e.policy.CanPost(ctx, doc.GetDate()); err != nil {
		return err
	}
	if steps.Save == nil {
		return apperror.NewInternal(fmt.Errorf("posting %s: save step is required", doc.GetDocumentType()))
	}

	targets, ok := e.targets[doc.GetDocumentType()]
	if !ok {
		return apperror.NewInternal(fmt.Errorf("document type %s is not registered for posting", doc.GetDocumentType()))
	}

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if steps.Prepare != nil {
			if err := steps.Prepare(ctx); err != nil {
				return err
			}
		}

		// Generate before flipping the flag: a projection failure must
		// abort with zero state change.
		set, err := doc.GenerateProjections(ctx)
		if err != nil {
			return fmt.Errorf("generate projections: %w", err)
		}
		if set == nil {
			set = NewProjectionSet()
		}

		doc.MarkPosted()

		if err := steps.Save(ctx); err != nil {
			return fmt.Errorf("save document: %w", err)
		}

		if err := e.replaceProjections(ctx, doc, targets, set); err != nil {
			return err
		}

		return e.publishEvent(ctx, doc, EventDocumentPosted)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "document posted",
		"id", doc.GetID(),
		"type", doc.GetDocumentType(),
		"posted_version", doc.GetPostedVersion(),
	)
	return nil
}

// Unpost reverses a posting: clears the flag and derived fields, saves the
// document and deletes its projection rows. Unposting a draft is a no-op
// for the document itself but still removes any stray projection rows.
func (e *Engine) Unpost(ctx context.Context, doc Postable, steps Steps) error {
	if err := e.policy.CanUnpost(ctx, doc.GetDate()); err != nil {
		return err
	}

	targets, ok := e.targets[doc.GetDocumentType()]
	if !ok {
		return apperror.NewInternal(fmt.Errorf("document type %s is not registered for posting", doc.GetDocumentType()))
	}

	wasPosted := doc.IsPosted()

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if wasPosted {
			doc.MarkUnposted()
			if steps.ClearDerivedRefs != nil {
				steps.ClearDerivedRefs()
			}
			if steps.Save == nil {
				return apperror.NewInternal(fmt.Errorf("unposting %s: save step is required", doc.GetDocumentType()))
			}
			if err := steps.Save(ctx); err != nil {
				return fmt.Errorf("save document: %w", err)
			}
		}

		if err := e.deleteProjections(ctx, doc, targets); err != nil {
			return err
		}
		if !wasPosted {
			// A draft cleanup is not a state change worth announcing.
			return nil
		}

		return e.publishEvent(ctx, doc, EventDocumentUnposted)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "document unposted",
		"id", doc.GetID(),
		"type", doc.GetDocumentType(),
		"was_posted", wasPosted,
	)
	return nil
}

func (e *Engine) replaceProjections(ctx context.Context, doc Postable, targets []Target, set *ProjectionSet) error {
	for _, target := range targets {
		switch target {
		case TargetSalesRegister:
			if err := e.salesRegister.ReplaceRows(ctx, doc.GetID(), set.SalesRegister); err != nil {
				return fmt.Errorf("replace %s rows: %w", target, err)
			}
		case TargetSalesData:
			if err := e.salesData.ReplaceRows(ctx, doc.GetID(), set.SalesData); err != nil {
				return fmt.Errorf("replace %s rows: %w", target, err)
			}
		default:
			return apperror.NewInternal(fmt.Errorf("unknown projection target %s", target))
		}
	}
	return nil
}

func (e *Engine) deleteProjections(ctx context.Context, doc Postable, targets []Target) error {
	for _, target := range targets {
		switch target {
		case TargetSalesRegister:
			if err := e.salesRegister.DeleteByRegistrator(ctx, doc.GetID()); err != nil {
				return fmt.Errorf("delete %s rows: %w", target, err)
			}
		case TargetSalesData:
			if err := e.salesData.DeleteByRegistrator(ctx, doc.GetID()); err != nil {
				return fmt.Errorf("delete %s rows: %w", target, err)
			}
		default:
			return apperror.NewInternal(fmt.Errorf("unknown projection target %s", target))
		}
	}
	return nil
}
