// Package resolve provides reference resolution for document posting.
// The resolver turns loose identifiers carried by imported documents (a
// connection id, a seller SKU, a free-text article) into validated
// master-data links. A missing reference never fails resolution by itself:
// each lookup reports an Outcome and the caller decides whether the field
// was required.
package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mercatus/internal/core/apperror"
	"mercatus/internal/core/id"
	"mercatus/internal/core/types"
	"mercatus/internal/domain/catalogs/connection"
	"mercatus/internal/domain/catalogs/marketplaceproduct"
	"mercatus/internal/domain/catalogs/nomenclature"
	"mercatus/internal/domain/catalogs/organization"
	"mercatus/pkg/logger"
)

// Outcome describes the result of resolving one reference.
type Outcome struct {
	// Resolved is true when the reference was validated.
	Resolved bool

	// Reason explains why resolution failed (empty when resolved).
	Reason string
}

// ResolvedOutcome reports a successful resolution.
func ResolvedOutcome() Outcome {
	return Outcome{Resolved: true}
}

// UnresolvedOutcome reports a failed resolution with a reason.
func UnresolvedOutcome(format string, args ...any) Outcome {
	return Outcome{Reason: fmt.Sprintf(format, args...)}
}

// ProductFinder locates or registers marketplace listings.
// Implemented by the marketplaceproduct service.
type ProductFinder interface {
	FindOrCreate(ctx context.Context, connectionID id.ID, marketplace, sellerSKU, itemID, title string) (*marketplaceproduct.MarketplaceProduct, error)
}

// PriceLookup provides dealer price queries.
// Implemented by the prices service.
type PriceLookup interface {
	PriceOnDate(ctx context.Context, nomenclatureID id.ID, date time.Time) (*types.Money, error)
	LastNonZeroPrice(ctx context.Context, nomenclatureID id.ID) (*types.Money, error)
}

// Resolver resolves document references against master data.
type Resolver struct {
	connections   connection.Repository
	organizations organization.Repository
	nomenclatures nomenclature.Repository
	products      ProductFinder
	priceLookup   PriceLookup
}

// NewResolver creates a new Resolver.
func NewResolver(
	connections connection.Repository,
	organizations organization.Repository,
	nomenclatures nomenclature.Repository,
	products ProductFinder,
	priceLookup PriceLookup,
) *Resolver {
	return &Resolver{
		connections:   connections,
		organizations: organizations,
		nomenclatures: nomenclatures,
		products:      products,
		priceLookup:   priceLookup,
	}
}

// SyncOrganization resolves the organization configured on the document's
// connection and returns the id the document should carry. When the
// connection or its organization cannot be validated the current value is
// returned unchanged and the outcome explains why.
//
// Resolution is re-run on every posting so master-data corrections
// propagate on re-post.
func (r *Resolver) SyncOrganization(ctx context.Context, connectionID id.ID, current *id.ID) (*id.ID, Outcome) {
	if id.IsNil(connectionID) {
		return current, UnresolvedOutcome("document has no connection")
	}

	conn, err := r.connections.GetByID(ctx, connectionID)
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Warn(ctx, "organization sync: connection not found", "connection_id", connectionID)
			return current, UnresolvedOutcome("connection %s not found", connectionID)
		}
		logger.Warn(ctx, "organization sync: connection lookup failed", "connection_id", connectionID, "error", err)
		return current, UnresolvedOutcome("connection lookup failed: %v", err)
	}

	if conn.OrganizationID == nil || id.IsNil(*conn.OrganizationID) {
		logger.Warn(ctx, "organization sync: connection has no organization", "connection_id", connectionID)
		return current, UnresolvedOutcome("connection %s has no organization configured", connectionID)
	}

	// Validate the configured organization actually exists before
	// overwriting anything on the document.
	org, err := r.organizations.GetByID(ctx, *conn.OrganizationID)
	if err != nil {
		logger.Warn(ctx, "organization sync: organization not found",
			"connection_id", connectionID,
			"organization_id", *conn.OrganizationID,
		)
		return current, UnresolvedOutcome("organization %s not found", *conn.OrganizationID)
	}

	if current != nil && *current == org.ID {
		return current, ResolvedOutcome()
	}
	resolved := org.ID
	return &resolved, ResolvedOutcome()
}

// ResolveProduct finds (or registers) the marketplace listing for a line
// and follows its nomenclature link. An unmatched listing is not an error:
// the outcome is unresolved and the line keeps a nil nomenclature.
func (r *Resolver) ResolveProduct(ctx context.Context, connectionID id.ID, marketplace, sellerSKU, itemID, title string) (*marketplaceproduct.MarketplaceProduct, Outcome) {
	if sellerSKU == "" && itemID == "" {
		return nil, UnresolvedOutcome("line has no seller SKU or item id")
	}

	link, err := r.products.FindOrCreate(ctx, connectionID, marketplace, sellerSKU, itemID, title)
	if err != nil {
		logger.Warn(ctx, "product resolution failed",
			"connection_id", connectionID,
			"seller_sku", sellerSKU,
			"item_id", itemID,
			"error", err,
		)
		return nil, UnresolvedOutcome("product lookup failed: %v", err)
	}

	if !link.IsMatched() {
		logger.Warn(ctx, "product not matched to nomenclature",
			"connection_id", connectionID,
			"seller_sku", sellerSKU,
			"item_id", itemID,
		)
		return link, UnresolvedOutcome("listing %s is not matched to nomenclature", sellerSKU)
	}

	return link, ResolvedOutcome()
}

// PlannedCommission returns the planned commission percent configured on
// the connection, zero with an unresolved outcome when the connection is
// missing or has no commission set.
func (r *Resolver) PlannedCommission(ctx context.Context, connectionID id.ID) (decimal.Decimal, Outcome) {
	conn, err := r.connections.GetByID(ctx, connectionID)
	if err != nil {
		return decimal.Zero, UnresolvedOutcome("connection %s not found", connectionID)
	}
	if conn.PlannedCommissionPercent.IsZero() {
		return decimal.Zero, UnresolvedOutcome("connection %s has no planned commission", connectionID)
	}
	return conn.PlannedCommissionPercent, ResolvedOutcome()
}

// ResolveNomenclatureByArticle finds nomenclature by a free-text article.
func (r *Resolver) ResolveNomenclatureByArticle(ctx context.Context, article string) (*id.ID, Outcome) {
	if article == "" {
		return nil, UnresolvedOutcome("line has no article")
	}

	item, err := r.nomenclatures.FindByArticle(ctx, article)
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Warn(ctx, "article not matched to nomenclature", "article", article)
			return nil, UnresolvedOutcome("article %q matches no nomenclature", article)
		}
		return nil, UnresolvedOutcome("nomenclature lookup failed: %v", err)
	}

	resolved := item.ID
	return &resolved, ResolvedOutcome()
}

// DealerPrice looks up the dealer price for an item effective at a date.
// Fallback chain: price on date for the item, price on date for its base
// item, last non-zero price for the item, last non-zero price for the base.
// Returns nil with an unresolved outcome when every step comes up empty;
// dealer price is an optional enrichment input, never a posting blocker.
func (r *Resolver) DealerPrice(ctx context.Context, nomenclatureID id.ID, asOf time.Time) (*types.Money, Outcome) {
	if id.IsNil(nomenclatureID) {
		return nil, UnresolvedOutcome("no nomenclature to price")
	}

	baseID := r.baseNomenclatureID(ctx, nomenclatureID)

	lookups := []struct {
		id id.ID
		fn func(context.Context, id.ID) (*types.Money, error)
	}{
		{nomenclatureID, func(ctx context.Context, nid id.ID) (*types.Money, error) {
			return r.priceLookup.PriceOnDate(ctx, nid, asOf)
		}},
		{baseID, func(ctx context.Context, nid id.ID) (*types.Money, error) {
			return r.priceLookup.PriceOnDate(ctx, nid, asOf)
		}},
		{nomenclatureID, r.priceLookup.LastNonZeroPrice},
		{baseID, r.priceLookup.LastNonZeroPrice},
	}

	for _, l := range lookups {
		if id.IsNil(l.id) {
			continue
		}
		price, err := l.fn(ctx, l.id)
		if err != nil {
			logger.Warn(ctx, "dealer price lookup failed", "nomenclature_id", l.id, "error", err)
			continue
		}
		if price != nil && price.IsPositive() {
			return price, ResolvedOutcome()
		}
	}

	logger.Warn(ctx, "dealer price not found", "nomenclature_id", nomenclatureID, "as_of", asOf)
	return nil, UnresolvedOutcome("no dealer price for nomenclature %s", nomenclatureID)
}

// baseNomenclatureID returns the base item id for derivatives, nil id otherwise.
func (r *Resolver) baseNomenclatureID(ctx context.Context, nomenclatureID id.ID) id.ID {
	item, err := r.nomenclatures.GetByID(ctx, nomenclatureID)
	if err != nil || item.BaseNomenclatureID == nil {
		return id.Nil()
	}
	return *item.BaseNomenclatureID
}
