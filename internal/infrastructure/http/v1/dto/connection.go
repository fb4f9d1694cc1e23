package dto

import (
	"github.com/shopspring/decimal"

	"mercatus/internal/core/id"
	"mercatus/internal/domain/catalogs/connection"
)

// CreateConnectionRequest is the DTO for creating a marketplace connection.
type CreateConnectionRequest struct {
	Code                     string          `json:"code"`
	Name                     string          `json:"name" binding:"required"`
	Marketplace              string          `json:"marketplace" binding:"required"`
	OrganizationID           *string         `json:"organizationId,omitempty"`
	PlannedCommissionPercent decimal.Decimal `json:"plannedCommissionPercent"`
	APIKeyRef                *string         `json:"apiKeyRef,omitempty"`
	Active                   *bool           `json:"active,omitempty"`
}

func (r CreateConnectionRequest) ToEntity() *connection.Connection {
	conn := connection.NewConnection(r.Code, r.Name, r.Marketplace)
	if r.OrganizationID != nil && *r.OrganizationID != "" {
		if orgID, err := id.Parse(*r.OrganizationID); err == nil {
			conn.OrganizationID = &orgID
		}
	}
	conn.PlannedCommissionPercent = r.PlannedCommissionPercent
	if r.APIKeyRef != nil && *r.APIKeyRef != "" {
		conn.APIKeyRef = r.APIKeyRef
	}
	if r.Active != nil {
		conn.Active = *r.Active
	}
	return conn
}

// UpdateConnectionRequest is the DTO for updating a connection.
type UpdateConnectionRequest struct {
	Code                     *string          `json:"code,omitempty"`
	Name                     *string          `json:"name,omitempty"`
	OrganizationID           *string          `json:"organizationId,omitempty"`
	PlannedCommissionPercent *decimal.Decimal `json:"plannedCommissionPercent,omitempty"`
	APIKeyRef                *string          `json:"apiKeyRef,omitempty"`
	Active                   *bool            `json:"active,omitempty"`
	Version                  int              `json:"version" binding:"required,min=1"`
}

func (r UpdateConnectionRequest) ApplyTo(conn *connection.Connection) {
	if r.Code != nil {
		conn.Code = *r.Code
	}
	if r.Name != nil {
		conn.Name = *r.Name
	}
	if r.OrganizationID != nil {
		if *r.OrganizationID == "" {
			conn.OrganizationID = nil
		} else if orgID, err := id.Parse(*r.OrganizationID); err == nil {
			conn.OrganizationID = &orgID
		}
	}
	if r.PlannedCommissionPercent != nil {
		conn.PlannedCommissionPercent = *r.PlannedCommissionPercent
	}
	if r.APIKeyRef != nil {
		if *r.APIKeyRef == "" {
			conn.APIKeyRef = nil
		} else {
			conn.APIKeyRef = r.APIKeyRef
		}
	}
	if r.Active != nil {
		conn.Active = *r.Active
	}
}

// ConnectionResponse is the DTO for returning connection data.
// The credential reference is exposed, never the credential itself.
type ConnectionResponse struct {
	CatalogResponse
	Marketplace              string          `json:"marketplace"`
	OrganizationID           *string         `json:"organizationId,omitempty"`
	PlannedCommissionPercent decimal.Decimal `json:"plannedCommissionPercent"`
	APIKeyRef                *string         `json:"apiKeyRef,omitempty"`
	Active                   bool            `json:"active"`
}

func FromConnection(conn *connection.Connection) ConnectionResponse {
	resp := ConnectionResponse{
		CatalogResponse:          FromCatalog(conn.Catalog),
		Marketplace:              conn.Marketplace,
		PlannedCommissionPercent: conn.PlannedCommissionPercent,
		APIKeyRef:                conn.APIKeyRef,
		Active:                   conn.Active,
	}
	if conn.OrganizationID != nil {
		orgID := conn.OrganizationID.String()
		resp.OrganizationID = &orgID
	}
	return resp
}
