package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mercatus/internal/domain/catalogs/connection"
	"mercatus/internal/infrastructure/http/v1/dto"
)

// ConnectionHandler handles HTTP requests for marketplace Connections.
type ConnectionHandler struct {
	*CatalogHandler[*connection.Connection, dto.CreateConnectionRequest, dto.UpdateConnectionRequest]
	service *connection.Service
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(base *BaseHandler, service *connection.Service) *ConnectionHandler {
	config := CatalogHandlerConfig[
		*connection.Connection,
		dto.CreateConnectionRequest,
		dto.UpdateConnectionRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "connection",

		MapCreateDTO: func(req dto.CreateConnectionRequest) *connection.Connection {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateConnectionRequest, existing *connection.Connection) *connection.Connection {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *connection.Connection) any {
			return dto.FromConnection(entity)
		},
	}

	return &ConnectionHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ByMarketplace handles GET /catalog/connection/by-marketplace/:marketplace
func (h *ConnectionHandler) ByMarketplace(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.FindByMarketplace(ctx, c.Param("marketplace"))
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.ConnectionResponse, len(items))
	for i, item := range items {
		responses[i] = dto.FromConnection(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      responses,
		TotalCount: int64(len(responses)),
		Limit:      len(responses),
		Offset:     0,
	})
}
