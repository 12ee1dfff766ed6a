package api

import (
	"net/http"

	resdto "selfcare-backend/internal/handler/dto/response"
	"selfcare-backend/internal/handler/httperr"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/commands"
	"selfcare-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogCommands commands.CatalogCommands
	catalogQueries  queries.CatalogQueries
}

func NewCatalogHandler(catalogCommands commands.CatalogCommands, catalogQueries queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{
		catalogCommands: catalogCommands,
		catalogQueries:  catalogQueries,
	}
}

// @Summary List products
// @Description List the mirrored shop catalog
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param includeInactive query bool false "Include deactivated products"
// @Success 200 {array} resdto.ProductResponse
// @Router /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	activeOnly := c.Query("includeInactive") != "true"

	views, err := h.catalogQueries.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductViews(views))
}

// @Summary Sync catalog
// @Description Refresh the local product mirror from the e-commerce platform
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SyncCatalogResponse
// @Failure 502 {object} map[string]string
// @Router /catalog/sync [post]
func (h *CatalogHandler) SyncCatalog(c *gin.Context) {
	result, err := h.catalogCommands.SyncCatalog(c.Request.Context())
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrUpstreamUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Shop platform unavailable",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.SyncCatalogResponse{
		Synced:      result.Synced,
		Deactivated: result.Deactivated,
	})
}
