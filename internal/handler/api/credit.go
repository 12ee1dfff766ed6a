package api

import (
	"net/http"
	"strings"

	resdto "selfcare-backend/internal/handler/dto/response"
	"selfcare-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditQueries queries.CreditQueries
}

func NewCreditHandler(creditQueries queries.CreditQueries) *CreditHandler {
	return &CreditHandler{
		creditQueries: creditQueries,
	}
}

// @Summary Credit profile
// @Description Get the customer's derived credit position. The official limit always comes from the upstream CRM; when it is unreachable the endpoint fails rather than guessing.
// @Tags credit
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Customer ID"
// @Success 200 {object} resdto.CreditProfileResponse
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /customers/{clientId}/credit [get]
func (h *CreditHandler) GetProfile(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("clientId"))
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Client ID is required",
		})
		return
	}

	profile, err := h.creditQueries.Profile(c.Request.Context(), clientID)
	if err != nil {
		abortUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCreditProfileView(profile))
}
