package api

import (
	"errors"
	"net/http"
	"strings"

	resdto "selfcare-backend/internal/handler/dto/response"
	"selfcare-backend/internal/handler/httperr"
	"selfcare-backend/internal/infra/anatod"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerQueries queries.CustomerQueries
}

func NewCustomerHandler(customerQueries queries.CustomerQueries) *CustomerHandler {
	return &CustomerHandler{
		customerQueries: customerQueries,
	}
}

// @Summary Customer overview
// @Description Get the customer's normalized profile from the upstream CRM
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Customer ID"
// @Success 200 {object} resdto.CustomerResponse
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /customers/{clientId} [get]
func (h *CustomerHandler) Overview(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	customer, err := h.customerQueries.Overview(c.Request.Context(), clientID)
	if err != nil {
		abortUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCustomer(customer))
}

// @Summary Customer invoices
// @Description List the customer's invoices
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Customer ID"
// @Success 200 {array} resdto.InvoiceResponse
// @Failure 502 {object} map[string]string
// @Router /customers/{clientId}/invoices [get]
func (h *CustomerHandler) Invoices(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	invoices, err := h.customerQueries.Invoices(c.Request.Context(), clientID)
	if err != nil {
		abortUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromInvoices(invoices))
}

// @Summary Customer collections
// @Description List the payments received from the customer
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Customer ID"
// @Success 200 {array} resdto.CollectionResponse
// @Failure 502 {object} map[string]string
// @Router /customers/{clientId}/collections [get]
func (h *CustomerHandler) Collections(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	collections, err := h.customerQueries.Collections(c.Request.Context(), clientID)
	if err != nil {
		abortUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCollections(collections))
}

// @Summary Customer connections
// @Description Aggregate the customer's services across internet, telephony and TV. Sources that fail are reported in the errors array instead of failing the whole request.
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Customer ID"
// @Success 200 {object} resdto.ConnectionsResponse
// @Router /customers/{clientId}/connections [get]
func (h *CustomerHandler) Connections(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	aggregate, err := h.customerQueries.Connections(c.Request.Context(), clientID)
	if err != nil {
		abortUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromConnectionsAggregate(aggregate))
}

func (h *CustomerHandler) clientID(c *gin.Context) (string, bool) {
	clientID := strings.TrimSpace(c.Param("clientId"))
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Client ID is required",
		})
		return "", false
	}
	return clientID, true
}

// abortUpstream maps upstream adapter failures: a clean 404 from the CRM
// means the customer does not exist, anything else is a bad gateway.
func abortUpstream(c *gin.Context, err error) {
	var upstreamErr *anatod.UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Customer not found",
		})
		return
	}
	if errs.Is(err, queries.ErrUpstreamUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Upstream system unavailable",
		})
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
