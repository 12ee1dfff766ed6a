package api

import (
	"net/http"
	"strings"

	"selfcare-backend/internal/domain/order"
	reqdto "selfcare-backend/internal/handler/dto/request"
	resdto "selfcare-backend/internal/handler/dto/response"
	"selfcare-backend/internal/handler/httperr"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/commands"
	"selfcare-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

// @Summary Create order
// @Description Create a provisioning order. Requests carrying the same Idempotency-Key for the same customer return the stored order with 200 instead of creating a duplicate.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateOrderRequest true "Order request"
// @Success 201 {object} resdto.OrderResponse
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	var idempotencyKey *string
	if key := strings.TrimSpace(c.GetHeader("Idempotency-Key")); key != "" {
		idempotencyKey = &key
	}

	result, err := h.orderCommands.CreateOrder(c.Request.Context(), req.ToParams(idempotencyKey))
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid order data",
			})
		case errs.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errs.Is(err, commands.ErrReservationStateBroken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation is not active",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromOrderEntity(result.Order))
}

// @Summary Get order
// @Description Get an order with its full event history
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary Advance order status
// @Description Move the order along its state machine. Reaching APLICADO consumes the backing reservation, reaching FALLIDO releases it.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.AdvanceOrderRequest true "Target status"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req reqdto.AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	advanced, err := h.orderCommands.AdvanceStatus(c.Request.Context(), commands.AdvanceOrderParams{
		OrderID:      id,
		NewStatus:    order.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
		EventPayload: req.Payload,
	})
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errs.Is(err, commands.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown order status",
			})
		case errs.Is(err, commands.ErrInvalidOrderTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Transition not allowed from current status",
			})
		case errs.Is(err, commands.ErrReservationStateBroken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Backing reservation is in a conflicting state",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderEntity(advanced))
}

// @Summary Append order note
// @Description Record an audit entry on the order without changing its status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.AppendEventRequest true "Event"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/events [post]
func (h *OrderHandler) AppendEvent(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req reqdto.AppendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	eventType := order.EventType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if eventType != order.EventNote && eventType != order.EventStatusChanged {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Only NOTE and STATUS_CHANGED events can be appended directly",
		})
		return
	}

	if err := h.orderCommands.AppendEvent(c.Request.Context(), id, eventType, req.Payload); err != nil {
		switch {
		case errs.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
