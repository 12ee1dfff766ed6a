package api

import (
	"context"
	"net/http"
	"strings"

	reqdto "selfcare-backend/internal/handler/dto/request"
	resdto "selfcare-backend/internal/handler/dto/response"
	"selfcare-backend/internal/handler/httperr"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/commands"
	"selfcare-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create credit reservation
// @Description Place a hold against the customer's official credit limit
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.Reserve(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid reservation data",
			})
		case errs.Is(err, commands.ErrInsufficientCredit):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Insufficient available credit",
			})
		case errs.Is(err, commands.ErrUpstreamUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Credit limit source unavailable",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := h.reservationID(c)
	if !ok {
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List customer reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param clientId query string true "Customer ID"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	clientID := strings.TrimSpace(c.Query("clientId"))
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "clientId query parameter is required",
		})
		return
	}

	views, err := h.reservationQueries.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Release reservation
// @Description Cancel a hold and return its amount to available credit. Releasing twice is a no-op.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/release [post]
func (h *ReservationHandler) ReleaseReservation(c *gin.Context) {
	h.transition(c, h.reservationCommands.Release)
}

// @Summary Consume reservation
// @Description Turn a hold into a real commitment. Consuming twice is a no-op.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/consume [post]
func (h *ReservationHandler) ConsumeReservation(c *gin.Context) {
	h.transition(c, h.reservationCommands.Consume)
}

func (h *ReservationHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error),
) {
	id, ok := h.reservationID(c)
	if !ok {
		return
	}

	view, err := apply(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errs.Is(err, commands.ErrReservationConsumed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation already consumed",
			})
		case errs.Is(err, commands.ErrReservationReleased):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation already released",
			})
		case errs.Is(err, commands.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Reservation cannot change state",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) reservationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
