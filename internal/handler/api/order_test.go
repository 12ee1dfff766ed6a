//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/domain/staff"
	"selfcare-backend/internal/handler/api"
	resdto "selfcare-backend/internal/handler/dto/response"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/commands"
	"selfcare-backend/internal/usecase/queries"
	"selfcare-backend/tests/common/builder"
	"selfcare-backend/tests/common/httptest"
	commandsmock "selfcare-backend/tests/mock/commands"
	queriesmock "selfcare-backend/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderCommands
	mockQueries  *queriesmock.MockOrderQueries
	handler      *api.OrderHandler
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("staff_id", uuid.New())
		c.Set("staff_role", staff.RoleOperator)
		c.Next()
	}

	s.router.POST("/orders", authMiddleware, s.handler.CreateOrder)
	s.router.GET("/orders/:id", authMiddleware, s.handler.GetOrder)
	s.router.PATCH("/orders/:id/status", authMiddleware, s.handler.AdvanceStatus)
	s.router.POST("/orders/:id/events", authMiddleware, s.handler.AppendEvent)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

// ================================================================================
// TestCreateOrder
// ================================================================================

func (s *OrderHandlerTestSuite) TestCreateOrder() {
	url := "/orders"
	reqBody := builder.NewOrderBuilder().BuildCreateRequestMap()

	s.Run("success: returns 201 Created for a new order", func() {
		entity := builder.NewOrderBuilder().BuildEntity()
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			Return(&commands.CreateOrderResult{Order: entity, IsReplayed: false}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(entity.ID(), response.ID)
		s.Equal("PENDIENTE", response.Status)
	})

	s.Run("success: returns 200 OK for an idempotent replay", func() {
		entity := builder.NewOrderBuilder().WithIdempotencyKey("req-abc-1").BuildEntity()
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params commands.CreateOrderParams) (*commands.CreateOrderResult, error) {
				s.Require().NotNil(params.IdempotencyKey)
				s.Equal("req-abc-1", *params.IdempotencyKey)
				return &commands.CreateOrderResult{Order: entity, IsReplayed: true}, nil
			}).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": "req-abc-1"})

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(entity.ID(), response.ID)
	})

	s.Run("error: 400 Bad Request on malformed body", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"client_id": "123456"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 409 Conflict when bound reservation is not active", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrReservationStateBroken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "not active")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestGetOrder
// ================================================================================

func (s *OrderHandlerTestSuite) TestGetOrder() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String()

	s.Run("success: returns 200 OK with order and events", func() {
		view := builder.NewOrderBuilder().BuildView()
		view.ID = orderID
		view.Events = []queries.OrderEventView{
			{ID: uuid.New(), EventType: "CREATED", CreatedAt: view.CreatedAt},
		}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), orderID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
		s.Len(response.Events, 1)
		s.Equal("CREATED", response.Events[0].EventType)
	})

	s.Run("error: 404 Not Found for unknown order", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), orderID).
			Return(nil, queries.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})
}

// ================================================================================
// TestAdvanceStatus
// ================================================================================

func (s *OrderHandlerTestSuite) TestAdvanceStatus() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/status"

	s.Run("success: returns 200 OK, status normalized to upper case", func() {
		advanced := builder.NewOrderBuilder().WithStatus(order.StatusEnProceso).BuildEntity()
		s.mockCommands.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params commands.AdvanceOrderParams) (*order.Order, error) {
				s.Equal(order.StatusEnProceso, params.NewStatus)
				return advanced, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"status": "en_proceso"}, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("EN_PROCESO", response.Status)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				// Marked sentinels, as the usecase layer emits them.
				name:           "invalid transition",
				commandsError:  errs.Mark(errs.New("APLICADO -> EN_PROCESO"), commands.ErrInvalidOrderTransition),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Transition not allowed",
			},
			{
				name:           "conflicting reservation",
				commandsError:  errs.Mark(errs.New("reservation is not active"), commands.ErrReservationStateBroken),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "conflicting state",
			},
			{
				name:           "unknown status",
				commandsError:  errs.Mark(errs.New("unknown status CANCELADO"), commands.ErrValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Unknown order status",
			},
			{
				name:           "unknown order",
				commandsError:  commands.ErrOrderNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Order not found",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
					map[string]any{"status": "APLICADO"}, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestAppendEvent
// ================================================================================

func (s *OrderHandlerTestSuite) TestAppendEvent() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/events"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().AppendEvent(gomock.Any(), orderID, order.EventNote, gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"type": "NOTE", "payload": map[string]any{"note": "llamar al cliente"}}, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for lifecycle event types", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"type": "APPLIED"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}
