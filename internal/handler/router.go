package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"selfcare-backend/internal/domain/staff"
	"selfcare-backend/internal/handler/api"
	"selfcare-backend/internal/handler/middleware"
	"selfcare-backend/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth        *api.AuthHandler
	Customer    *api.CustomerHandler
	Credit      *api.CreditHandler
	Reservation *api.ReservationHandler
	Order       *api.OrderHandler
	Catalog     *api.CatalogHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		customers := apiGroup.Group("/customers")
		customers.Use(authMiddleware.RequireAuth())
		{
			addRoutes(customers, []route{
				{Method: http.MethodGet, Path: "/:clientId", Handler: h.Customer.Overview},
				{Method: http.MethodGet, Path: "/:clientId/invoices", Handler: h.Customer.Invoices},
				{Method: http.MethodGet, Path: "/:clientId/collections", Handler: h.Customer.Collections},
				{Method: http.MethodGet, Path: "/:clientId/connections", Handler: h.Customer.Connections},
				{Method: http.MethodGet, Path: "/:clientId/credit", Handler: h.Credit.GetProfile},
			})
		}

		operatorOnly := authMiddleware.RequireRoleAtLeast(staff.RoleOperator)

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.CreateReservation, Mw: []gin.HandlerFunc{operatorOnly}},
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.ListReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Reservation.GetReservation},
				{Method: http.MethodPost, Path: "/:id/release", Handler: h.Reservation.ReleaseReservation, Mw: []gin.HandlerFunc{operatorOnly}},
				{Method: http.MethodPost, Path: "/:id/consume", Handler: h.Reservation.ConsumeReservation, Mw: []gin.HandlerFunc{operatorOnly}},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Order.CreateOrder, Mw: []gin.HandlerFunc{operatorOnly}},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Order.GetOrder},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Order.AdvanceStatus, Mw: []gin.HandlerFunc{operatorOnly}},
				{Method: http.MethodPost, Path: "/:id/events", Handler: h.Order.AppendEvent, Mw: []gin.HandlerFunc{operatorOnly}},
			})
		}

		catalogGroup := apiGroup.Group("/catalog")
		catalogGroup.Use(authMiddleware.RequireAuth())
		{
			addRoutes(catalogGroup, []route{
				{Method: http.MethodGet, Path: "/products", Handler: h.Catalog.ListProducts},
				{Method: http.MethodPost, Path: "/sync", Handler: h.Catalog.SyncCatalog, Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(staff.RoleAdmin)}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
