package api

import (
	"net/http"

	reqdto "selfcare-backend/internal/handler/dto/request"
	resdto "selfcare-backend/internal/handler/dto/response"
	"selfcare-backend/internal/handler/httperr"
	"selfcare-backend/internal/handler/middleware"
	"selfcare-backend/internal/pkg/config"
	"selfcare-backend/internal/pkg/cookie"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/pkg/jwt"
	"selfcare-backend/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
	cookieCfg    config.CookieConfig
	jwtService   *jwt.Service
}

func NewAuthHandler(authCommands commands.AuthCommands, cookieCfg config.CookieConfig, jwtService *jwt.Service) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
		cookieCfg:    cookieCfg,
		jwtService:   jwtService,
	}
}

// @Summary Staff login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	cookie.SetTokenCookie(c, h.cookieCfg, result.Token, h.jwtService.TokenDuration())
	c.JSON(http.StatusOK, resdto.FromLoginResult(result))
}

// @Summary Staff logout
// @Description Clear the session cookie
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearTokenCookie(c, h.cookieCfg)
	c.Status(http.StatusNoContent)
}

// @Summary Current staff
// @Description Get the authenticated staff account
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Staff not authenticated",
		})
		return
	}
	role, _ := middleware.GetStaffRole(c)

	c.JSON(http.StatusOK, gin.H{
		"id":   staffID.String(),
		"role": role.String(),
	})
}
