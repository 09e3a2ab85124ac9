// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"activity-booking-service/internal/domain/auth"
	"activity-booking-service/internal/middleware"
	"activity-booking-service/internal/pkg/response"
	authUsecase "activity-booking-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles operator login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// Logout revokes the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "logged out successfully", nil)
}

// GetMe returns the authenticated operator
func (h *AuthHandler) GetMe(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	response.Success(c, http.StatusOK, "operator retrieved", h.authService.Me(claims))
}
