package handler

import (
	"context"
	"net/http"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts the sign-in endpoints; extra handlers (the rate
// limiter) run before each of them.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	g := rg.Group("", extra...)
	g.POST("/email/", h.RequestCode)
	g.POST("/token/", h.Token)
}

// RequestCode: POST /auth/email/
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.authService.RequestCode(ctx, req.Email, req.Username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SignupResponse{Success: "check you email"})
}

// Token: POST /auth/token/
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	token, err := h.authService.ExchangeCode(ctx, req.Email, req.ConfirmationCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}
