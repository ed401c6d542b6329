package handler

import (
	"context"
	"net/http"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/policy"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc    service.UserService
	paging Paging
}

func NewUserHandler(svc service.UserService, paging Paging) *UserHandler {
	return &UserHandler{svc: svc, paging: paging}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// self-service profile, any authenticated user
	me := rg.Group("/me", middleware.Authorize(policy.Authenticated))
	me.GET("/", h.GetMe)
	me.PATCH("/", h.UpdateMe)

	// admin-only management
	admin := rg.Group("", middleware.Authorize(policy.AdminOnly))
	admin.GET("/", h.List)
	admin.POST("/", h.Create)
	admin.GET("/:username/", h.Get)
	admin.PATCH("/:username/", h.Update)
	admin.DELETE("/:username/", h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	page, size, ok := h.paging.parse(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.svc.List(ctx, c.Query("search"), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, dto.ToUsers(list), total, page, size)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	u := req.ToModel()
	if err := h.svc.Create(ctx, &u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUser(u))
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.svc.Get(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUser(*u))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UserPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.svc.Update(ctx, c.Param("username"), req.ToChanges())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUser(*u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe: GET /users/me/
func (h *UserHandler) GetMe(c *gin.Context) {
	me := middleware.CurrentUser(c)
	if me == nil {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, dto.ToUser(*me))
}

// UpdateMe: PATCH /users/me/
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.ProfilePatchRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.svc.UpdateMe(ctx, middleware.CurrentUser(c), req.ToChanges())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUser(*u))
}
