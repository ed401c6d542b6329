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

type CategoryHandler struct {
	svc    service.CategoryService
	paging Paging
}

func NewCategoryHandler(svc service.CategoryService, paging Paging) *CategoryHandler {
	return &CategoryHandler{svc: svc, paging: paging}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("", middleware.Authorize(policy.AdminOrReadOnly))
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.DELETE("/:slug/", h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
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
	writePage(c, dto.FromCategories(list), total, page, size)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CatalogItemRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m := req.ToCategory()
	if err := h.svc.Create(ctx, &m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCategory(m))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type GenreHandler struct {
	svc    service.GenreService
	paging Paging
}

func NewGenreHandler(svc service.GenreService, paging Paging) *GenreHandler {
	return &GenreHandler{svc: svc, paging: paging}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("", middleware.Authorize(policy.AdminOrReadOnly))
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.DELETE("/:slug/", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
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
	writePage(c, dto.FromGenres(list), total, page, size)
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CatalogItemRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m := req.ToGenre()
	if err := h.svc.Create(ctx, &m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromGenre(m))
}

func (h *GenreHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
