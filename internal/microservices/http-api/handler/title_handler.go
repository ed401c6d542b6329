package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/policy"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	svc    service.TitleService
	paging Paging
}

func NewTitleHandler(svc service.TitleService, paging Paging) *TitleHandler {
	return &TitleHandler{svc: svc, paging: paging}
}

// RegisterRoutes mounts /titles/. Reviews and comments are nested under
// /titles/:title_id/ by their own handlers.
func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("", middleware.Authorize(policy.AdminOrReadOnly))
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:title_id/", h.Get)
	g.PUT("/:title_id/", h.Replace)
	g.PATCH("/:title_id/", h.Update)
	g.DELETE("/:title_id/", h.Delete)
}

// pathID parses an integer path parameter; anything else is a 404 like an
// unmatched route.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		notFound(c)
		return 0, false
	}
	return id, true
}

func (h *TitleHandler) List(c *gin.Context) {
	page, size, ok := h.paging.parse(c)
	if !ok {
		return
	}

	f := repository.TitleFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"year": []string{"Enter a number."}})
			return
		}
		f.Year = year
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.svc.List(ctx, f, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, dto.ToTitleReads(list), total, page, size)
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	t, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTitleRead(*t))
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.TitleRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	t, err := h.svc.Create(ctx, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTitleWrite(*t))
}

// Replace: PUT, every writable field must be present
func (h *TitleHandler) Replace(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	var req dto.TitleRequest
	if !bindJSON(c, &req) {
		return
	}
	h.update(c, id, req.ToInput())
}

// Update: PATCH, only the fields present are changed
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	var req dto.TitlePatchRequest
	if !bindJSON(c, &req) {
		return
	}
	h.update(c, id, req.ToInput())
}

func (h *TitleHandler) update(c *gin.Context, id int64, in service.TitleInput) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	t, err := h.svc.Update(ctx, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTitleWrite(*t))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
