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

type ReviewHandler struct {
	svc    service.ReviewService
	paging Paging
}

func NewReviewHandler(svc service.ReviewService, paging Paging) *ReviewHandler {
	return &ReviewHandler{svc: svc, paging: paging}
}

// RegisterRoutes expects rg to be mounted at /titles/:title_id/reviews.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("", middleware.Authorize(policy.ReadOnlyOrModeratorOrAuthor))
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:review_id/", h.Get)
	g.PUT("/:review_id/", h.Replace)
	g.PATCH("/:review_id/", h.Update)
	g.DELETE("/:review_id/", h.Delete)
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	page, size, ok := h.paging.parse(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.svc.List(ctx, titleID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, dto.ToReviews(list), total, page, size)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.svc.Get(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReview(*r))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.svc.Create(ctx, middleware.CurrentUser(c), titleID, req.Text, *req.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToReview(*r))
}

func (h *ReviewHandler) Replace(c *gin.Context) {
	var req dto.ReviewRequest
	h.update(c, &req, func() service.ReviewChanges { return req.ToChanges() })
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var req dto.ReviewPatchRequest
	h.update(c, &req, func() service.ReviewChanges { return req.ToChanges() })
}

// update binds into req and applies the changes it yields.
func (h *ReviewHandler) update(c *gin.Context, req interface{}, changes func() service.ReviewChanges) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	if !bindJSON(c, req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.svc.Update(ctx, middleware.CurrentUser(c), titleID, reviewID, changes())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReview(*r))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CurrentUser(c), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
