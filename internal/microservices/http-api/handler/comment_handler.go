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

type CommentHandler struct {
	svc    service.CommentService
	paging Paging
}

func NewCommentHandler(svc service.CommentService, paging Paging) *CommentHandler {
	return &CommentHandler{svc: svc, paging: paging}
}

// RegisterRoutes expects rg to be mounted at
// /titles/:title_id/reviews/:review_id/comments.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("", middleware.Authorize(policy.ReadOnlyOrModeratorOrAuthor))
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:comment_id/", h.Get)
	g.PUT("/:comment_id/", h.Replace)
	g.PATCH("/:comment_id/", h.Update)
	g.DELETE("/:comment_id/", h.Delete)
}

// parents reads the title and review ids every comment route carries.
func parents(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = pathID(c, "title_id"); !ok {
		return
	}
	reviewID, ok = pathID(c, "review_id")
	return
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	page, size, ok := h.paging.parse(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.svc.List(ctx, titleID, reviewID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, dto.ToComments(list), total, page, size)
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cm, err := h.svc.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToComment(*cm))
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cm, err := h.svc.Create(ctx, middleware.CurrentUser(c), titleID, reviewID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToComment(*cm))
}

func (h *CommentHandler) Replace(c *gin.Context) {
	var req dto.CommentRequest
	h.update(c, &req, func() *string { return &req.Text })
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.CommentPatchRequest
	h.update(c, &req, func() *string { return req.Text })
}

func (h *CommentHandler) update(c *gin.Context, req interface{}, text func() *string) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	if !bindJSON(c, req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cm, err := h.svc.Update(ctx, middleware.CurrentUser(c), titleID, reviewID, commentID, text())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToComment(*cm))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CurrentUser(c), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
