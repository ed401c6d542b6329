package service

import (
	"context"
	"net/http"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text *string) (*models.Comment, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
}

func NewCommentService(comments repository.CommentRepository, reviews repository.ReviewRepository) CommentService {
	return &commentService{comments: comments, reviews: reviews}
}

// review resolves the parent review; a review that exists under another
// title is reported as not found.
func (s *commentService) review(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	r, err := s.reviews.GetInTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return r, nil
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	r, err := s.review(ctx, titleID, reviewID)
	if err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, r.ID, page, pageSize)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	r, err := s.review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	c, err := s.comments.GetInReview(ctx, r.ID, commentID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return c, nil
}

func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	r, err := s.review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{ReviewID: r.ID, AuthorID: actor.ID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	c.Author = *actor
	return c, nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text *string) (*models.Comment, error) {
	c, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := objectAllowed(actor, http.MethodPatch, c.AuthorID); err != nil {
		return nil, err
	}
	if text != nil {
		c.Text = *text
	}
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, orNotFound(err)
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	c, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := objectAllowed(actor, http.MethodDelete, c.AuthorID); err != nil {
		return err
	}
	return orNotFound(s.comments.Delete(ctx, c.ID))
}
