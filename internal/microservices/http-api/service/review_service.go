package service

import (
	"context"
	"errors"
	"net/http"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/policy"
	"yamdb/internal/microservices/http-api/repository"
)

const msgAlreadyReviewed = "You have already reviewed this title."

type ReviewChanges struct {
	Text  *string
	Score *int
}

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, actor *models.User, titleID int64, text string, score int) (*models.Review, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID int64, ch ReviewChanges) (*models.Review, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
}

func NewReviewService(reviews repository.ReviewRepository, titles repository.TitleRepository) ReviewService {
	return &reviewService{reviews: reviews, titles: titles}
}

func (s *reviewService) title(ctx context.Context, titleID int64) error {
	_, err := s.titles.GetByID(ctx, titleID)
	return orNotFound(err)
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.title(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.title(ctx, titleID); err != nil {
		return nil, err
	}
	r, err := s.reviews.GetInTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return r, nil
}

// Create always attributes the review to actor and titleID, whatever the
// client sent.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, text string, score int) (*models.Review, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := s.title(ctx, titleID); err != nil {
		return nil, err
	}

	r := &models.Review{TitleID: titleID, AuthorID: actor.ID, Text: text, Score: score}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError(NonFieldErrors, msgAlreadyReviewed)
		}
		return nil, err
	}
	r.Author = *actor
	return r, nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, ch ReviewChanges) (*models.Review, error) {
	r, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := objectAllowed(actor, http.MethodPatch, r.AuthorID); err != nil {
		return nil, err
	}

	if ch.Text != nil {
		r.Text = *ch.Text
	}
	if ch.Score != nil {
		r.Score = *ch.Score
	}
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, orNotFound(err)
	}
	return r, nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	r, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := objectAllowed(actor, http.MethodDelete, r.AuthorID); err != nil {
		return err
	}
	return orNotFound(s.reviews.Delete(ctx, r.ID))
}

// objectAllowed applies the review/comment object rule to a loaded row.
func objectAllowed(actor *models.User, method, authorID string) error {
	d := policy.ReadOnlyOrModeratorOrAuthor.Object(actor, method, authorID)
	switch {
	case d.Allowed:
		return nil
	case d.Unauthenticated:
		return ErrUnauthenticated
	default:
		return ErrPermissionDenied
	}
}
