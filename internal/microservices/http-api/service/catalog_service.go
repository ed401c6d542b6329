package service

import (
	"context"
	"errors"
	"strings"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	Create(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page, pageSize)
}

func (s *categoryService) Create(ctx context.Context, c *models.Category) error {
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return NewValidationError("slug", "category with this slug already exists.")
		}
		return err
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return orNotFound(s.repo.DeleteBySlug(ctx, slug))
}

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, g *models.Genre) error
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page, pageSize)
}

func (s *genreService) Create(ctx context.Context, g *models.Genre) error {
	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return NewValidationError("slug", "genre with this slug already exists.")
		}
		return err
	}
	return nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	return orNotFound(s.repo.DeleteBySlug(ctx, slug))
}
