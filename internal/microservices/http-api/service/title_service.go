package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// TitleInput is a create or update payload with genres and category given by
// slug. Nil fields are left unchanged on update.
type TitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genre       *[]string
}

type TitleService interface {
	List(ctx context.Context, f repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, in TitleInput) (*models.Title, error)
	Update(ctx context.Context, id int64, in TitleInput) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	now        func() time.Time
}

func NewTitleService(
	titles repository.TitleRepository,
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
) TitleService {
	return &titleService{titles: titles, categories: categories, genres: genres, now: time.Now}
}

func (s *titleService) List(ctx context.Context, f repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	return s.titles.List(ctx, f, page, pageSize)
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err)
	}
	return t, nil
}

func (s *titleService) Create(ctx context.Context, in TitleInput) (*models.Title, error) {
	t := &models.Title{}
	if err := s.assign(ctx, t, in); err != nil {
		return nil, err
	}
	if t.Genres == nil {
		t.Genres = []models.Genre{}
	}
	if err := s.titles.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, in TitleInput) (*models.Title, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// only replace the genre set when the payload carries one
	t.Genres = nil
	if err := s.assign(ctx, t, in); err != nil {
		return nil, err
	}
	t.Category = nil
	if err := s.titles.Update(ctx, t); err != nil {
		return nil, orNotFound(err)
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	return orNotFound(s.titles.Delete(ctx, id))
}

// assign copies the non-nil input fields onto t, resolving slugs. All field
// problems are collected into one ValidationError.
func (s *titleService) assign(ctx context.Context, t *models.Title, in TitleInput) error {
	verr := &ValidationError{}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Year != nil {
		if *in.Year > s.now().Year() {
			verr.Add("year", "Year cannot be in the future.")
		}
		t.Year = *in.Year
	}

	if in.Category != nil {
		if *in.Category == "" {
			t.CategoryID = nil
		} else {
			c, err := s.categories.FindBySlug(ctx, *in.Category)
			switch {
			case err == nil:
				t.CategoryID = &c.ID
			case errors.Is(err, repository.ErrNotFound):
				verr.Add("category", fmt.Sprintf("Object with slug=%s does not exist.", *in.Category))
			default:
				return err
			}
		}
	}

	if in.Genre != nil {
		slugs := dedupe(*in.Genre)
		found, err := s.genres.FindBySlugs(ctx, slugs)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(found))
		for _, g := range found {
			known[g.Slug] = true
		}
		for _, slug := range slugs {
			if !known[slug] {
				verr.Add("genre", fmt.Sprintf("Object with slug=%s does not exist.", slug))
			}
		}
		t.Genres = found
		if t.Genres == nil {
			t.Genres = []models.Genre{}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
