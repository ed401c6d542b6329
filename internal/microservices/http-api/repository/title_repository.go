package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows a title listing. Zero values mean "no filter".
type TitleFilter struct {
	Name     string // case-insensitive contains
	Year     int
	Category string // category slug
	Genre    string // genre slug
	OrderBy  string // "name" (default) or "-year"
}

type TitleRepository interface {
	List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title) error
	Delete(ctx context.Context, id int64) error
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

// withRating selects every title column plus the mean review score.
// Titles without reviews get a NULL rating.
func withRating(db *gorm.DB) *gorm.DB {
	return db.Select("titles.*, AVG(reviews.score) AS rating").
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Group("titles.id")
}

func (f TitleFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Name != "" {
		db = db.Where("titles.name ILIKE ?", containsPattern(f.Name))
	}
	if f.Year != 0 {
		db = db.Where("titles.year = ?", f.Year)
	}
	if f.Category != "" {
		db = db.Where("titles.category_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Table("categories").Select("id").Where("slug = ?", f.Category))
	}
	if f.Genre != "" {
		db = db.Where("titles.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Table("title_genres").
				Select("title_genres.title_id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug = ?", f.Genre))
	}
	return db
}

func (f TitleFilter) order() string {
	if f.OrderBy == "-year" {
		return "titles.year desc, titles.name asc"
	}
	return "titles.name asc, titles.id asc"
}

func (r *TitleRepo) List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Title{}).Scopes(f.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	err := r.db.WithContext(ctx).Model(&models.Title{}).
		Scopes(withRating, f.scope, paginate(page, pageSize)).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		Order(f.order()).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}
	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	err := r.db.WithContext(ctx).Model(&models.Title{}).
		Scopes(withRating).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		Where("titles.id = ?", id).
		Take(&t).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// Create inserts the title and its genre links; the genres themselves must
// already exist.
func (r *TitleRepo) Create(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Genres.*").Create(t).Error; err != nil {
		return fmt.Errorf("create title: %w", translate(err))
	}
	return nil
}

// Update writes the scalar columns. A non-nil Genres slice replaces the
// title's genre set in the same transaction.
func (r *TitleRepo) Update(ctx context.Context, t *models.Title) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Title{ID: t.ID}).
			Select("name", "year", "description", "category_id").
			Updates(map[string]interface{}{
				"name":        t.Name,
				"year":        t.Year,
				"description": t.Description,
				"category_id": t.CategoryID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if t.Genres == nil {
			return nil
		}
		return tx.Model(&models.Title{ID: t.ID}).Association("Genres").Replace(t.Genres)
	})
	if err != nil {
		return fmt.Errorf("update title: %w", translate(err))
	}
	return nil
}

func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Title{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete title: %w", translate(err))
	}
	return nil
}
