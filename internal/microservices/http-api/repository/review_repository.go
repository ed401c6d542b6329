package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	GetInTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, r *models.Review) error
	Update(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id int64) error
}

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var list []models.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	if err := q.Preload("Author").Order("pub_date desc, id desc").Scopes(paginate(page, pageSize)).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get reviews: %w", err)
	}
	return list, total, nil
}

// GetInTitle only finds the review when it belongs to titleID.
func (r *ReviewRepo) GetInTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var rv models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, titleID).
		First(&rv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

// Create checks for an existing review by the same author on the same title
// and inserts inside one transaction. The unique index on (title_id,
// author_id) catches the concurrent case; both paths return ErrDuplicate.
func (r *ReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Review{}).
			Where("title_id = ? AND author_id = ?", rv.TitleID, rv.AuthorID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		return tx.Omit(clause.Associations).Create(rv).Error
	})
	if err != nil {
		return fmt.Errorf("create review: %w", translate(err))
	}
	return nil
}

func (r *ReviewRepo) Update(ctx context.Context, rv *models.Review) error {
	res := r.db.WithContext(ctx).Model(&models.Review{ID: rv.ID}).
		Select("text", "score").
		Updates(map[string]interface{}{"text": rv.Text, "score": rv.Score})
	if res.Error != nil {
		return fmt.Errorf("update review: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
