package service

import (
	"context"
	"fmt"
	"testing"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	author    = &models.User{ID: "u-1", Username: "alice", Role: models.RoleUser}
	stranger  = &models.User{ID: "u-2", Username: "bob", Role: models.RoleUser}
	moderator = &models.User{ID: "m-1", Username: "mod", Role: models.RoleModerator}
)

func TestReviewCreate_SetsAuthorAndTitle(t *testing.T) {
	reviews, titles := new(MockReviewRepo), new(MockTitleRepo)
	svc := NewReviewService(reviews, titles)

	titles.On("GetByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.TitleID == 7 && r.AuthorID == "u-1" && r.Score == 8
	})).Return(nil)

	r, err := svc.Create(context.Background(), author, 7, "nice", 8)
	require.NoError(t, err)
	assert.Equal(t, "alice", r.Author.Username)
	reviews.AssertExpectations(t)
}

func TestReviewCreate_Duplicate(t *testing.T) {
	reviews, titles := new(MockReviewRepo), new(MockTitleRepo)
	svc := NewReviewService(reviews, titles)

	titles.On("GetByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil)
	reviews.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("create review: %w", repository.ErrDuplicate))

	_, err := svc.Create(context.Background(), author, 7, "again", 3)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"You have already reviewed this title."}, fields[NonFieldErrors])
}

func TestReviewCreate_MissingTitle(t *testing.T) {
	reviews, titles := new(MockReviewRepo), new(MockTitleRepo)
	svc := NewReviewService(reviews, titles)

	titles.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)
	_, err := svc.Create(context.Background(), author, 99, "x", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(context.Background(), nil, 99, "x", 5)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestReviewGet_WrongTitle(t *testing.T) {
	reviews, titles := new(MockReviewRepo), new(MockTitleRepo)
	svc := NewReviewService(reviews, titles)

	titles.On("GetByID", mock.Anything, int64(2)).Return(&models.Title{ID: 2}, nil)
	reviews.On("GetInTitle", mock.Anything, int64(2), int64(11)).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(context.Background(), 2, 11)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewUpdate_Permissions(t *testing.T) {
	tests := []struct {
		name  string
		actor *models.User
		want  error
	}{
		{"author", author, nil},
		{"moderator", moderator, nil},
		{"stranger", stranger, ErrPermissionDenied},
		{"anonymous", nil, ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews, titles := new(MockReviewRepo), new(MockTitleRepo)
			svc := NewReviewService(reviews, titles)

			titles.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
			reviews.On("GetInTitle", mock.Anything, int64(1), int64(3)).
				Return(&models.Review{ID: 3, TitleID: 1, AuthorID: "u-1", Text: "old", Score: 5}, nil)
			reviews.On("Update", mock.Anything, mock.Anything).Return(nil)

			r, err := svc.Update(context.Background(), tt.actor, 1, 3, ReviewChanges{Score: intPtr(9)})
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 9, r.Score)
			assert.Equal(t, "old", r.Text)
		})
	}
}

func TestReviewDelete_ByStrangerDenied(t *testing.T) {
	reviews, titles := new(MockReviewRepo), new(MockTitleRepo)
	svc := NewReviewService(reviews, titles)

	titles.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	reviews.On("GetInTitle", mock.Anything, int64(1), int64(3)).
		Return(&models.Review{ID: 3, TitleID: 1, AuthorID: "u-1"}, nil)

	err := svc.Delete(context.Background(), stranger, 1, 3)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommentScopedToReviewInTitle(t *testing.T) {
	comments, reviews := new(MockCommentRepo), new(MockReviewRepo)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetInTitle", mock.Anything, int64(1), int64(3)).Return(nil, repository.ErrNotFound)

	_, _, err := svc.List(context.Background(), 1, 3, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Create(context.Background(), author, 1, 3, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentCreateAndEdit(t *testing.T) {
	comments, reviews := new(MockCommentRepo), new(MockReviewRepo)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetInTitle", mock.Anything, int64(1), int64(3)).Return(&models.Review{ID: 3, TitleID: 1}, nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.ReviewID == 3 && c.AuthorID == "u-2"
	})).Return(nil)

	c, err := svc.Create(context.Background(), stranger, 1, 3, "hello")
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Author.Username)

	comments.On("GetInReview", mock.Anything, int64(3), int64(4)).
		Return(&models.Comment{ID: 4, ReviewID: 3, AuthorID: "u-2", Text: "hello"}, nil)
	comments.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err = svc.Update(context.Background(), author, 1, 3, 4, strPtr("hijack"))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	edited, err := svc.Update(context.Background(), stranger, 1, 3, 4, strPtr("edited"))
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Text)
}
