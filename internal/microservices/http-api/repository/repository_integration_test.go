//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"yamdb/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "yamdb",
			"POSTGRES_PASSWORD": "yamdb",
			"POSTGRES_DB":       "yamdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		container.Terminate(context.Background()) //nolint:errcheck
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=yamdb password=yamdb dbname=yamdb sslmode=disable", host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Genre{},
		&models.Title{}, &models.Review{}, &models.Comment{},
	))
	return db
}

type fixture struct {
	users    UserRepository
	cats     *CategoryRepo
	genres   *GenreRepo
	titles   *TitleRepo
	reviews  *ReviewRepo
	comments *CommentRepo
}

func newFixture(db *gorm.DB) fixture {
	return fixture{
		users:    NewUserRepository(db),
		cats:     NewCategoryRepo(db),
		genres:   NewGenreRepo(db),
		titles:   NewTitleRepo(db),
		reviews:  NewReviewRepo(db),
		comments: NewCommentRepo(db),
	}
}

func TestRepositories_Postgres(t *testing.T) {
	db := setupPostgres(t)
	f := newFixture(db)
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@example.com"}
	bob := &models.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, f.users.Create(ctx, alice))
	require.NoError(t, f.users.Create(ctx, bob))
	assert.Equal(t, models.RoleUser, alice.Role)

	film := &models.Category{Name: "Film", Slug: "film"}
	require.NoError(t, f.cats.Create(ctx, film))
	drama := &models.Genre{Name: "Drama", Slug: "drama"}
	comedy := &models.Genre{Name: "Comedy", Slug: "comedy"}
	require.NoError(t, f.genres.Create(ctx, drama))
	require.NoError(t, f.genres.Create(ctx, comedy))

	title := &models.Title{Name: "Stalker", Year: 1979, CategoryID: &film.ID, Genres: []models.Genre{*drama}}
	require.NoError(t, f.titles.Create(ctx, title))

	t.Run("DuplicateSlug", func(t *testing.T) {
		err := f.cats.Create(ctx, &models.Category{Name: "Other", Slug: "film"})
		assert.True(t, errors.Is(err, ErrDuplicate))
	})

	t.Run("SearchWildcardsAreLiteral", func(t *testing.T) {
		list, total, err := f.cats.List(ctx, "%", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, list)

		_, total, err = f.genres.List(ctx, "_", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		_, total, err = f.users.List(ctx, "%@%", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		_, total, err = f.titles.List(ctx, TitleFilter{Name: "%"}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		_, total, err = f.cats.List(ctx, "fil", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("UserLookups", func(t *testing.T) {
		u, err := f.users.FindByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, u.ID)

		_, err = f.users.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		list, total, err := f.users.List(ctx, "bob@", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "bob", list[0].Username)
	})

	t.Run("StoreCodeLeavesProfileAlone", func(t *testing.T) {
		// a profile edit made from another copy of the row
		stale, err := f.users.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		alice.Bio = "edited elsewhere"
		require.NoError(t, f.users.Update(ctx, alice))

		require.NoError(t, f.users.StoreCode(ctx, stale.ID, "hash-a", time.Now()))

		stored, err := f.users.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited elsewhere", stored.Bio)
		assert.Equal(t, "hash-a", stored.ConfirmationCodeHash)
		assert.NotNil(t, stored.CodeIssuedAt)

		assert.ErrorIs(t, f.users.StoreCode(ctx, "00000000-0000-0000-0000-000000000000", "h", time.Now()), ErrNotFound)
	})

	t.Run("ConsumeCodeOnce", func(t *testing.T) {
		require.NoError(t, f.users.StoreCode(ctx, bob.ID, "hash-1", time.Now()))

		ok, err := f.users.ConsumeCode(ctx, bob.ID, "stale-hash", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = f.users.ConsumeCode(ctx, bob.ID, "hash-1", time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		// a second exchange with the same code loses
		ok, err = f.users.ConsumeCode(ctx, bob.ID, "hash-1", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := f.users.FindByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.ConfirmationCodeHash)
		assert.Nil(t, stored.CodeIssuedAt)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("RatingNullWithoutReviews", func(t *testing.T) {
		got, err := f.titles.GetByID(ctx, title.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Rating)
		require.NotNil(t, got.Category)
		assert.Equal(t, "film", got.Category.Slug)
		require.Len(t, got.Genres, 1)
	})

	t.Run("ReviewUniquenessAndRating", func(t *testing.T) {
		require.NoError(t, f.reviews.Create(ctx, &models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "great", Score: 9}))
		err := f.reviews.Create(ctx, &models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "again", Score: 1})
		assert.ErrorIs(t, err, ErrDuplicate)
		require.NoError(t, f.reviews.Create(ctx, &models.Review{TitleID: title.ID, AuthorID: bob.ID, Text: "ok", Score: 6}))

		got, err := f.titles.GetByID(ctx, title.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Rating)
		assert.InDelta(t, 7.5, *got.Rating, 0.001)
	})

	t.Run("TitleFilters", func(t *testing.T) {
		list, total, err := f.titles.List(ctx, TitleFilter{Genre: "drama", Category: "film", Name: "stal"}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.NotNil(t, list[0].Rating)

		_, total, err = f.titles.List(ctx, TitleFilter{Genre: "comedy"}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("TitleUpdateReplacesGenres", func(t *testing.T) {
		upd := &models.Title{ID: title.ID, Name: "Stalker", Year: 1979, CategoryID: &film.ID, Genres: []models.Genre{*comedy}}
		require.NoError(t, f.titles.Update(ctx, upd))
		got, err := f.titles.GetByID(ctx, title.ID)
		require.NoError(t, err)
		require.Len(t, got.Genres, 1)
		assert.Equal(t, "comedy", got.Genres[0].Slug)
	})

	t.Run("ReviewScopedToTitle", func(t *testing.T) {
		other := &models.Title{Name: "Solaris", Year: 1972}
		require.NoError(t, f.titles.Create(ctx, other))
		reviews, _, err := f.reviews.ListByTitle(ctx, title.ID, 1, 10)
		require.NoError(t, err)
		require.NotEmpty(t, reviews)

		_, err = f.reviews.GetInTitle(ctx, other.ID, reviews[0].ID)
		assert.ErrorIs(t, err, ErrNotFound)

		c := &models.Comment{ReviewID: reviews[0].ID, AuthorID: bob.ID, Text: "agree"}
		require.NoError(t, f.comments.Create(ctx, c))
		got, err := f.comments.GetInReview(ctx, reviews[0].ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Author.Username)
	})

	t.Run("CategoryDeleteNullsTitle", func(t *testing.T) {
		require.NoError(t, f.cats.DeleteBySlug(ctx, "film"))
		got, err := f.titles.GetByID(ctx, title.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
		assert.ErrorIs(t, f.cats.DeleteBySlug(ctx, "film"), ErrNotFound)
	})
}
