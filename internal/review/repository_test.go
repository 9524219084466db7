package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-be/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewColumns = []string{"id", "user_id", "product_id", "rating", "comment", "is_verified", "helpful_count", "created_at", "updated_at"}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rv := &Review{UserID: 7, ProductID: 3, Rating: 5, Comment: utils.StrPtr("nice")}

		mock.ExpectQuery("INSERT INTO product_reviews").
			WithArgs(uint(7), uint(3), 5, "nice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "is_verified", "helpful_count", "created_at", "updated_at"}).
				AddRow(11, false, 0, now, now))

		require.NoError(t, repo.Create(ctx, rv))
		assert.Equal(t, uint(11), rv.ID)
		assert.Equal(t, now, rv.CreatedAt)
	})

	t.Run("Unique violation is a duplicate", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO product_reviews").
			WillReturnError(&pq.Error{Code: PgUniqueViolation})

		err := repo.Create(ctx, &Review{UserID: 7, ProductID: 3, Rating: 5})
		assert.ErrorIs(t, err, ErrDuplicateReview)
	})

	t.Run("Other error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO product_reviews").
			WillReturnError(errors.New("db error"))

		err := repo.Create(ctx, &Review{UserID: 7, ProductID: 3, Rating: 5})
		assert.EqualError(t, err, "db error")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetAndExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("FROM product_reviews WHERE id = \\$1").
		WithArgs(uint(11)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(11, 7, 3, 5, nil, true, 4, now, now))

	rv, err := repo.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.Nil(t, rv.Comment)
	assert.True(t, rv.IsVerified)
	assert.Equal(t, 4, rv.HelpfulCount)

	mock.ExpectQuery("FROM product_reviews WHERE id").
		WithArgs(uint(12)).
		WillReturnRows(sqlmock.NewRows(reviewColumns))

	_, err = repo.GetByID(ctx, 12)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint(7), uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsForUser(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	rv := &Review{ID: 11, Rating: 2, IsVerified: true}
	mock.ExpectQuery("UPDATE product_reviews SET rating = \\$1, comment = \\$2, is_verified = FALSE").
		WithArgs(2, nil, uint(11)).
		WillReturnRows(sqlmock.NewRows([]string{"is_verified", "updated_at"}).AddRow(false, now))

	require.NoError(t, repo.Update(context.Background(), rv))
	assert.False(t, rv.IsVerified)
	assert.Equal(t, now, rv.UpdatedAt)

	mock.ExpectQuery("UPDATE product_reviews").
		WillReturnRows(sqlmock.NewRows([]string{"is_verified", "updated_at"}))
	assert.ErrorIs(t, repo.Update(context.Background(), &Review{ID: 99, Rating: 1}), ErrReviewNotFound)
}

func TestRepository_DeleteAndVerify(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM product_reviews").WithArgs(uint(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, 11))

	mock.ExpectExec("DELETE FROM product_reviews").WithArgs(uint(12)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 12), ErrReviewNotFound)

	mock.ExpectExec("UPDATE product_reviews SET is_verified = \\$1").WithArgs(true, uint(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetVerified(ctx, 11, true))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkHelpful(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("First vote counts", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO review_helpful_votes").
			WithArgs(uint(11), uint(8)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("SET helpful_count = helpful_count \\+ 1").
			WithArgs(uint(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		counted, err := repo.MarkHelpful(ctx, 11, 8)
		require.NoError(t, err)
		assert.True(t, counted)
	})

	t.Run("Repeat vote is ignored", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO review_helpful_votes").
			WithArgs(uint(11), uint(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		counted, err := repo.MarkHelpful(ctx, 11, 8)
		require.NoError(t, err)
		assert.False(t, counted)
	})

	t.Run("Vote insert fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO review_helpful_votes").
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		_, err := repo.MarkHelpful(ctx, 11, 8)
		assert.ErrorContains(t, err, "insert helpful vote")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListAndSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("WHERE product_id = \\$1 ORDER BY helpful_count DESC").
		WithArgs(uint(3), 20, 0).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(1, 7, 3, 5, "good", false, 2, now, now).
			AddRow(2, 8, 3, 3, nil, false, 0, now, now))

	list, err := repo.ListByProduct(ctx, 3, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "good", *list[0].Comment)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), AVG\\(rating\\)").
		WithArgs(uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(2, "4.0000"))

	s, err := repo.Summary(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 4.0, s.AverageRating, 0.001)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(0, nil))

	s, err = repo.Summary(ctx, 4)
	require.NoError(t, err)
	assert.Zero(t, s.AverageRating)
}
