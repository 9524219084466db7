package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// Create fails with ErrDuplicateReview when the user already has a
	// review for the product, whatever the caller checked beforehand.
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id uint) (*Review, error)
	ExistsForUser(ctx context.Context, userID, productID uint) (bool, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uint) error

	// MarkHelpful records userID's vote and reports whether it was new.
	// The counter only moves for a new vote.
	MarkHelpful(ctx context.Context, reviewID, userID uint) (bool, error)
	SetVerified(ctx context.Context, id uint, verified bool) error

	ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]*Review, error)
	Summary(ctx context.Context, productID uint) (*Summary, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectReview = `
	SELECT id, user_id, product_id, rating, comment, is_verified, helpful_count, created_at, updated_at
	FROM product_reviews
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*Review, error) {
	var r Review
	if err := row.Scan(
		&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment,
		&r.IsVerified, &r.HelpfulCount, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *repository) Create(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO product_reviews (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_verified, helpful_count, created_at, updated_at
	`, rv.UserID, rv.ProductID, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.IsVerified, &rv.HelpfulCount, &rv.CreatedAt, &rv.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == PgUniqueViolation {
		return ErrDuplicateReview
	}
	if err != nil {
		logger.FromCtx(ctx).Error("insert review failed",
			zap.String("repo", "Review"),
			zap.Uint("user_id", rv.UserID),
			zap.Uint("product_id", rv.ProductID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, selectReview+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return rv, err
}

func (r *repository) ExistsForUser(ctx context.Context, userID, productID uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM product_reviews WHERE user_id = $1 AND product_id = $2
		)
	`, userID, productID).Scan(&exists)
	return exists, err
}

// Update writes rating and comment and clears the verified flag.
func (r *repository) Update(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE product_reviews
		SET rating = $1, comment = $2, is_verified = FALSE, updated_at = NOW()
		WHERE id = $3
		RETURNING is_verified, updated_at
	`, rv.Rating, rv.Comment, rv.ID).Scan(&rv.IsVerified, &rv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReviewNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *repository) MarkHelpful(ctx context.Context, reviewID, userID uint) (bool, error) {
	counted := false

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO review_helpful_votes (review_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, reviewID, userID)
		if err != nil {
			return fmt.Errorf("insert helpful vote: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE product_reviews
			SET helpful_count = helpful_count + 1
			WHERE id = $1
		`, reviewID)
		if err != nil {
			return fmt.Errorf("increment helpful count: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		counted = true
		return nil
	})
	return counted, err
}

func (r *repository) SetVerified(ctx context.Context, id uint, verified bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE product_reviews SET is_verified = $1, updated_at = NOW() WHERE id = $2
	`, verified, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *repository) ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx, selectReview+`
		WHERE product_id = $1
		ORDER BY helpful_count DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]*Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rv)
	}
	return res, rows.Err()
}

func (r *repository) Summary(ctx context.Context, productID uint) (*Summary, error) {
	s := &Summary{ProductID: productID}
	var avg sql.NullFloat64

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(rating)
		FROM product_reviews
		WHERE product_id = $1
	`, productID).Scan(&s.Count, &avg)
	if err != nil {
		return nil, err
	}
	s.AverageRating = avg.Float64
	return s, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
