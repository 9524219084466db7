package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	GetByID(ctx context.Context, id uint) (*Coupon, error)
	List(ctx context.Context, limit, offset int) ([]*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectCoupon = `
	SELECT id, code, discount_type, value, min_cart_value, expiry_date, created_at, updated_at
	FROM coupons
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*Coupon, error) {
	var c Coupon
	if err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.Value, &c.MinCartValue,
		&c.ExpiryDate, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	c, err := scanCoupon(r.db.QueryRowContext(ctx, selectCoupon+` WHERE code = $1`, NormalizeCode(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("find coupon by code failed",
			zap.String("repo", "Coupon"),
			zap.String("code", code),
			zap.Error(err),
		)
		return nil, err
	}
	return c, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Coupon, error) {
	c, err := scanCoupon(r.db.QueryRowContext(ctx, selectCoupon+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	return c, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Coupon, error) {
	rows, err := r.db.QueryContext(ctx, selectCoupon+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]*Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *repository) Create(ctx context.Context, c *Coupon) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, discount_type, value, min_cart_value, expiry_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.Code, c.DiscountType, c.Value, c.MinCartValue, c.ExpiryDate).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return mapWriteError(err)
}

func (r *repository) Update(ctx context.Context, c *Coupon) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE coupons
		SET code = $1, discount_type = $2, value = $3, min_cart_value = $4,
		    expiry_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`, c.Code, c.DiscountType, c.Value, c.MinCartValue, c.ExpiryDate, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrCouponNotFound
	}
	return mapWriteError(err)
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
		return ErrCodeTaken
	}
	return fmt.Errorf("write coupon: %w", err)
}
