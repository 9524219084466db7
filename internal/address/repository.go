package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uint) ([]*Address, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// Create inserts addr, first clearing the user's default when addr is
	// the new default.
	Create(ctx context.Context, addr *Address) error
	// Replace deactivates oldID and inserts addr in one transaction.
	Replace(ctx context.Context, oldID uuid.UUID, addr *Address) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, userID uint, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectAddress = `
	SELECT
		id, user_id,
		label, receiver_name, phone,
		line1, line2,
		city, province, postal_code, country,
		is_default, is_active, created_at
	FROM addresses
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (*Address, error) {
	var a Address
	if err := row.Scan(
		&a.ID, &a.UserID,
		&a.Label, &a.ReceiverName, &a.Phone,
		&a.Line1, &a.Line2,
		&a.City, &a.Province, &a.PostalCode, &a.Country,
		&a.IsDefault, &a.IsActive, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "ListByUser"),
		zap.Uint("user_id", userID),
	)

	rows, err := r.db.QueryContext(ctx, selectAddress+`
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	res := make([]*Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, selectAddress+`
		WHERE id = $1 AND is_active = TRUE
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get address failed",
			zap.String("repo", "Address"),
			zap.String("address_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, addr *Address) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertAddress(ctx, tx, addr)
	})
}

func (r *repository) Replace(ctx context.Context, oldID uuid.UUID, addr *Address) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE addresses
			SET is_active = FALSE, is_default = FALSE
			WHERE id = $1 AND user_id = $2 AND is_active = TRUE
		`, oldID, addr.UserID)
		if err != nil {
			return fmt.Errorf("deactivate address: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		return insertAddress(ctx, tx, addr)
	})
}

func insertAddress(ctx context.Context, tx *sql.Tx, addr *Address) error {
	if addr.IsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = FALSE
			WHERE user_id = $1 AND is_default = TRUE
		`, addr.UserID); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}
	}

	err := tx.QueryRowContext(ctx, `
		INSERT INTO addresses (
			id, user_id,
			label, receiver_name, phone,
			line1, line2,
			city, province, postal_code, country,
			is_default, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`,
		addr.ID, addr.UserID,
		addr.Label, addr.ReceiverName, addr.Phone,
		addr.Line1, addr.Line2,
		addr.City, addr.Province, addr.PostalCode, addr.Country,
		addr.IsDefault, addr.IsActive,
	).Scan(&addr.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET is_active = FALSE, is_default = FALSE
		WHERE id = $1 AND is_active = TRUE
	`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *repository) SetDefault(ctx context.Context, userID uint, id uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = FALSE
			WHERE user_id = $1 AND is_default = TRUE
		`, userID); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = TRUE
			WHERE user_id = $1 AND id = $2 AND is_active = TRUE
		`, userID, id)
		if err != nil {
			return fmt.Errorf("set default: %w", err)
		}
		return requireAffected(res)
	})
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}
