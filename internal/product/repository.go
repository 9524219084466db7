package product

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, stock, status
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Status)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get product failed",
			zap.String("repo", "Product"),
			zap.Uint("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*Product, error) {
	res := make(map[uint]*Product, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	pqIDs := make([]int64, len(ids))
	for i, id := range ids {
		pqIDs[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, stock, status
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(pqIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Status); err != nil {
			return nil, err
		}
		res[p.ID] = &p
	}
	return res, rows.Err()
}
