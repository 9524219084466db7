package order

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
	// Create inserts the order with its items and takes the stock in one
	// transaction. A product without enough stock aborts the whole order
	// with ErrInsufficientStock.
	Create(ctx context.Context, o *Order) error

	// ApplyTransition moves the order from t.From to t.To. The update only
	// matches while the stored status still equals t.From, so a concurrent
	// change fails with ErrInvalidTransition.
	ApplyTransition(ctx context.Context, t Transition) error

	GetByID(ctx context.Context, id uint) (*Order, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*Order, error)
	ListAll(ctx context.Context, status Status, limit, offset int) ([]*Order, error)
	HasDeliveredOrderContaining(ctx context.Context, userID, productID uint) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectOrder = `
	SELECT id, user_id, status, invoice_number, coupon_code,
		subtotal, discount, tax, total,
		created_at, updated_at, canceled_at, delivered_at
	FROM orders
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.InvoiceNumber, &o.CouponCode,
		&o.Subtotal, &o.Discount, &o.Tax, &o.Total,
		&o.CreatedAt, &o.UpdatedAt, &o.CanceledAt, &o.DeliveredAt,
	); err != nil {
		return nil, err
	}
	o.Items = []*OrderItem{}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "Create"),
		zap.Uint("user_id", o.UserID),
	)

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				user_id, status, coupon_code,
				subtotal, discount, tax, total,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING id
		`,
			o.UserID, o.Status, o.CouponCode,
			o.Subtotal, o.Discount, o.Tax, o.Total,
			o.CreatedAt,
		).Scan(&o.ID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range o.Items {
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock = stock - $1
				WHERE id = $2 AND stock >= $1
			`, item.Quantity, item.ProductID)
			if err != nil {
				return fmt.Errorf("take stock: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				log.Info("stock taken by a concurrent order", zap.Uint("product_id", item.ProductID))
				return ErrInsufficientStock
			}

			item.OrderID = o.ID
			err = tx.QueryRowContext(ctx, `
				INSERT INTO order_items (
					order_id, product_id, product_name,
					quantity, price, subtotal
				) VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`,
				item.OrderID, item.ProductID, item.ProductName,
				item.Quantity, item.Price, item.Subtotal,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		return insertStatusEvent(ctx, tx, Transition{
			OrderID:   o.ID,
			To:        o.Status,
			ChangedBy: o.UserID,
			At:        o.CreatedAt,
		})
	})
	if err != nil && !errors.Is(err, ErrInsufficientStock) {
		log.Error("create order failed", zap.Error(err))
	}
	return err
}

func (r *repository) ApplyTransition(ctx context.Context, t Transition) error {
	set := "status = $1, updated_at = $2"
	args := []any{t.To, t.At, t.OrderID, t.From}

	switch t.To {
	case StatusCanceled:
		set += ", canceled_at = $2"
	case StatusDelivered:
		set += ", delivered_at = $2"
	case StatusProcessing:
		if t.InvoiceNumber != "" {
			set += ", invoice_number = $5"
			args = append(args, t.InvoiceNumber)
		}
	}

	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE orders SET `+set+` WHERE id = $3 AND status = $4`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: order %d is no longer %s", ErrInvalidTransition, t.OrderID, t.From)
		}

		if err := insertStatusEvent(ctx, tx, t); err != nil {
			return err
		}

		if t.To == StatusCanceled {
			_, err := tx.ExecContext(ctx, `
				UPDATE products p
				SET stock = p.stock + i.quantity
				FROM order_items i
				WHERE i.order_id = $1 AND p.id = i.product_id
			`, t.OrderID)
			if err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}
		return nil
	})
}

func insertStatusEvent(ctx context.Context, tx *sql.Tx, t Transition) error {
	from := sql.NullString{String: string(t.From), Valid: t.From != ""}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_events (order_id, from_status, to_status, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.OrderID, from, t.To, t.ChangedBy, t.At)
	if err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*Order, error) {
	return r.list(ctx, selectOrder+`
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *repository) ListAll(ctx context.Context, status Status, limit, offset int) ([]*Order, error) {
	if status == "" {
		return r.list(ctx, selectOrder+`
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	return r.list(ctx, selectOrder+`
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uint]*Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, int64(o.ID))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.Subtotal,
		); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, &item)
		}
	}
	return rows.Err()
}

func (r *repository) HasDeliveredOrderContaining(ctx context.Context, userID, productID uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items i ON i.order_id = o.id
			WHERE o.user_id = $1 AND o.status = $2 AND i.product_id = $3
		)
	`, userID, StatusDelivered, productID).Scan(&exists)
	return exists, err
}
