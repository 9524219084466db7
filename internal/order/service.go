package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/logger"
	"storefront-be/internal/pricing"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Carts is the part of the cart service checkout needs.
type Carts interface {
	Get(ctx context.Context, owner string) (*cart.View, error)
	RemoveCoupon(ctx context.Context, owner string) (*cart.View, error)
	Clear(ctx context.Context, owner string) error
}

type Service interface {
	// Checkout turns the owner's cart into a pending order for userID,
	// priced at current catalog prices.
	Checkout(ctx context.Context, userID uint, owner string) (*Order, error)

	Get(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Order, error)
	ListForUser(ctx context.Context, userID uint, limit, page int) ([]*Order, error)
	ListAll(ctx context.Context, filter ListFilter) ([]*Order, error)

	// Transition is the admin status change.
	Transition(ctx context.Context, adminID, orderID uint, to Status) (*Order, error)
	Cancel(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Order, error)

	HasDeliveredOrderContaining(ctx context.Context, userID, productID uint) (bool, error)
}

type service struct {
	repo     Repository
	carts    Carts
	catalog  product.Catalog
	coupons  coupon.Service
	engine   *pricing.Engine
	taxRate  decimal.Decimal
	notifier Notifier
	now      func() time.Time
}

func NewService(
	repo Repository,
	carts Carts,
	catalog product.Catalog,
	coupons coupon.Service,
	engine *pricing.Engine,
	taxRatePercent decimal.Decimal,
	notifier Notifier,
) Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &service{
		repo:     repo,
		carts:    carts,
		catalog:  catalog,
		coupons:  coupons,
		engine:   engine,
		taxRate:  taxRatePercent,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Checkout(ctx context.Context, userID uint, owner string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Order"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", userID),
	)

	view, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if view.IsEmpty() {
		return nil, ErrEmptyCart
	}

	products, err := s.catalog.GetProducts(ctx, view.ProductIDs())
	if err != nil {
		log.Warn("catalog lookup failed", zap.Error(err))
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(view.Lines))
	items := make([]*OrderItem, 0, len(view.Lines))
	for _, l := range view.Lines {
		p := products[l.ProductID]
		if p.Stock < l.Quantity {
			log.Info("insufficient stock",
				zap.Uint("product_id", p.ID),
				zap.Int("stock", p.Stock),
				zap.Int("quantity", l.Quantity),
			)
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
		}

		lines = append(lines, pricing.Line{ProductID: p.ID, UnitPrice: p.Price, Quantity: l.Quantity})
		items = append(items, &OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			Price:       p.Price.Round(pricing.MoneyPlaces),
			Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(pricing.MoneyPlaces),
		})
	}

	var c *coupon.Coupon
	if view.CouponCode != "" {
		c, err = s.coupons.Lookup(ctx, view.CouponCode)
		if err != nil {
			return nil, s.rejectCoupon(ctx, owner, err)
		}
	}

	res, err := s.engine.Compute(lines, c, s.taxRate)
	if err != nil {
		return nil, s.rejectCoupon(ctx, owner, err)
	}
	res = res.Rounded()

	now := s.now()
	o := &Order{
		UserID:    userID,
		Status:    StatusPending,
		Subtotal:  res.Subtotal,
		Discount:  res.Discount,
		Tax:       res.Tax,
		Total:     res.Total,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     items,
	}
	if c != nil {
		o.CouponCode = utils.StrPtr(c.Code)
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, owner); err != nil {
		log.Warn("failed to clear cart after checkout", zap.Uint("order_id", o.ID), zap.Error(err))
	}

	log.Info("order placed", zap.Uint("order_id", o.ID), zap.String("total", o.Total.String()))
	s.notify(ctx, StatusChange{
		OrderID:   o.ID,
		UserID:    o.UserID,
		To:        o.Status,
		ChangedBy: userID,
		Total:     o.Total.StringFixed(pricing.MoneyPlaces),
		At:        now,
	})
	return o, nil
}

// rejectCoupon clears a stored coupon that no longer applies so the shopper
// sees the undiscounted cart on the next read.
func (s *service) rejectCoupon(ctx context.Context, owner string, err error) error {
	if !errors.Is(err, coupon.ErrInvalidCoupon) {
		return err
	}
	if _, clearErr := s.carts.RemoveCoupon(ctx, owner); clearErr != nil {
		logger.FromCtx(ctx).Warn("failed to clear rejected coupon",
			zap.String("owner", owner),
			zap.Error(clearErr),
		)
	}
	return err
}

func (s *service) Get(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrNotOwner
	}
	return o, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint, limit, page int) ([]*Order, error) {
	l, offset := utils.Pagination(limit, page)
	return s.repo.ListByUser(ctx, userID, l, offset)
}

func (s *service) ListAll(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	l, offset := utils.Pagination(filter.Limit, filter.Page)
	return s.repo.ListAll(ctx, filter.Status, l, offset)
}

func (s *service) Transition(ctx context.Context, adminID, orderID uint, to Status) (*Order, error) {
	if !to.IsValid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, to, adminID)
}

func (s *service) Cancel(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Order, error) {
	o, err := s.Get(ctx, userID, isAdmin, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, StatusCanceled, userID)
}

func (s *service) transition(ctx context.Context, o *Order, to Status, actor uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Order"),
		zap.String("method", "Transition"),
		zap.Uint("order_id", o.ID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(to)),
	)

	if !CanTransition(o.Status, to) {
		log.Info("transition rejected")
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	t := Transition{
		OrderID:   o.ID,
		From:      o.Status,
		To:        to,
		ChangedBy: actor,
		At:        s.now(),
	}
	if to == StatusProcessing && o.InvoiceNumber == nil {
		t.InvoiceNumber = utils.GenerateInvoiceNumber(t.At)
	}

	if err := s.repo.ApplyTransition(ctx, t); err != nil {
		log.Warn("apply transition failed", zap.Error(err))
		return nil, err
	}
	o.apply(t)

	log.Info("order status changed")
	s.notify(ctx, StatusChange{
		OrderID:   o.ID,
		UserID:    o.UserID,
		From:      t.From,
		To:        t.To,
		ChangedBy: actor,
		Total:     o.Total.StringFixed(pricing.MoneyPlaces),
		At:        t.At,
	})
	return o, nil
}

func (s *service) notify(ctx context.Context, change StatusChange) {
	if err := s.notifier.Notify(ctx, change); err != nil {
		logger.FromCtx(ctx).Warn("status change notification dropped",
			zap.Uint("order_id", change.OrderID),
			zap.String("to", string(change.To)),
			zap.Error(err),
		)
	}
}

func (s *service) HasDeliveredOrderContaining(ctx context.Context, userID, productID uint) (bool, error) {
	return s.repo.HasDeliveredOrderContaining(ctx, userID, productID)
}
