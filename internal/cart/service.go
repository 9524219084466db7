package cart

import (
	"context"
	"errors"
	"time"

	"storefront-be/internal/coupon"
	"storefront-be/internal/logger"
	"storefront-be/internal/pricing"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	Get(ctx context.Context, owner string) (*View, error)
	AddLine(ctx context.Context, owner string, input AddLineInput) (*View, error)
	UpdateQuantity(ctx context.Context, owner string, productID uint, quantity int) (*View, error)
	RemoveLine(ctx context.Context, owner string, productID uint) (*View, error)
	Clear(ctx context.Context, owner string) error

	// ApplyCoupon prices the cart with the coupon and stores the result.
	// On any failure the stored cart is left exactly as it was.
	ApplyCoupon(ctx context.Context, owner string, code string) (*View, error)
	RemoveCoupon(ctx context.Context, owner string) (*View, error)

	// Merge moves a guest cart into a user's cart, summing quantities.
	Merge(ctx context.Context, guestOwner, userOwner string) (*View, error)
}

type service struct {
	store   Store
	catalog product.Catalog
	coupons coupon.Service
	engine  *pricing.Engine
	taxRate decimal.Decimal
	now     func() time.Time
}

func NewService(
	store Store,
	catalog product.Catalog,
	coupons coupon.Service,
	engine *pricing.Engine,
	taxRatePercent decimal.Decimal,
) Service {
	return &service{
		store:   store,
		catalog: catalog,
		coupons: coupons,
		engine:  engine,
		taxRate: taxRatePercent,
		now:     time.Now,
	}
}

func (s *service) Get(ctx context.Context, owner string) (*View, error) {
	sess, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &View{Session: *sess}, nil
}

func (s *service) AddLine(ctx context.Context, owner string, input AddLineInput) (*View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Cart"),
		zap.String("method", "AddLine"),
		zap.Uint("product_id", input.ProductID),
		zap.Int("quantity", input.Quantity),
	)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	p, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		log.Warn("product lookup failed", zap.Error(err))
		return nil, err
	}

	finalQty := input.Quantity
	idx := sess.lineIndex(p.ID)
	if idx >= 0 {
		finalQty += sess.Lines[idx].Quantity
	}
	if finalQty > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	if p.Stock < finalQty {
		log.Info("insufficient stock", zap.Int("stock", p.Stock))
		return nil, ErrInsufficientStock
	}

	line := Line{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Quantity: finalQty}
	if idx >= 0 {
		sess.Lines[idx] = line
	} else {
		sess.Lines = append(sess.Lines, line)
	}

	return s.repriceAndSave(ctx, sess)
}

func (s *service) UpdateQuantity(ctx context.Context, owner string, productID uint, quantity int) (*View, error) {
	if quantity <= 0 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	sess, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := sess.lineIndex(productID)
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	sess.Lines[idx].Quantity = quantity
	sess.Lines[idx].UnitPrice = p.Price

	return s.repriceAndSave(ctx, sess)
}

func (s *service) RemoveLine(ctx context.Context, owner string, productID uint) (*View, error) {
	sess, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := sess.lineIndex(productID)
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	sess.Lines = append(sess.Lines[:idx], sess.Lines[idx+1:]...)

	return s.repriceAndSave(ctx, sess)
}

func (s *service) Clear(ctx context.Context, owner string) error {
	return s.store.Delete(ctx, owner)
}

func (s *service) ApplyCoupon(ctx context.Context, owner string, code string) (*View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Cart"),
		zap.String("method", "ApplyCoupon"),
		zap.String("code", coupon.NormalizeCode(code)),
	)

	sess, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	c, err := s.coupons.Lookup(ctx, code)
	if err != nil {
		log.Info("coupon rejected", zap.Error(err))
		return nil, err
	}

	res, err := s.engine.Compute(sess.PricingLines(), c, s.taxRate)
	if err != nil {
		log.Info("coupon rejected", zap.Error(err))
		return nil, err
	}

	next := sess.clone()
	next.CouponCode = c.Code
	next.Applied = snapshotOf(res, c.Code, s.now())
	next.UpdatedAt = s.now()

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	log.Info("coupon applied", zap.String("discount", next.Applied.DiscountAmount.String()))
	return &View{Session: *next}, nil
}

func (s *service) RemoveCoupon(ctx context.Context, owner string) (*View, error) {
	sess, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	sess.CouponCode = ""
	return s.repriceAndSave(ctx, sess)
}

func (s *service) Merge(ctx context.Context, guestOwner, userOwner string) (*View, error) {
	guest, err := s.store.Load(ctx, guestOwner)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Load(ctx, userOwner)
	if err != nil {
		return nil, err
	}
	if guest.IsEmpty() {
		return &View{Session: *user}, nil
	}

	for _, gl := range guest.Lines {
		idx := user.lineIndex(gl.ProductID)
		if idx < 0 {
			user.Lines = append(user.Lines, gl)
			continue
		}
		qty := user.Lines[idx].Quantity + gl.Quantity
		if qty > MaxLineQuantity {
			qty = MaxLineQuantity
		}
		user.Lines[idx].Quantity = qty
	}
	if user.CouponCode == "" {
		user.CouponCode = guest.CouponCode
	}

	view, err := s.repriceAndSave(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, guestOwner); err != nil {
		logger.FromCtx(ctx).Warn("failed to delete merged guest cart",
			zap.String("owner", guestOwner),
			zap.Error(err),
		)
	}
	return view, nil
}

// repriceAndSave recomputes the snapshot after a cart mutation. A stored
// coupon that no longer qualifies is removed instead of failing the
// mutation.
func (s *service) repriceAndSave(ctx context.Context, sess *Session) (*View, error) {
	view := &View{}

	var c *coupon.Coupon
	if sess.CouponCode != "" {
		found, err := s.coupons.Lookup(ctx, sess.CouponCode)
		switch {
		case errors.Is(err, coupon.ErrInvalidCoupon):
			view.CouponDropped = true
		case err != nil:
			return nil, err
		default:
			c = found
		}
	}

	res, err := s.engine.Compute(sess.PricingLines(), c, s.taxRate)
	if errors.Is(err, coupon.ErrInvalidCoupon) {
		view.CouponDropped = true
		c = nil
		res, err = s.engine.Compute(sess.PricingLines(), nil, s.taxRate)
	}
	if err != nil {
		return nil, err
	}

	code := ""
	if c != nil {
		code = c.Code
	}
	if view.CouponDropped {
		logger.FromCtx(ctx).Info("stored coupon no longer applies",
			zap.String("owner", sess.Owner),
			zap.String("code", sess.CouponCode),
		)
	}

	sess.CouponCode = code
	sess.Applied = snapshotOf(res, code, s.now())
	sess.UpdatedAt = s.now()

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	view.Session = *sess
	return view, nil
}
