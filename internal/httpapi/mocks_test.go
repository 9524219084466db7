package httpapi

import (
	"context"

	"storefront-be/internal/address"
	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/review"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) view(args mock.Arguments) (*cart.View, error) {
	if v := args.Get(0); v != nil {
		return v.(*cart.View), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, owner string) (*cart.View, error) {
	return m.view(m.Called(ctx, owner))
}

func (m *MockCartService) AddLine(ctx context.Context, owner string, input cart.AddLineInput) (*cart.View, error) {
	return m.view(m.Called(ctx, owner, input))
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, owner string, productID uint, quantity int) (*cart.View, error) {
	return m.view(m.Called(ctx, owner, productID, quantity))
}

func (m *MockCartService) RemoveLine(ctx context.Context, owner string, productID uint) (*cart.View, error) {
	return m.view(m.Called(ctx, owner, productID))
}

func (m *MockCartService) Clear(ctx context.Context, owner string) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, owner string, code string) (*cart.View, error) {
	return m.view(m.Called(ctx, owner, code))
}

func (m *MockCartService) RemoveCoupon(ctx context.Context, owner string) (*cart.View, error) {
	return m.view(m.Called(ctx, owner))
}

func (m *MockCartService) Merge(ctx context.Context, guestOwner, userOwner string) (*cart.View, error) {
	return m.view(m.Called(ctx, guestOwner, userOwner))
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) one(args mock.Arguments) (*order.Order, error) {
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) many(args mock.Arguments) ([]*order.Order, error) {
	if o := args.Get(0); o != nil {
		return o.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) Checkout(ctx context.Context, userID uint, owner string) (*order.Order, error) {
	return m.one(m.Called(ctx, userID, owner))
}

func (m *MockOrderService) Get(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*order.Order, error) {
	return m.one(m.Called(ctx, userID, isAdmin, orderID))
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID uint, limit, page int) ([]*order.Order, error) {
	return m.many(m.Called(ctx, userID, limit, page))
}

func (m *MockOrderService) ListAll(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	return m.many(m.Called(ctx, filter))
}

func (m *MockOrderService) Transition(ctx context.Context, adminID, orderID uint, to order.Status) (*order.Order, error) {
	return m.one(m.Called(ctx, adminID, orderID, to))
}

func (m *MockOrderService) Cancel(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*order.Order, error) {
	return m.one(m.Called(ctx, userID, isAdmin, orderID))
}

func (m *MockOrderService) HasDeliveredOrderContaining(ctx context.Context, userID, productID uint) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) one(args mock.Arguments) (*review.Review, error) {
	if rv := args.Get(0); rv != nil {
		return rv.(*review.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewService) CanReview(ctx context.Context, userID, productID uint) (review.Decision, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(review.Decision), args.Error(1)
}

func (m *MockReviewService) Submit(ctx context.Context, userID, productID uint, input review.Input) (*review.Review, error) {
	return m.one(m.Called(ctx, userID, productID, input))
}

func (m *MockReviewService) Update(ctx context.Context, userID, reviewID uint, input review.Input) (*review.Review, error) {
	return m.one(m.Called(ctx, userID, reviewID, input))
}

func (m *MockReviewService) Delete(ctx context.Context, userID, reviewID uint) error {
	return m.Called(ctx, userID, reviewID).Error(0)
}

func (m *MockReviewService) MarkHelpful(ctx context.Context, userID, reviewID uint) (*review.Review, error) {
	return m.one(m.Called(ctx, userID, reviewID))
}

func (m *MockReviewService) SetVerified(ctx context.Context, reviewID uint, verified bool) (*review.Review, error) {
	return m.one(m.Called(ctx, reviewID, verified))
}

func (m *MockReviewService) ListForProduct(ctx context.Context, productID uint, limit, page int) ([]*review.Review, error) {
	args := m.Called(ctx, productID, limit, page)
	if rv := args.Get(0); rv != nil {
		return rv.([]*review.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewService) Summary(ctx context.Context, productID uint) (*review.Summary, error) {
	args := m.Called(ctx, productID)
	if s := args.Get(0); s != nil {
		return s.(*review.Summary), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAddressService struct {
	address.Service
	mock.Mock
}

func (m *MockAddressService) Update(ctx context.Context, userID uint, id uuid.UUID, input address.Input) (*address.Address, error) {
	args := m.Called(ctx, userID, id, input)
	if a := args.Get(0); a != nil {
		return a.(*address.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAddressService) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockAddressService) List(ctx context.Context, userID uint) ([]*address.Address, error) {
	args := m.Called(ctx, userID)
	if a := args.Get(0); a != nil {
		return a.([]*address.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCouponService struct {
	coupon.Service
	mock.Mock
}

func (m *MockCouponService) Create(ctx context.Context, input coupon.Input) (*coupon.Coupon, error) {
	args := m.Called(ctx, input)
	if c := args.Get(0); c != nil {
		return c.(*coupon.Coupon), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedStats metrics.DeliverySnapshot

func (s fixedStats) Stats() metrics.DeliverySnapshot {
	return metrics.DeliverySnapshot(s)
}
