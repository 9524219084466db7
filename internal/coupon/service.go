package coupon

import (
	"context"
	"errors"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// Service exposes coupon lookup for the cart and admin maintenance.
type Service interface {
	// Lookup resolves a code entered by a shopper. Unknown codes are
	// reported as ErrInvalidCoupon.
	Lookup(ctx context.Context, code string) (*Coupon, error)

	List(ctx context.Context, limit, page int) ([]*Coupon, error)
	Create(ctx context.Context, input Input) (*Coupon, error)
	Update(ctx context.Context, id uint, input Input) (*Coupon, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Lookup(ctx context.Context, code string) (*Coupon, error) {
	if NormalizeCode(code) == "" {
		return nil, ErrInvalidCoupon
	}

	c, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, ErrCouponNotFound) {
		return nil, ErrInvalidCoupon
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context, limit, page int) ([]*Coupon, error) {
	l, offset := utils.Pagination(limit, page)
	return s.repo.List(ctx, l, offset)
}

func (s *service) Create(ctx context.Context, input Input) (*Coupon, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Coupon"),
		zap.String("method", "Create"),
	)

	c, err := input.ToCoupon()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		log.Warn("create coupon failed", zap.String("code", c.Code), zap.Error(err))
		return nil, err
	}

	log.Info("coupon created", zap.Uint("coupon_id", c.ID), zap.String("code", c.Code))
	return c, nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*Coupon, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Coupon"),
		zap.String("method", "Update"),
		zap.Uint("coupon_id", id),
	)

	c, err := input.ToCoupon()
	if err != nil {
		return nil, err
	}
	c.ID = id

	if err := s.repo.Update(ctx, c); err != nil {
		log.Warn("update coupon failed", zap.Error(err))
		return nil, err
	}

	log.Info("coupon updated")
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("coupon deleted",
		zap.String("service", "Coupon"),
		zap.Uint("coupon_id", id),
	)
	return nil
}
