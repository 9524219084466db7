package review

import (
	"context"
	"errors"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	CanReview(ctx context.Context, userID, productID uint) (Decision, error)
	Submit(ctx context.Context, userID, productID uint, input Input) (*Review, error)
	Update(ctx context.Context, userID, reviewID uint, input Input) (*Review, error)
	Delete(ctx context.Context, userID, reviewID uint) error
	MarkHelpful(ctx context.Context, userID, reviewID uint) (*Review, error)
	SetVerified(ctx context.Context, reviewID uint, verified bool) (*Review, error)
	ListForProduct(ctx context.Context, productID uint, limit, page int) ([]*Review, error)
	Summary(ctx context.Context, productID uint) (*Summary, error)
}

type service struct {
	repo Repository
	gate *Gate
}

func NewService(repo Repository, purchases PurchaseVerifier) Service {
	return &service{repo: repo, gate: NewGate(purchases, repo)}
}

func (s *service) CanReview(ctx context.Context, userID, productID uint) (Decision, error) {
	return s.gate.CanReview(ctx, userID, productID)
}

func (s *service) Submit(ctx context.Context, userID, productID uint, input Input) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Review"),
		zap.String("method", "Submit"),
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
	)

	in, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	decision, err := s.gate.CanReview(ctx, userID, productID)
	if err != nil {
		log.Error("eligibility check failed", zap.Error(err))
		return nil, err
	}
	if !decision.Allowed {
		log.Info("review rejected", zap.String("reason", string(decision.Reason)))
		return nil, decision.Reason.Err()
	}

	rv := &Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		if errors.Is(err, ErrDuplicateReview) {
			log.Info("concurrent duplicate review rejected")
		}
		return nil, err
	}

	log.Info("review submitted", zap.Uint("review_id", rv.ID), zap.Int("rating", rv.Rating))
	return rv, nil
}

func (s *service) owned(ctx context.Context, userID, reviewID uint) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.UserID != userID {
		return nil, ErrNotOwner
	}
	return rv, nil
}

func (s *service) Update(ctx context.Context, userID, reviewID uint, input Input) (*Review, error) {
	in, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	rv, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	rv.Rating = in.Rating
	rv.Comment = in.Comment
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) Delete(ctx context.Context, userID, reviewID uint) error {
	if _, err := s.owned(ctx, userID, reviewID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reviewID)
}

func (s *service) MarkHelpful(ctx context.Context, userID, reviewID uint) (*Review, error) {
	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	counted, err := s.repo.MarkHelpful(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}
	if counted {
		rv.HelpfulCount++
	}
	return rv, nil
}

func (s *service) SetVerified(ctx context.Context, reviewID uint, verified bool) (*Review, error) {
	if err := s.repo.SetVerified(ctx, reviewID, verified); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, reviewID)
}

func (s *service) ListForProduct(ctx context.Context, productID uint, limit, page int) ([]*Review, error) {
	l, offset := utils.Pagination(limit, page)
	return s.repo.ListByProduct(ctx, productID, l, offset)
}

func (s *service) Summary(ctx context.Context, productID uint) (*Summary, error) {
	return s.repo.Summary(ctx, productID)
}
