package address

import (
	"context"

	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages a user's address book. Touching another user's address
// fails with ErrNotOwner.
type Service interface {
	List(ctx context.Context, userID uint) ([]*Address, error)
	Get(ctx context.Context, userID uint, id uuid.UUID) (*Address, error)

	Create(ctx context.Context, userID uint, input Input) (*Address, error)
	Update(ctx context.Context, userID uint, id uuid.UUID, input Input) (*Address, error)
	Delete(ctx context.Context, userID uint, id uuid.UUID) error

	SetDefault(ctx context.Context, userID uint, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID uint) ([]*Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID uint, id uuid.UUID) (*Address, error) {
	addr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		logger.FromCtx(ctx).Warn("address owned by another user",
			zap.String("service", "Address"),
			zap.Uint("user_id", userID),
			zap.String("address_id", id.String()),
		)
		return nil, ErrNotOwner
	}
	return addr, nil
}

func (s *service) Create(ctx context.Context, userID uint, input Input) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
	)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	addr := input.toAddress(userID)
	if err := s.repo.Create(ctx, addr); err != nil {
		log.Error("failed to create address", zap.Error(err))
		return nil, err
	}

	log.Info("address created", zap.String("address_id", addr.ID.String()))
	return addr, nil
}

func (s *service) Update(ctx context.Context, userID uint, id uuid.UUID, input Input) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Update"),
		zap.Uint("user_id", userID),
	)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	old, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	addr := input.toAddress(userID)
	if !input.SetAsDefault {
		addr.IsDefault = old.IsDefault
	}
	if err := s.repo.Replace(ctx, old.ID, addr); err != nil {
		log.Error("failed to update address", zap.Error(err))
		return nil, err
	}

	log.Info("address updated",
		zap.String("old_id", old.ID.String()),
		zap.String("new_id", addr.ID.String()),
	)
	return addr, nil
}

func (s *service) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("address deleted",
		zap.String("service", "Address"),
		zap.String("address_id", id.String()),
	)
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID uint, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, userID, id)
}
