package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portfolio-api/internal/domain"
	"github.com/spec-kit/portfolio-api/internal/repository"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// ProfileUpdateInput carries the mutable profile fields.
type ProfileUpdateInput struct {
	FullName *string
	Avatar   *string
}

// UserService covers profile reads/updates and the admin listing surface.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile loads an identity without secret fields.
func (s *UserService) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfile applies partial updates to display name and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// List returns a page of identities plus the total count.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return users, total, nil
}

// Deactivate soft-deletes an identity. Records are never hard-deleted.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if err := s.users.SetStatus(ctx, id, domain.UserStatusDisabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}
