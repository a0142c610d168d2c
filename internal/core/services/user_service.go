package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/SscSPs/lingua_app/internal/utils"
)

const maxUserListLimit = 100

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	hashCost int
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade, hashCost int) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(),
		userRepo:    userRepo,
		hashCost:    hashCost,
	}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers clamps limit to [1, 100] and offset to >= 0.
func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxUserListLimit {
		limit = maxUserListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users", slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		s.LogWarn(ctx, "User tried to update another account", slog.String("target_user_id", userID))
		return nil, apperrors.ErrForbidden
	}

	var patch domain.UserPatch
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, apperrors.NewBadRequestError("Email must not be empty")
		}
		patch.Email = &email
	}
	if req.Firstname != nil {
		patch.Firstname = optionalString(*req.Firstname)
		if patch.Firstname == nil {
			return nil, apperrors.NewBadRequestError("Firstname must not be empty")
		}
	}
	if req.Lastname != nil {
		patch.Lastname = optionalString(*req.Lastname)
		if patch.Lastname == nil {
			return nil, apperrors.NewBadRequestError("Lastname must not be empty")
		}
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, apperrors.NewBadRequestError("Password must not be empty")
		}
		hash, err := utils.HashPassword(*req.Password, s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewBadRequestError("No fields to update")
	}

	updated, err := s.userRepo.UpdateUser(ctx, userID, patch, s.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "User updated",
		slog.String("user_id", userID),
		slog.Bool("password_changed", patch.PasswordHash != nil),
		slog.String("fields", strings.Join(patchedFields(patch), ",")))
	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		s.LogWarn(ctx, "User tried to delete another account", slog.String("target_user_id", userID))
		return apperrors.ErrForbidden
	}
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		}
		return err
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}

func patchedFields(p domain.UserPatch) []string {
	var fields []string
	if p.Email != nil {
		fields = append(fields, "email")
	}
	if p.Firstname != nil {
		fields = append(fields, "firstname")
	}
	if p.Lastname != nil {
		fields = append(fields, "lastname")
	}
	if p.PasswordHash != nil {
		fields = append(fields, "password")
	}
	return fields
}
