package service

import (
	"context"
	"errors"
	"fmt"

	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService interface {
	BanUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UnbanUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ResetParentPassword(ctx context.Context, parentID uuid.UUID, newPassword string) error
}

type adminService struct {
	userRepo repository.UserRepository
	search   SearchService
}

func NewAdminService(userRepo repository.UserRepository, search SearchService) AdminService {
	return &adminService{
		userRepo: userRepo,
		search:   search,
	}
}

func (s *adminService) BanUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.setBanned(ctx, userID, true)
}

func (s *adminService) UnbanUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.setBanned(ctx, userID, false)
}

func (s *adminService) setBanned(ctx context.Context, userID uuid.UUID, banned bool) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetBanned(ctx, userID, banned); err != nil {
		return nil, fmt.Errorf("failed to update ban status: %w", err)
	}
	user.IsBanned = banned
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	// Search index cleanup is best effort.
	if user.Role == model.RoleStudent && s.search != nil {
		_ = s.search.DeleteStudent(userID.String())
	}

	return user, nil
}

func (s *adminService) ResetParentPassword(ctx context.Context, parentID uuid.UUID, newPassword string) error {
	parent, err := s.findUser(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.Role != model.RoleParent {
		return fmt.Errorf("user %s is not a parent: %w", parentID, apperror.ErrForbidden)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, parentID, string(hashed))
}

func (s *adminService) findUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
