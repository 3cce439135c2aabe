package service

import (
	"context"
	"errors"
	"fmt"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentService interface {
	LinkChild(ctx context.Context, input dto.LinkChildInput) (*model.User, error)
	UnlinkChild(ctx context.Context, input dto.LinkChildInput) (*model.User, error)
	MyChildren(ctx context.Context, parentID uuid.UUID) ([]*model.User, error)
	GetProfile(ctx context.Context, parentID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, parentID uuid.UUID, input dto.UpdateParentProfileInput) (*model.User, error)
	IsParentOf(ctx context.Context, parentID, childID uuid.UUID) (bool, error)
}

type parentService struct {
	userRepo repository.UserRepository
}

func NewParentService(userRepo repository.UserRepository) ParentService {
	return &parentService{userRepo: userRepo}
}

func (s *parentService) LinkChild(ctx context.Context, input dto.LinkChildInput) (*model.User, error) {
	parent, err := s.findParent(ctx, input.ParentID)
	if err != nil {
		return nil, err
	}

	student, err := s.userRepo.FindByID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, fmt.Errorf("user %s is not a student: %w", student.ID, apperror.ErrValidation)
	}

	linked, err := s.userRepo.IsParentOfChild(ctx, parent.ID, student.ID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, fmt.Errorf("student is already linked to this parent: %w", apperror.ErrConflict)
	}

	if err := s.userRepo.LinkChild(ctx, parent.ID, student.ID); err != nil {
		return nil, fmt.Errorf("failed to link child: %w", err)
	}

	return s.userRepo.FindByID(ctx, parent.ID)
}

func (s *parentService) UnlinkChild(ctx context.Context, input dto.LinkChildInput) (*model.User, error) {
	parent, err := s.findParent(ctx, input.ParentID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UnlinkChild(ctx, parent.ID, input.StudentID); err != nil {
		return nil, fmt.Errorf("failed to unlink child: %w", err)
	}

	return s.userRepo.FindByID(ctx, parent.ID)
}

func (s *parentService) MyChildren(ctx context.Context, parentID uuid.UUID) ([]*model.User, error) {
	if _, err := s.findParent(ctx, parentID); err != nil {
		return nil, err
	}
	return s.userRepo.FindChildren(ctx, parentID)
}

func (s *parentService) GetProfile(ctx context.Context, parentID uuid.UUID) (*model.User, error) {
	return s.findParent(ctx, parentID)
}

func (s *parentService) UpdateProfile(ctx context.Context, parentID uuid.UUID, input dto.UpdateParentProfileInput) (*model.User, error) {
	parent, err := s.findParent(ctx, parentID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		parent.Name = input.Name
	}

	if err := s.userRepo.Update(ctx, parent); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.userRepo.FindByID(ctx, parentID)
}

func (s *parentService) IsParentOf(ctx context.Context, parentID, childID uuid.UUID) (bool, error) {
	return s.userRepo.IsParentOfChild(ctx, parentID, childID)
}

func (s *parentService) findParent(ctx context.Context, parentID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parent not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if user.Role != model.RoleParent {
		return nil, fmt.Errorf("parent not found: %w", apperror.ErrNotFound)
	}
	return user, nil
}
