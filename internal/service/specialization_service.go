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

type SpecializationService interface {
	Create(ctx context.Context, input dto.CreateSpecializationInput) (*model.Specialization, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateSpecializationInput) (*model.Specialization, error)
	List(ctx context.Context) ([]model.Specialization, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Specialization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type specializationService struct {
	repo repository.SpecializationRepository
}

func NewSpecializationService(repo repository.SpecializationRepository) SpecializationService {
	return &specializationService{repo: repo}
}

func (s *specializationService) Create(ctx context.Context, input dto.CreateSpecializationInput) (*model.Specialization, error) {
	spec := &model.Specialization{
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, spec); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("specialization %s already exists: %w", input.Name, apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create specialization: %w", err)
	}
	return spec, nil
}

func (s *specializationService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateSpecializationInput) (*model.Specialization, error) {
	spec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		spec.Name = input.Name
	}
	if input.Category != "" {
		spec.Category = input.Category
	}
	if input.Description != nil {
		spec.Description = *input.Description
	}
	if input.IsActive != nil {
		spec.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, spec); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("specialization %s already exists: %w", spec.Name, apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to update specialization: %w", err)
	}
	return spec, nil
}

func (s *specializationService) List(ctx context.Context) ([]model.Specialization, error) {
	return s.repo.FindAll(ctx)
}

func (s *specializationService) Get(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	spec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("specialization not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return spec, nil
}

// Delete refuses while teachers still reference the specialization.
func (s *specializationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	inUse, err := s.repo.CountTeachers(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%d teacher(s) still use this specialization: %w", inUse, apperror.ErrConflict)
	}

	return s.repo.Delete(ctx, id)
}
