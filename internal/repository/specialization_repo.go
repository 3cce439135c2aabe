package repository

import (
	"context"

	"delaurel.com/schoolportal/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpecializationRepository interface {
	Create(ctx context.Context, spec *model.Specialization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Specialization, error)
	FindAll(ctx context.Context) ([]model.Specialization, error)
	Update(ctx context.Context, spec *model.Specialization) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountTeachers(ctx context.Context, id uuid.UUID) (int64, error)
}

type specializationRepository struct {
	db *gorm.DB
}

func NewSpecializationRepository(db *gorm.DB) SpecializationRepository {
	return &specializationRepository{db: db}
}

func (r *specializationRepository) Create(ctx context.Context, spec *model.Specialization) error {
	return r.db.WithContext(ctx).Create(spec).Error
}

func (r *specializationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	var spec model.Specialization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&spec).Error; err != nil {
		return nil, err
	}

	return &spec, nil
}

func (r *specializationRepository) FindAll(ctx context.Context) ([]model.Specialization, error) {
	var specs []model.Specialization
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category, name").
		Find(&specs).Error; err != nil {
		return nil, err
	}

	return specs, nil
}

func (r *specializationRepository) Update(ctx context.Context, spec *model.Specialization) error {
	return r.db.WithContext(ctx).Save(spec).Error
}

func (r *specializationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Specialization{}, "id = ?", id).Error
}

func (r *specializationRepository) CountTeachers(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TeacherProfile{}).
		Where("specialization_id = ?", id).
		Count(&count).Error
	return count, err
}
