package repository

import (
	"context"

	"delaurel.com/schoolportal/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectFilter struct {
	Branch     string
	ClassLevel string
}

type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	Save(ctx context.Context, subject *model.Subject) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Subject, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subject, error)
	FindAll(ctx context.Context, filter SubjectFilter) ([]model.Subject, error)
	FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Subject, error)
	AddTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) error
	TeacherAssigned(ctx context.Context, subjectID, teacherID uuid.UUID) (bool, error)
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) Save(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Omit("Teachers").Save(subject).Error
}

func (r *subjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.WithContext(ctx).
		Preload("Teachers").
		Where("id = ?", id).
		First(&subject).Error; err != nil {
		return nil, err
	}

	return &subject, nil
}

func (r *subjectRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&subjects).Error; err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *subjectRepository) FindAll(ctx context.Context, filter SubjectFilter) ([]model.Subject, error) {
	var subjects []model.Subject
	q := r.db.WithContext(ctx).
		Preload("Teachers").
		Where("is_active = ?", true).
		Order("name")

	if filter.Branch != "" {
		q = q.Where("branch = ? OR branch = ?", filter.Branch, model.BranchAll)
	}

	if err := q.Find(&subjects).Error; err != nil {
		return nil, err
	}

	// classLevels is a JSON column; filter in memory rather than relying on
	// store-specific JSON operators.
	if filter.ClassLevel != "" {
		filtered := subjects[:0]
		for _, s := range subjects {
			if s.OffersClassLevel(filter.ClassLevel) {
				filtered = append(filtered, s)
			}
		}
		subjects = filtered
	}

	return subjects, nil
}

func (r *subjectRepository) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := r.db.WithContext(ctx).
		Joins("JOIN subject_teachers ON subject_teachers.subject_id = subjects.id").
		Where("subject_teachers.user_id = ?", teacherID).
		Order("subjects.name").
		Find(&subjects).Error; err != nil {
		return nil, err
	}

	return subjects, nil
}

func (r *subjectRepository) AddTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) error {
	subject := model.Subject{ID: subjectID}
	return r.db.WithContext(ctx).
		Model(&subject).
		Association("Teachers").
		Append(&model.User{ID: teacherID})
}

func (r *subjectRepository) TeacherAssigned(ctx context.Context, subjectID, teacherID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("subject_teachers").
		Where("subject_id = ? AND user_id = ?", subjectID, teacherID).
		Count(&count).Error
	return count > 0, err
}
