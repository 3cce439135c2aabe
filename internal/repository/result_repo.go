package repository

import (
	"context"

	"delaurel.com/schoolportal/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResultFilter narrows result queries; zero values mean "any".
type ResultFilter struct {
	Term      string
	Session   string
	Status    string
	SubjectID uuid.UUID
}

type ResultRepository interface {
	Create(ctx context.Context, result *model.Result) error
	Save(ctx context.Context, result *model.Result) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Result, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Result, error)
	FindByTuple(ctx context.Context, studentID, subjectID uuid.UUID, term, session string) (*model.Result, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID, filter ResultFilter) ([]model.Result, error)
	FindBySubjectPeriod(ctx context.Context, subjectID uuid.UUID, term, session string, studentIDs []uuid.UUID) ([]model.Result, error)
	FindPending(ctx context.Context, term, session string) ([]model.Result, error)
	FindByUploader(ctx context.Context, uploaderID uuid.UUID, filter ResultFilter) ([]model.Result, error)
	CountByUploader(ctx context.Context, uploaderID uuid.UUID, filter ResultFilter) (int64, error)
	UpdateStatusByIDs(ctx context.Context, ids []uuid.UUID, uploaderID *uuid.UUID, fromStatuses []string, updates map[string]interface{}) (int64, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, result *model.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) Save(ctx context.Context, result *model.Result) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r *resultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Result{}, "id = ?", id).Error
}

func (r *resultRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	var result model.Result
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Preload("Subject").
		Preload("UploadedBy").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *resultRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Result, error) {
	var results []model.Result
	if err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("UploadedBy").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) FindByTuple(ctx context.Context, studentID, subjectID uuid.UUID, term, session string) (*model.Result, error) {
	var result model.Result
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND term = ? AND session = ?",
			studentID, subjectID, term, session).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *resultRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, filter ResultFilter) ([]model.Result, error) {
	var results []model.Result
	q := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("UploadedBy").
		Where("student_id = ?", studentID)

	q = applyFilter(q, filter)

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) FindBySubjectPeriod(ctx context.Context, subjectID uuid.UUID, term, session string, studentIDs []uuid.UUID) ([]model.Result, error) {
	var results []model.Result
	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Where("subject_id = ? AND term = ? AND session = ?", subjectID, term, session).
		Order("total desc")

	if len(studentIDs) > 0 {
		q = q.Where("student_id IN ?", studentIDs)
	}

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) FindPending(ctx context.Context, term, session string) ([]model.Result, error) {
	var results []model.Result
	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Preload("Subject").
		Preload("UploadedBy").
		Where("status = ?", model.ResultStatusPending).
		Order("created_at desc")

	if term != "" {
		q = q.Where("term = ?", term)
	}
	if session != "" {
		q = q.Where("session = ?", session)
	}

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) FindByUploader(ctx context.Context, uploaderID uuid.UUID, filter ResultFilter) ([]model.Result, error) {
	var results []model.Result
	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Preload("Subject").
		Where("uploaded_by_id = ?", uploaderID).
		Order("created_at desc")

	q = applyFilter(q, filter)

	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) CountByUploader(ctx context.Context, uploaderID uuid.UUID, filter ResultFilter) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.Result{}).
		Where("uploaded_by_id = ?", uploaderID)

	q = applyFilter(q, filter)

	err := q.Count(&count).Error
	return count, err
}

func (r *resultRepository) UpdateStatusByIDs(ctx context.Context, ids []uuid.UUID, uploaderID *uuid.UUID, fromStatuses []string, updates map[string]interface{}) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Result{}).
		Where("id IN ?", ids)

	if uploaderID != nil {
		q = q.Where("uploaded_by_id = ?", *uploaderID)
	}
	if len(fromStatuses) > 0 {
		q = q.Where("status IN ?", fromStatuses)
	}

	res := q.Updates(updates)
	return res.RowsAffected, res.Error
}

func applyFilter(q *gorm.DB, filter ResultFilter) *gorm.DB {
	if filter.Term != "" {
		q = q.Where("term = ?", filter.Term)
	}
	if filter.Session != "" {
		q = q.Where("session = ?", filter.Session)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SubjectID != uuid.Nil {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	return q
}
