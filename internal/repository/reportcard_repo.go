package repository

import (
	"context"

	"delaurel.com/schoolportal/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportCardFilter struct {
	Term    string
	Session string
	Status  string
}

type ReportCardRepository interface {
	Create(ctx context.Context, card *model.ReportCard) error
	Save(ctx context.Context, card *model.ReportCard) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReportCard, error)
	FindByTuple(ctx context.Context, studentID uuid.UUID, term, session string) (*model.ReportCard, error)
	FindPublishedByTuple(ctx context.Context, studentID uuid.UUID, term, session string) (*model.ReportCard, error)
	FindForReview(ctx context.Context, filter ReportCardFilter) ([]model.ReportCard, error)
	ReplaceResults(ctx context.Context, card *model.ReportCard, results []model.Result) error
}

type reportCardRepository struct {
	db *gorm.DB
}

func NewReportCardRepository(db *gorm.DB) ReportCardRepository {
	return &reportCardRepository{db: db}
}

func (r *reportCardRepository) Create(ctx context.Context, card *model.ReportCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *reportCardRepository) Save(ctx context.Context, card *model.ReportCard) error {
	return r.db.WithContext(ctx).Omit("Results").Save(card).Error
}

func (r *reportCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ReportCard, error) {
	var card model.ReportCard
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Preload("Results").
		Preload("Results.Subject").
		Preload("Results.UploadedBy").
		Preload("ReviewedBy").
		Where("id = ?", id).
		First(&card).Error; err != nil {
		return nil, err
	}

	return &card, nil
}

func (r *reportCardRepository) FindByTuple(ctx context.Context, studentID uuid.UUID, term, session string) (*model.ReportCard, error) {
	var card model.ReportCard
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ? AND session = ?", studentID, term, session).
		First(&card).Error; err != nil {
		return nil, err
	}

	return &card, nil
}

func (r *reportCardRepository) FindPublishedByTuple(ctx context.Context, studentID uuid.UUID, term, session string) (*model.ReportCard, error) {
	var card model.ReportCard
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Preload("Results").
		Preload("Results.Subject").
		Where("student_id = ? AND term = ? AND session = ? AND status = ?",
			studentID, term, session, model.ReportCardStatusPublished).
		First(&card).Error; err != nil {
		return nil, err
	}

	return &card, nil
}

func (r *reportCardRepository) FindForReview(ctx context.Context, filter ReportCardFilter) ([]model.ReportCard, error) {
	var cards []model.ReportCard
	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.StudentProfile").
		Preload("ReviewedBy").
		Where("term = ? AND session = ?", filter.Term, filter.Session).
		Order("created_at desc")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Find(&cards).Error; err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *reportCardRepository) ReplaceResults(ctx context.Context, card *model.ReportCard, results []model.Result) error {
	return r.db.WithContext(ctx).
		Model(card).
		Association("Results").
		Replace(results)
}
