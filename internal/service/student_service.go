package service

import (
	"context"
	"errors"
	"fmt"

	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentService interface {
	ListStudents(ctx context.Context, filter repository.StudentFilter) ([]*model.User, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*model.User, error)
	StudentsForSubject(ctx context.Context, subjectID, requesterID uuid.UUID, requesterRole string) ([]*model.User, error)
	SearchStudents(ctx context.Context, query string, limit int64) ([]StudentDoc, error)
}

type studentService struct {
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
	search      SearchService
}

func NewStudentService(userRepo repository.UserRepository, subjectRepo repository.SubjectRepository, search SearchService) StudentService {
	return &studentService{
		userRepo:    userRepo,
		subjectRepo: subjectRepo,
		search:      search,
	}
}

func (s *studentService) ListStudents(ctx context.Context, filter repository.StudentFilter) ([]*model.User, error) {
	return s.userRepo.FindStudents(ctx, filter)
}

func (s *studentService) GetStudent(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if user.Role != model.RoleStudent {
		return nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
	}
	return user, nil
}

// StudentsForSubject lists a subject's roster. Teachers must be
// assigned to the subject; admin roles may inspect any roster.
func (s *studentService) StudentsForSubject(ctx context.Context, subjectID, requesterID uuid.UUID, requesterRole string) ([]*model.User, error) {
	if _, err := s.subjectRepo.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if !model.IsAdminRole(requesterRole) {
		assigned, err := s.subjectRepo.TeacherAssigned(ctx, subjectID, requesterID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, fmt.Errorf("you are not assigned to this subject: %w", apperror.ErrForbidden)
		}
	}

	return s.userRepo.FindStudentsBySubject(ctx, subjectID)
}

func (s *studentService) SearchStudents(ctx context.Context, query string, limit int64) ([]StudentDoc, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search is not configured: %w", apperror.ErrInternal)
	}
	return s.search.SearchStudents(query, limit)
}
