package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectService interface {
	CreateSubject(ctx context.Context, input dto.CreateSubjectInput) (*model.Subject, error)
	UpdateSubject(ctx context.Context, id uuid.UUID, input dto.UpdateSubjectInput) (*model.Subject, error)
	GetSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error)
	ListSubjects(ctx context.Context, filter repository.SubjectFilter) ([]model.Subject, error)
	AvailableSubjects(ctx context.Context, studentUserID uuid.UUID) ([]model.Subject, error)
	AssignTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) (alreadyAssigned bool, err error)
	AssignSubjectsToStudent(ctx context.Context, studentUserID uuid.UUID, subjectIDs []uuid.UUID) (*model.User, error)
}

type subjectService struct {
	subjectRepo repository.SubjectRepository
	userRepo    repository.UserRepository
}

func NewSubjectService(subjectRepo repository.SubjectRepository, userRepo repository.UserRepository) SubjectService {
	return &subjectService{
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
	}
}

func (s *subjectService) CreateSubject(ctx context.Context, input dto.CreateSubjectInput) (*model.Subject, error) {
	branch := input.Branch
	if branch == "" {
		branch = model.BranchAll
	}
	subjectType := input.Type
	if subjectType == "" {
		subjectType = model.SubjectTypeCore
	}

	subject := &model.Subject{
		Name:        input.Name,
		Code:        strings.ToUpper(input.Code),
		ClassLevels: input.ClassLevels,
		Branch:      branch,
		Type:        subjectType,
		Description: input.Description,
		IsActive:    true,
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("subject code %s already exists: %w", subject.Code, apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	return subject, nil
}

func (s *subjectService) UpdateSubject(ctx context.Context, id uuid.UUID, input dto.UpdateSubjectInput) (*model.Subject, error) {
	subject, err := s.findSubject(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		subject.Name = input.Name
	}
	if len(input.ClassLevels) > 0 {
		subject.ClassLevels = input.ClassLevels
	}
	if input.Branch != "" {
		subject.Branch = input.Branch
	}
	if input.Type != "" {
		subject.Type = input.Type
	}
	if input.Description != nil {
		subject.Description = *input.Description
	}
	if input.IsActive != nil {
		subject.IsActive = *input.IsActive
	}

	if err := s.subjectRepo.Save(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}
	return subject, nil
}

func (s *subjectService) GetSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	return s.findSubject(ctx, id)
}

func (s *subjectService) ListSubjects(ctx context.Context, filter repository.SubjectFilter) ([]model.Subject, error) {
	return s.subjectRepo.FindAll(ctx, filter)
}

// AvailableSubjects returns the active subjects a student may take,
// matched against their class level and branch.
func (s *subjectService) AvailableSubjects(ctx context.Context, studentUserID uuid.UUID) ([]model.Subject, error) {
	student, err := s.findStudent(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	all, err := s.subjectRepo.FindAll(ctx, repository.SubjectFilter{})
	if err != nil {
		return nil, err
	}

	profile := student.StudentProfile
	available := make([]model.Subject, 0, len(all))
	for _, subject := range all {
		if !subject.IsActive {
			continue
		}
		if subject.OffersClassLevel(profile.ClassLevel) && subject.MatchesBranch(profile.Branch) {
			available = append(available, subject)
		}
	}

	return available, nil
}

// AssignTeacher is idempotent. Assigning a teacher who already teaches
// the subject reports success without touching the join table.
func (s *subjectService) AssignTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) (bool, error) {
	if _, err := s.findSubject(ctx, subjectID); err != nil {
		return false, err
	}

	teacher, err := s.userRepo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("teacher not found: %w", apperror.ErrNotFound)
		}
		return false, err
	}
	if teacher.Role != model.RoleTeacher {
		return false, fmt.Errorf("user %s is not a teacher: %w", teacher.ID, apperror.ErrValidation)
	}

	assigned, err := s.subjectRepo.TeacherAssigned(ctx, subjectID, teacherID)
	if err != nil {
		return false, err
	}
	if assigned {
		return true, nil
	}

	if err := s.subjectRepo.AddTeacher(ctx, subjectID, teacherID); err != nil {
		return false, fmt.Errorf("failed to assign teacher: %w", err)
	}
	return false, nil
}

// AssignSubjectsToStudent validates the whole batch before writing.
// One invalid subject rejects the entire request and the student's
// current assignment is left untouched.
func (s *subjectService) AssignSubjectsToStudent(ctx context.Context, studentUserID uuid.UUID, subjectIDs []uuid.UUID) (*model.User, error) {
	student, err := s.findStudent(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	profile := student.StudentProfile

	subjects, err := s.subjectRepo.FindByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]model.Subject, len(subjects))
	for _, subject := range subjects {
		found[subject.ID] = subject
	}

	assignable := make([]model.Subject, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		subject, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("subject %s does not exist: %w", id, apperror.ErrNotFound)
		}
		if !subject.IsActive {
			return nil, fmt.Errorf("subject %s is inactive: %w", subject.Name, apperror.ErrValidation)
		}
		if !subject.OffersClassLevel(profile.ClassLevel) {
			return nil, fmt.Errorf("subject %s is not offered in %s: %w", subject.Name, profile.ClassLevel, apperror.ErrValidation)
		}
		if !subject.MatchesBranch(profile.Branch) {
			return nil, fmt.Errorf("subject %s is not available to the %s branch: %w", subject.Name, profile.Branch, apperror.ErrValidation)
		}
		assignable = append(assignable, subject)
	}

	if err := s.userRepo.ReplaceStudentSubjects(ctx, studentUserID, assignable); err != nil {
		return nil, fmt.Errorf("failed to assign subjects: %w", err)
	}

	return s.userRepo.FindByID(ctx, studentUserID)
}

func (s *subjectService) findSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	subject, err := s.subjectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return subject, nil
}

func (s *subjectService) findStudent(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if user.Role != model.RoleStudent || user.StudentProfile == nil {
		return nil, fmt.Errorf("user %s is not a student: %w", id, apperror.ErrValidation)
	}
	return user, nil
}
