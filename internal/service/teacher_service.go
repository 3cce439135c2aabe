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

type TeacherService interface {
	GetProfile(ctx context.Context, teacherID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, teacherID uuid.UUID, input dto.UpdateTeacherProfileInput) (*model.User, error)
	MySubjects(ctx context.Context, teacherID uuid.UUID) ([]dto.SubjectWithStudentCount, error)
	Stats(ctx context.Context, teacherID uuid.UUID) (*dto.TeacherStatsResponse, error)
	MyResults(ctx context.Context, teacherID uuid.UUID, filter repository.ResultFilter) ([]model.Result, error)
}

type teacherService struct {
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
	resultRepo  repository.ResultRepository
	specRepo    repository.SpecializationRepository
}

func NewTeacherService(userRepo repository.UserRepository, subjectRepo repository.SubjectRepository, resultRepo repository.ResultRepository, specRepo repository.SpecializationRepository) TeacherService {
	return &teacherService{
		userRepo:    userRepo,
		subjectRepo: subjectRepo,
		resultRepo:  resultRepo,
		specRepo:    specRepo,
	}
}

func (s *teacherService) GetProfile(ctx context.Context, teacherID uuid.UUID) (*model.User, error) {
	return s.findTeacher(ctx, teacherID)
}

func (s *teacherService) UpdateProfile(ctx context.Context, teacherID uuid.UUID, input dto.UpdateTeacherProfileInput) (*model.User, error) {
	teacher, err := s.findTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		teacher.Name = input.Name
	}
	if teacher.TeacherProfile == nil {
		teacher.TeacherProfile = &model.TeacherProfile{UserID: teacher.ID}
	}
	if input.SpecializationID != nil {
		if _, err := s.specRepo.FindByID(ctx, *input.SpecializationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("specialization not found: %w", apperror.ErrNotFound)
			}
			return nil, err
		}
		teacher.TeacherProfile.SpecializationID = input.SpecializationID
	}
	if input.Qualifications != nil {
		teacher.TeacherProfile.Qualifications = *input.Qualifications
	}
	if input.YearsOfExperience != nil {
		teacher.TeacherProfile.YearsOfExperience = *input.YearsOfExperience
	}

	if err := s.userRepo.Update(ctx, teacher); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.userRepo.FindByID(ctx, teacherID)
}

// MySubjects lists the subjects a teacher is assigned to, each with its
// enrolled student count.
func (s *teacherService) MySubjects(ctx context.Context, teacherID uuid.UUID) ([]dto.SubjectWithStudentCount, error) {
	subjects, err := s.subjectRepo.FindByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SubjectWithStudentCount, 0, len(subjects))
	for _, subject := range subjects {
		count, err := s.userRepo.CountStudentsBySubject(ctx, subject.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.SubjectWithStudentCount{
			ID:           subject.ID,
			Name:         subject.Name,
			Code:         subject.Code,
			ClassLevels:  subject.ClassLevels,
			Branch:       subject.Branch,
			Type:         subject.Type,
			StudentCount: count,
		})
	}
	return out, nil
}

func (s *teacherService) Stats(ctx context.Context, teacherID uuid.UUID) (*dto.TeacherStatsResponse, error) {
	subjects, err := s.subjectRepo.FindByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	subjectIDs := make([]uuid.UUID, 0, len(subjects))
	for _, subject := range subjects {
		subjectIDs = append(subjectIDs, subject.ID)
	}

	var totalStudents int64
	if len(subjectIDs) > 0 {
		totalStudents, err = s.userRepo.CountStudentsBySubjects(ctx, subjectIDs)
		if err != nil {
			return nil, err
		}
	}

	uploaded, err := s.resultRepo.CountByUploader(ctx, teacherID, repository.ResultFilter{})
	if err != nil {
		return nil, err
	}

	return &dto.TeacherStatsResponse{
		SubjectsTaught:  len(subjects),
		TotalStudents:   totalStudents,
		ResultsUploaded: uploaded,
	}, nil
}

func (s *teacherService) MyResults(ctx context.Context, teacherID uuid.UUID, filter repository.ResultFilter) ([]model.Result, error) {
	return s.resultRepo.FindByUploader(ctx, teacherID, filter)
}

func (s *teacherService) findTeacher(ctx context.Context, teacherID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if user.Role != model.RoleTeacher {
		return nil, fmt.Errorf("teacher not found: %w", apperror.ErrNotFound)
	}
	return user, nil
}
