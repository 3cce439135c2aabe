package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/grading"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/apperror"
	"delaurel.com/schoolportal/pkg/mailer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResultService interface {
	UploadResult(ctx context.Context, teacherID uuid.UUID, input dto.UploadResultInput) (*model.Result, bool, error)
	BulkUpload(ctx context.Context, teacherID uuid.UUID, input dto.BulkUploadInput) (*dto.BulkUploadResponse, error)
	SubjectRoster(ctx context.Context, teacherID, subjectID uuid.UUID, term, session string) (*dto.SubjectRosterResponse, error)
	StudentResults(ctx context.Context, requesterID uuid.UUID, requesterRole string, studentID uuid.UUID, filter repository.ResultFilter) (*dto.StudentResultsResponse, error)
	ClassSubjectResults(ctx context.Context, classLevel string, subjectID uuid.UUID, term, session string) (*dto.ClassSubjectResultsResponse, error)
	DeleteResult(ctx context.Context, requesterID uuid.UUID, requesterRole string, resultID uuid.UUID) error
	SubmitForApproval(ctx context.Context, teacherID uuid.UUID, resultIDs []uuid.UUID) (int64, error)
	PendingResults(ctx context.Context, term, session string) (*dto.PendingResultsResponse, error)
	ApproveResults(ctx context.Context, approverID uuid.UUID, resultIDs []uuid.UUID) (int64, error)
	RejectResults(ctx context.Context, reviewerID uuid.UUID, resultIDs []uuid.UUID, reason string) (int64, error)
}

type resultService struct {
	resultRepo  repository.ResultRepository
	subjectRepo repository.SubjectRepository
	userRepo    repository.UserRepository
	mail        mailer.EmailService
	notifier    NotificationService
}

func NewResultService(resultRepo repository.ResultRepository, subjectRepo repository.SubjectRepository, userRepo repository.UserRepository, mail mailer.EmailService, notifier NotificationService) ResultService {
	return &resultService{
		resultRepo:  resultRepo,
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
		mail:        mail,
		notifier:    notifier,
	}
}

// UploadResult creates or updates the row keyed by
// (student, subject, term, session). The returned bool is true when a
// new row was created.
func (s *resultService) UploadResult(ctx context.Context, teacherID uuid.UUID, input dto.UploadResultInput) (*model.Result, bool, error) {
	student, subject, err := s.checkUploadPreconditions(ctx, teacherID, input.StudentID, input.SubjectID)
	if err != nil {
		return nil, false, err
	}

	firstCA, secondCA, exam := *input.FirstCA, *input.SecondCA, *input.Exam
	if err := grading.ValidateScores(firstCA, secondCA, exam); err != nil {
		return nil, false, err
	}

	existing, err := s.resultRepo.FindByTuple(ctx, student.ID, subject.ID, input.Term, input.Session)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing != nil {
		s.applyScores(existing, firstCA, secondCA, exam)
		if input.TeacherComment != "" {
			existing.TeacherComment = input.TeacherComment
		}
		now := time.Now()
		existing.LastEditedByID = &teacherID
		existing.LastEditedAt = &now

		if err := s.resultRepo.Save(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update result: %w", err)
		}
		updated, err := s.resultRepo.FindByID(ctx, existing.ID)
		if err != nil {
			return nil, false, err
		}
		return updated, false, nil
	}

	result := &model.Result{
		StudentID:      student.ID,
		SubjectID:      subject.ID,
		Term:           input.Term,
		Session:        input.Session,
		TeacherComment: input.TeacherComment,
		Status:         model.ResultStatusDraft,
		UploadedByID:   teacherID,
	}
	s.applyScores(result, firstCA, secondCA, exam)

	if err := s.resultRepo.Create(ctx, result); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, fmt.Errorf("result already exists for this student, subject, term and session: %w", apperror.ErrConflict)
		}
		return nil, false, fmt.Errorf("failed to create result: %w", err)
	}

	created, err := s.resultRepo.FindByID(ctx, result.ID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// BulkUpload processes each row independently. Invalid rows are
// reported back and never block the rest of the batch.
func (s *resultService) BulkUpload(ctx context.Context, teacherID uuid.UUID, input dto.BulkUploadInput) (*dto.BulkUploadResponse, error) {
	subject, err := s.findSubject(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTeacherAssigned(ctx, subject, teacherID); err != nil {
		return nil, err
	}

	resp := &dto.BulkUploadResponse{}
	for _, item := range input.Results {
		if err := s.bulkUploadOne(ctx, teacherID, subject, input.Term, input.Session, item); err != nil {
			resp.Failed++
			resp.Failures = append(resp.Failures, dto.BulkUploadFailure{
				StudentID: item.StudentID,
				Reason:    err.Error(),
			})
			continue
		}
		resp.Uploaded++
	}

	return resp, nil
}

func (s *resultService) bulkUploadOne(ctx context.Context, teacherID uuid.UUID, subject *model.Subject, term, session string, item dto.BulkResultItem) error {
	student, err := s.userRepo.FindStudentByStudentID(ctx, item.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("student not found")
		}
		return err
	}

	takes, err := s.userRepo.StudentHasSubject(ctx, student.ID, subject.ID)
	if err != nil {
		return err
	}
	if !takes {
		return fmt.Errorf("%s does not take %s", student.Name, subject.Name)
	}

	firstCA, secondCA, exam := *item.FirstCA, *item.SecondCA, *item.Exam
	if err := grading.ValidateScores(firstCA, secondCA, exam); err != nil {
		return err
	}

	existing, err := s.resultRepo.FindByTuple(ctx, student.ID, subject.ID, term, session)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		s.applyScores(existing, firstCA, secondCA, exam)
		existing.TeacherComment = item.TeacherComment
		now := time.Now()
		existing.LastEditedByID = &teacherID
		existing.LastEditedAt = &now
		return s.resultRepo.Save(ctx, existing)
	}

	result := &model.Result{
		StudentID:      student.ID,
		SubjectID:      subject.ID,
		Term:           term,
		Session:        session,
		TeacherComment: item.TeacherComment,
		Status:         model.ResultStatusDraft,
		UploadedByID:   teacherID,
	}
	s.applyScores(result, firstCA, secondCA, exam)
	return s.resultRepo.Create(ctx, result)
}

// SubjectRoster lists the subject's students. When term and session are
// given, each entry carries the student's result for that period.
func (s *resultService) SubjectRoster(ctx context.Context, teacherID, subjectID uuid.UUID, term, session string) (*dto.SubjectRosterResponse, error) {
	subject, err := s.findSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTeacherAssigned(ctx, subject, teacherID); err != nil {
		return nil, err
	}

	students, err := s.userRepo.FindStudentsBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	resultsByStudent := map[uuid.UUID]*model.Result{}
	if term != "" && session != "" {
		results, err := s.resultRepo.FindBySubjectPeriod(ctx, subjectID, term, session, nil)
		if err != nil {
			return nil, err
		}
		for i := range results {
			resultsByStudent[results[i].StudentID] = &results[i]
		}
	}

	resp := &dto.SubjectRosterResponse{
		SubjectID:     subject.ID,
		SubjectName:   subject.Name,
		SubjectCode:   subject.Code,
		Term:          term,
		Session:       session,
		TotalStudents: len(students),
	}

	for _, student := range students {
		entry := dto.RosterEntry{
			UserID: student.ID,
			Name:   student.Name,
			Email:  student.Email,
		}
		if student.StudentProfile != nil {
			entry.StudentID = student.StudentProfile.StudentID
			entry.ClassLevel = student.StudentProfile.ClassLevel
			entry.Branch = student.StudentProfile.Branch
		}
		if result, ok := resultsByStudent[student.ID]; ok {
			entry.HasResult = true
			r := toResultResponse(result)
			entry.Result = &r
			resp.StudentsWithResults++
		}
		resp.Students = append(resp.Students, entry)
	}

	return resp, nil
}

// StudentResults enforces the read guards: students see only their own
// ledger and parents only their linked children's.
func (s *resultService) StudentResults(ctx context.Context, requesterID uuid.UUID, requesterRole string, studentID uuid.UUID, filter repository.ResultFilter) (*dto.StudentResultsResponse, error) {
	switch requesterRole {
	case model.RoleStudent:
		if requesterID != studentID {
			return nil, fmt.Errorf("you can only view your own results: %w", apperror.ErrForbidden)
		}
	case model.RoleParent:
		linked, err := s.userRepo.IsParentOfChild(ctx, requesterID, studentID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, fmt.Errorf("you can only view your children's results: %w", apperror.ErrForbidden)
		}
	}

	results, err := s.resultRepo.FindByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results found for this student: %w", apperror.ErrNotFound)
	}

	resp := &dto.StudentResultsResponse{
		StudentUserID:    studentID,
		Term:             filter.Term,
		Session:          filter.Session,
		NumberOfSubjects: len(results),
	}
	if results[0].Student != nil {
		resp.StudentName = results[0].Student.Name
	}

	var totalScore float64
	for i := range results {
		totalScore += results[i].Total
		resp.Results = append(resp.Results, toResultResponse(&results[i]))
	}
	resp.Summary = dto.StudentResultsSummary{
		TotalScore:   totalScore,
		AverageScore: grading.Average(totalScore, len(results)),
		MaxPossible:  len(results) * 100,
	}

	return resp, nil
}

func (s *resultService) ClassSubjectResults(ctx context.Context, classLevel string, subjectID uuid.UUID, term, session string) (*dto.ClassSubjectResultsResponse, error) {
	if _, err := s.findSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	students, err := s.userRepo.FindStudentsBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	classStudentIDs := make([]uuid.UUID, 0, len(students))
	for _, student := range students {
		if student.StudentProfile != nil && student.StudentProfile.ClassLevel == classLevel {
			classStudentIDs = append(classStudentIDs, student.ID)
		}
	}

	var results []model.Result
	if len(classStudentIDs) > 0 {
		results, err = s.resultRepo.FindBySubjectPeriod(ctx, subjectID, term, session, classStudentIDs)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.ClassSubjectResultsResponse{
		ClassLevel: classLevel,
		Term:       term,
		Session:    session,
	}
	resp.Statistics.TotalStudents = len(classStudentIDs)
	resp.Statistics.StudentsWithResults = len(results)
	resp.Statistics.StudentsWithoutResults = len(classStudentIDs) - len(results)

	var sum float64
	for i := range results {
		r := &results[i]
		sum += r.Total
		if i == 0 || r.Total > resp.Statistics.HighestScore {
			resp.Statistics.HighestScore = r.Total
		}
		if i == 0 || r.Total < resp.Statistics.LowestScore {
			resp.Statistics.LowestScore = r.Total
		}
		switch r.Grade {
		case "A":
			resp.Statistics.GradeDistribution.A++
		case "B":
			resp.Statistics.GradeDistribution.B++
		case "C":
			resp.Statistics.GradeDistribution.C++
		case "D":
			resp.Statistics.GradeDistribution.D++
		case "E":
			resp.Statistics.GradeDistribution.E++
		case "F":
			resp.Statistics.GradeDistribution.F++
		}
		resp.Results = append(resp.Results, toResultResponse(r))
	}
	if len(results) > 0 {
		resp.Statistics.AverageScore = grading.Average(sum, len(results))
	}

	return resp, nil
}

// DeleteResult lets admins delete any row; teachers only rows they
// uploaded.
func (s *resultService) DeleteResult(ctx context.Context, requesterID uuid.UUID, requesterRole string, resultID uuid.UUID) error {
	result, err := s.resultRepo.FindByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("result not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if !model.IsAdminRole(requesterRole) && result.UploadedByID != requesterID {
		return fmt.Errorf("you can only delete results you uploaded: %w", apperror.ErrForbidden)
	}

	return s.resultRepo.Delete(ctx, resultID)
}

// SubmitForApproval moves a teacher's own draft or rejected rows to
// pending_approval. Rows in other states, or uploaded by someone else,
// are skipped.
func (s *resultService) SubmitForApproval(ctx context.Context, teacherID uuid.UUID, resultIDs []uuid.UUID) (int64, error) {
	updated, err := s.resultRepo.UpdateStatusByIDs(ctx, resultIDs, &teacherID,
		[]string{model.ResultStatusDraft, model.ResultStatusRejected},
		map[string]interface{}{"status": model.ResultStatusPending})
	if err != nil {
		return 0, fmt.Errorf("failed to submit results: %w", err)
	}
	if updated == 0 {
		return 0, fmt.Errorf("no submittable results found: %w", apperror.ErrNotFound)
	}
	return updated, nil
}

func (s *resultService) PendingResults(ctx context.Context, term, session string) (*dto.PendingResultsResponse, error) {
	results, err := s.resultRepo.FindPending(ctx, term, session)
	if err != nil {
		return nil, err
	}

	resp := &dto.PendingResultsResponse{TotalPending: len(results)}

	groupIndex := map[string]int{}
	for i := range results {
		r := &results[i]
		key := fmt.Sprintf("%s-%s", r.SubjectID, r.UploadedByID)
		idx, ok := groupIndex[key]
		if !ok {
			group := dto.PendingGroup{
				SubjectID: r.SubjectID,
				TeacherID: r.UploadedByID,
				Term:      r.Term,
				Session:   r.Session,
			}
			if r.Subject != nil {
				group.SubjectName = r.Subject.Name
			}
			if r.UploadedBy != nil {
				group.TeacherName = r.UploadedBy.Name
			}
			resp.Groups = append(resp.Groups, group)
			idx = len(resp.Groups) - 1
			groupIndex[key] = idx
		}
		resp.Groups[idx].Results = append(resp.Groups[idx].Results, toResultResponse(r))
		resp.Groups[idx].Count++
	}

	return resp, nil
}

// ApproveResults approves only rows currently pending approval.
// IDs in other states count as skipped, not as an error.
func (s *resultService) ApproveResults(ctx context.Context, approverID uuid.UUID, resultIDs []uuid.UUID) (int64, error) {
	now := time.Now()
	updated, err := s.resultRepo.UpdateStatusByIDs(ctx, resultIDs, nil,
		[]string{model.ResultStatusPending},
		map[string]interface{}{
			"status":         model.ResultStatusApproved,
			"approved_by_id": approverID,
			"approved_at":    now,
		})
	if err != nil {
		return 0, fmt.Errorf("failed to approve results: %w", err)
	}
	return updated, nil
}

// RejectResults moves pending rows to rejected and records the reason.
// Uploaders are notified by email and in-app notification; neither
// failure rolls back the rejection.
func (s *resultService) RejectResults(ctx context.Context, reviewerID uuid.UUID, resultIDs []uuid.UUID, reason string) (int64, error) {
	results, err := s.resultRepo.FindByIDs(ctx, resultIDs)
	if err != nil {
		return 0, err
	}

	updated, err := s.resultRepo.UpdateStatusByIDs(ctx, resultIDs, nil,
		[]string{model.ResultStatusPending},
		map[string]interface{}{
			"status":           model.ResultStatusRejected,
			"rejection_reason": reason,
		})
	if err != nil {
		return 0, fmt.Errorf("failed to reject results: %w", err)
	}
	if updated == 0 {
		return 0, nil
	}

	s.notifyRejections(ctx, reviewerID, results, reason)

	return updated, nil
}

// notifyRejections sends one email and one notification per uploader,
// covering all their rejected rows.
func (s *resultService) notifyRejections(ctx context.Context, reviewerID uuid.UUID, results []model.Result, reason string) {
	type uploaderInfo struct {
		teacher  *model.User
		subject  string
		entityID uuid.UUID
	}

	byUploader := map[uuid.UUID]uploaderInfo{}
	for i := range results {
		r := &results[i]
		if r.Status != model.ResultStatusPending {
			continue
		}
		if _, seen := byUploader[r.UploadedByID]; seen {
			continue
		}
		info := uploaderInfo{teacher: r.UploadedBy, entityID: r.ID}
		if r.Subject != nil {
			info.subject = r.Subject.Name
		}
		byUploader[r.UploadedByID] = info
	}

	for uploaderID, info := range byUploader {
		if info.teacher != nil && s.mail != nil {
			notice := mailer.RejectionNotice{
				TeacherName: info.teacher.Name,
				Subject:     info.subject,
				Reason:      reason,
			}
			if err := s.mail.SendRejectionNotice(info.teacher.Email, notice); err != nil {
				log.Printf("failed to send rejection email to %s: %v", info.teacher.Email, err)
			}
		}

		if s.notifier != nil {
			notification := &model.Notification{
				UserID:     uploaderID,
				ActorID:    reviewerID,
				EntityID:   info.entityID,
				EntityType: "result",
				Type:       model.NotificationResultRejected,
				Message:    fmt.Sprintf("Your %s results were rejected: %s", info.subject, reason),
			}
			if err := s.notifier.CreateNotification(ctx, notification); err != nil {
				log.Printf("failed to create rejection notification: %v", err)
			}
		}
	}
}

func (s *resultService) checkUploadPreconditions(ctx context.Context, teacherID, studentID, subjectID uuid.UUID) (*model.User, *model.Subject, error) {
	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
		}
		return nil, nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
	}

	subject, err := s.findSubject(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.requireTeacherAssigned(ctx, subject, teacherID); err != nil {
		return nil, nil, err
	}

	takes, err := s.userRepo.StudentHasSubject(ctx, studentID, subjectID)
	if err != nil {
		return nil, nil, err
	}
	if !takes {
		return nil, nil, fmt.Errorf("%s does not take %s: %w", student.Name, subject.Name, apperror.ErrValidation)
	}

	return student, subject, nil
}

func (s *resultService) requireTeacherAssigned(ctx context.Context, subject *model.Subject, teacherID uuid.UUID) error {
	assigned, err := s.subjectRepo.TeacherAssigned(ctx, subject.ID, teacherID)
	if err != nil {
		return err
	}
	if !assigned {
		return fmt.Errorf("you are not assigned to teach %s: %w", subject.Name, apperror.ErrForbidden)
	}
	return nil
}

func (s *resultService) findSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	subject, err := s.subjectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return subject, nil
}

// applyScores writes the raw scores and rederives total, grade and
// remark.
func (s *resultService) applyScores(result *model.Result, firstCA, secondCA, exam float64) {
	result.FirstCA = firstCA
	result.SecondCA = secondCA
	result.Exam = exam
	result.Total = grading.Total(firstCA, secondCA, exam)
	result.Grade, result.Remark = grading.Grade(result.Total)
}

func toResultResponse(r *model.Result) dto.ResultResponse {
	resp := dto.ResultResponse{
		ID:              r.ID,
		StudentID:       r.StudentID,
		SubjectID:       r.SubjectID,
		Term:            r.Term,
		Session:         r.Session,
		FirstCA:         r.FirstCA,
		SecondCA:        r.SecondCA,
		Exam:            r.Exam,
		Total:           r.Total,
		Grade:           r.Grade,
		Remark:          r.Remark,
		TeacherComment:  r.TeacherComment,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		ApprovedAt:      r.ApprovedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Student != nil {
		resp.StudentName = r.Student.Name
	}
	if r.Subject != nil {
		resp.SubjectName = r.Subject.Name
	}
	if r.UploadedBy != nil {
		resp.UploadedBy = r.UploadedBy.Name
	}
	return resp
}
