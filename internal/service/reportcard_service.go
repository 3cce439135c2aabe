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
	"delaurel.com/schoolportal/pkg/pdf"
	"delaurel.com/schoolportal/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportCardService interface {
	Generate(ctx context.Context, input dto.GenerateReportCardInput) (*model.ReportCard, error)
	ForReview(ctx context.Context, filter repository.ReportCardFilter, classLevel string) ([]model.ReportCard, error)
	Decide(ctx context.Context, reportCardID, reviewerID uuid.UUID, input dto.ReviewDecisionInput) (*model.ReportCard, error)
	View(ctx context.Context, requesterID uuid.UUID, requesterRole string, studentID uuid.UUID, term, session string) (*dto.ReportCardResponse, error)
}

type reportCardService struct {
	cardRepo   repository.ReportCardRepository
	resultRepo repository.ResultRepository
	userRepo   repository.UserRepository
	files      storage.FileStorage
	mail       mailer.EmailService
	notifier   NotificationService
	schoolName string
}

func NewReportCardService(cardRepo repository.ReportCardRepository, resultRepo repository.ResultRepository, userRepo repository.UserRepository, files storage.FileStorage, mail mailer.EmailService, notifier NotificationService, schoolName string) ReportCardService {
	return &reportCardService{
		cardRepo:   cardRepo,
		resultRepo: resultRepo,
		userRepo:   userRepo,
		files:      files,
		mail:       mail,
		notifier:   notifier,
		schoolName: schoolName,
	}
}

// Generate builds or rebuilds the draft card for a (student, term,
// session) from the student's result rows. A published card is frozen;
// regenerating it is a conflict.
func (s *reportCardService) Generate(ctx context.Context, input dto.GenerateReportCardInput) (*model.ReportCard, error) {
	student, err := s.userRepo.FindByID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, fmt.Errorf("student not found: %w", apperror.ErrNotFound)
	}

	results, err := s.resultRepo.FindByStudent(ctx, input.StudentID, repository.ResultFilter{
		Term:    input.Term,
		Session: input.Session,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results found for this student in %s %s: %w", input.Term, input.Session, apperror.ErrNoData)
	}

	var totalScore float64
	for i := range results {
		totalScore += results[i].Total
	}
	averageScore := grading.Average(totalScore, len(results))
	overallGrade, _ := grading.Grade(averageScore)

	card, err := s.cardRepo.FindByTuple(ctx, input.StudentID, input.Term, input.Session)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if card != nil {
		if card.Status == model.ReportCardStatusPublished {
			return nil, fmt.Errorf("report card is already published and cannot be regenerated: %w", apperror.ErrConflict)
		}
		card.TotalScore = totalScore
		card.AverageScore = averageScore
		card.OverallGrade = overallGrade
		card.NumberOfSubjects = len(results)
		if input.ClassTeacherComment != "" {
			card.ClassTeacherComment = input.ClassTeacherComment
		}
		if err := s.cardRepo.Save(ctx, card); err != nil {
			return nil, fmt.Errorf("failed to update report card: %w", err)
		}
		if err := s.cardRepo.ReplaceResults(ctx, card, results); err != nil {
			return nil, fmt.Errorf("failed to attach results: %w", err)
		}
		return s.cardRepo.FindByID(ctx, card.ID)
	}

	card = &model.ReportCard{
		StudentID:           input.StudentID,
		Term:                input.Term,
		Session:             input.Session,
		Results:             results,
		TotalScore:          totalScore,
		AverageScore:        averageScore,
		OverallGrade:        overallGrade,
		NumberOfSubjects:    len(results),
		ClassTeacherComment: input.ClassTeacherComment,
		Status:              model.ReportCardStatusDraft,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("report card already exists for this term: %w", apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create report card: %w", err)
	}
	return s.cardRepo.FindByID(ctx, card.ID)
}

func (s *reportCardService) ForReview(ctx context.Context, filter repository.ReportCardFilter, classLevel string) ([]model.ReportCard, error) {
	cards, err := s.cardRepo.FindForReview(ctx, filter)
	if err != nil {
		return nil, err
	}

	if classLevel != "" {
		filtered := cards[:0]
		for _, card := range cards {
			if card.Student != nil && card.Student.StudentProfile != nil &&
				card.Student.StudentProfile.ClassLevel == classLevel {
				filtered = append(filtered, card)
			}
		}
		cards = filtered
	}

	return cards, nil
}

// Decide publishes or rejects a draft card. Publishing triggers the PDF
// upload, parent emails and in-app notifications; those side effects
// are logged on failure and never roll back the publication.
func (s *reportCardService) Decide(ctx context.Context, reportCardID, reviewerID uuid.UUID, input dto.ReviewDecisionInput) (*model.ReportCard, error) {
	card, err := s.cardRepo.FindByID(ctx, reportCardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report card not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if card.Status == model.ReportCardStatusPublished {
		return nil, fmt.Errorf("report card is already published: %w", apperror.ErrConflict)
	}

	now := time.Now()
	card.ProprietressComment = input.ProprietressComment
	card.ReviewedByID = &reviewerID
	card.ReviewedAt = &now

	if input.Action == "reject" {
		card.Status = model.ReportCardStatusDraft
		if err := s.cardRepo.Save(ctx, card); err != nil {
			return nil, fmt.Errorf("failed to save report card: %w", err)
		}
		return card, nil
	}

	card.Status = model.ReportCardStatusPublished
	card.PublishedAt = &now
	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to publish report card: %w", err)
	}

	s.publishSideEffects(ctx, card, reviewerID)

	return s.cardRepo.FindByID(ctx, card.ID)
}

func (s *reportCardService) publishSideEffects(ctx context.Context, card *model.ReportCard, reviewerID uuid.UUID) {
	if card.Student == nil {
		return
	}
	student := card.Student

	if s.files != nil {
		if err := s.generateAndUploadPDF(ctx, card); err != nil {
			log.Printf("failed to generate report card PDF for %s: %v", student.Name, err)
		}
	}

	parents, err := s.userRepo.FindParentsOfStudent(ctx, card.StudentID)
	if err != nil {
		log.Printf("failed to load parents of %s: %v", student.Name, err)
		parents = nil
	}

	if s.mail != nil {
		notice := mailer.ReportCardNotice{
			StudentName:      student.Name,
			Term:             card.Term,
			Session:          card.Session,
			NumberOfSubjects: card.NumberOfSubjects,
			AverageScore:     card.AverageScore,
			OverallGrade:     card.OverallGrade,
			Comment:          card.ProprietressComment,
		}
		for _, parent := range parents {
			if err := s.mail.SendReportCardNotice(parent.Email, notice); err != nil {
				log.Printf("failed to email report card notice to %s: %v", parent.Email, err)
			}
		}
	}

	if s.notifier != nil {
		message := fmt.Sprintf("Report card for %s, %s %s has been published", student.Name, card.Term, card.Session)
		recipients := []uuid.UUID{card.StudentID}
		for _, parent := range parents {
			recipients = append(recipients, parent.ID)
		}
		for _, recipient := range recipients {
			notification := &model.Notification{
				UserID:     recipient,
				ActorID:    reviewerID,
				EntityID:   card.ID,
				EntityType: "report_card",
				Type:       model.NotificationReportCardPublished,
				Message:    message,
			}
			if err := s.notifier.CreateNotification(ctx, notification); err != nil {
				log.Printf("failed to create publish notification: %v", err)
			}
		}
	}
}

func (s *reportCardService) generateAndUploadPDF(ctx context.Context, card *model.ReportCard) error {
	data := s.toPDFData(card)

	buf, err := pdf.Render(data)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	fileName := fmt.Sprintf("%s_%s_%s", data.StudentID, card.Term, card.Session)
	url, err := s.files.UploadFile(ctx, buf, "report-cards", fileName)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	now := time.Now()
	card.PDFURL = &url
	card.PDFGeneratedAt = &now
	return s.cardRepo.Save(ctx, card)
}

func (s *reportCardService) toPDFData(card *model.ReportCard) pdf.ReportCardData {
	data := pdf.ReportCardData{
		SchoolName:          s.schoolName,
		Term:                card.Term,
		Session:             card.Session,
		TotalScore:          card.TotalScore,
		AverageScore:        card.AverageScore,
		OverallGrade:        card.OverallGrade,
		NumberOfSubjects:    card.NumberOfSubjects,
		ClassTeacherComment: card.ClassTeacherComment,
		ProprietressComment: card.ProprietressComment,
	}
	if card.Student != nil {
		data.StudentName = card.Student.Name
		if card.Student.StudentProfile != nil {
			data.StudentID = card.Student.StudentProfile.StudentID
			data.ClassLevel = card.Student.StudentProfile.ClassLevel
		}
	}
	for i := range card.Results {
		r := &card.Results[i]
		row := pdf.ResultRow{
			FirstCA:  r.FirstCA,
			SecondCA: r.SecondCA,
			Exam:     r.Exam,
			Total:    r.Total,
			Grade:    r.Grade,
			Remark:   r.Remark,
		}
		if r.Subject != nil {
			row.Subject = r.Subject.Name
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// View returns a published card. Drafts are invisible here, even to the
// student they belong to.
func (s *reportCardService) View(ctx context.Context, requesterID uuid.UUID, requesterRole string, studentID uuid.UUID, term, session string) (*dto.ReportCardResponse, error) {
	switch requesterRole {
	case model.RoleStudent:
		if requesterID != studentID {
			return nil, fmt.Errorf("you can only view your own report card: %w", apperror.ErrForbidden)
		}
	case model.RoleParent:
		linked, err := s.userRepo.IsParentOfChild(ctx, requesterID, studentID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, fmt.Errorf("you can only view your children's report cards: %w", apperror.ErrForbidden)
		}
	}

	card, err := s.cardRepo.FindPublishedByTuple(ctx, studentID, term, session)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report card not yet published for this term: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	resp := &dto.ReportCardResponse{
		ID:                  card.ID,
		Term:                card.Term,
		Session:             card.Session,
		TotalScore:          card.TotalScore,
		AverageScore:        card.AverageScore,
		OverallGrade:        card.OverallGrade,
		NumberOfSubjects:    card.NumberOfSubjects,
		ClassTeacherComment: card.ClassTeacherComment,
		ProprietressComment: card.ProprietressComment,
		Status:              card.Status,
		PDFURL:              card.PDFURL,
		PublishedAt:         card.PublishedAt,
		CreatedAt:           card.CreatedAt,
	}
	if card.Student != nil {
		resp.StudentName = card.Student.Name
		if card.Student.StudentProfile != nil {
			resp.StudentID = card.Student.StudentProfile.StudentID
			resp.ClassLevel = card.Student.StudentProfile.ClassLevel
		}
	}
	for i := range card.Results {
		r := &card.Results[i]
		row := dto.ReportCardRow{
			FirstCA:  r.FirstCA,
			SecondCA: r.SecondCA,
			Exam:     r.Exam,
			Total:    r.Total,
			Grade:    r.Grade,
			Remark:   r.Remark,
		}
		if r.Subject != nil {
			row.Subject = r.Subject.Name
		}
		resp.Rows = append(resp.Rows, row)
	}

	return resp, nil
}
