package mailer

import "log"

// consoleService writes emails to the application log instead of sending
// them. Used in development when no SendGrid key is configured.
type consoleService struct{}

var _ EmailService = (*consoleService)(nil)

func NewConsoleService() EmailService {
	return &consoleService{}
}

func (consoleService) SendReportCardNotice(toEmail string, notice ReportCardNotice) error {
	log.Printf(
		"[email] report card notice to=%s student=%s term=%q session=%s average=%.2f grade=%s",
		toEmail, notice.StudentName, notice.Term, notice.Session,
		notice.AverageScore, notice.OverallGrade,
	)
	return nil
}

func (consoleService) SendRejectionNotice(toEmail string, notice RejectionNotice) error {
	log.Printf(
		"[email] rejection notice to=%s teacher=%s subject=%s reason=%q",
		toEmail, notice.TeacherName, notice.Subject, notice.Reason,
	)
	return nil
}
