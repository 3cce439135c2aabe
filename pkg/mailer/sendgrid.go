package mailer

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridService struct {
	key         string
	from        *sgmail.Email
	frontendURL string
}

var _ EmailService = (*sendgridService)(nil)

// NewSendgridService creates a SendGrid-backed EmailService. appName and
// fromEmail form the sender identity; frontendURL is used for login links.
func NewSendgridService(key, appName, fromEmail, frontendURL string) EmailService {
	return &sendgridService{
		key:         key,
		from:        sgmail.NewEmail(appName, fromEmail),
		frontendURL: frontendURL,
	}
}

func (svc *sendgridService) SendReportCardNotice(toEmail string, notice ReportCardNotice) error {
	subject := fmt.Sprintf("%s's Report Card - %s %s", notice.StudentName, notice.Term, notice.Session)

	comment := notice.Comment
	if comment == "" {
		comment = "Keep up the good work!"
	}

	html := fmt.Sprintf(`
		<div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;color:#333;">
			<h2>Dear Parent,</h2>
			<p>The report card for <strong>%s</strong> is now available.</p>
			<div style="background:#f9fafb;padding:20px;border-radius:10px;">
				<p><strong>Term:</strong> %s</p>
				<p><strong>Session:</strong> %s</p>
				<p><strong>Number of Subjects:</strong> %d</p>
				<p><strong>Average Score:</strong> %.2f%%</p>
				<p><strong>Overall Grade:</strong> %s</p>
			</div>
			<p>%s</p>
			<a href="%s/login">View Full Report Card</a>
		</div>`,
		notice.StudentName, notice.Term, notice.Session,
		notice.NumberOfSubjects, notice.AverageScore, notice.OverallGrade,
		comment, svc.frontendURL,
	)

	text := fmt.Sprintf(
		"The report card for %s (%s %s) is now available. Subjects: %d, Average: %.2f, Grade: %s.",
		notice.StudentName, notice.Term, notice.Session,
		notice.NumberOfSubjects, notice.AverageScore, notice.OverallGrade,
	)

	return svc.send(toEmail, subject, text, html)
}

func (svc *sendgridService) SendRejectionNotice(toEmail string, notice RejectionNotice) error {
	subject := "Results Rejected - Action Required"

	html := fmt.Sprintf(`
		<div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;color:#333;">
			<div style="background:#fee;padding:20px;border-left:4px solid #f00;">
				<h2 style="color:#c00;">Results Rejected</h2>
				<p>Dear %s,</p>
				<p>Your submitted results have been rejected by the administration.</p>
				<p><strong>Subject:</strong> %s</p>
				<p><strong>Reason:</strong> %s</p>
				<p>Please review and resubmit the results.</p>
				<a href="%s/login">Login to Portal</a>
			</div>
		</div>`,
		notice.TeacherName, notice.Subject, notice.Reason, svc.frontendURL,
	)

	text := fmt.Sprintf(
		"Dear %s, your submitted results for %s have been rejected. Reason: %s. Please review and resubmit.",
		notice.TeacherName, notice.Subject, notice.Reason,
	)

	return svc.send(toEmail, subject, text, html)
}

func (svc *sendgridService) send(toEmail, subject, textContent, htmlContent string) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)

	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", toEmail))
	m.AddPersonalizations(p)

	m.AddContent(
		sgmail.NewContent("text/plain", textContent),
		sgmail.NewContent("text/html", htmlContent),
	)

	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}

	return nil
}
