package mailer

// ReportCardNotice carries the summary fields shown in the email sent to a
// parent when a report card is published.
type ReportCardNotice struct {
	StudentName      string
	Term             string
	Session          string
	NumberOfSubjects int
	AverageScore     float64
	OverallGrade     string
	Comment          string
}

// RejectionNotice carries the details shown in the email sent to a teacher
// when their submitted results are rejected.
type RejectionNotice struct {
	TeacherName string
	Subject     string
	Reason      string
}

// EmailService is any service that can deliver school notification emails.
// Delivery is independent of the caller's transaction: a failed send is
// reported as an error but never rolls anything back.
type EmailService interface {
	SendReportCardNotice(toEmail string, notice ReportCardNotice) error
	SendRejectionNotice(toEmail string, notice RejectionNotice) error
}
