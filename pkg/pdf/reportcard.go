package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ResultRow is one subject line on the rendered report card.
type ResultRow struct {
	Subject  string
	FirstCA  float64
	SecondCA float64
	Exam     float64
	Total    float64
	Grade    string
	Remark   string
}

// ReportCardData is everything the renderer needs; it is assembled by the
// report-card service from an already-published card.
type ReportCardData struct {
	SchoolName          string
	StudentName         string
	StudentID           string
	ClassLevel          string
	Term                string
	Session             string
	Rows                []ResultRow
	TotalScore          float64
	AverageScore        float64
	OverallGrade        string
	NumberOfSubjects    int
	ClassTeacherComment string
	ProprietressComment string
}

// Render produces the report card as an in-memory PDF document.
func Render(data ReportCardData) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 8, data.SchoolName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Excellence in Education", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "STUDENT REPORT CARD", "", 1, "C", false, 0, "")
	pdf.SetDrawColor(40, 145, 108)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	// Student information
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "STUDENT INFORMATION")
	pdf.Ln(6)

	writeField := func(label, value string) {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(45, 6, label)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, value)
		pdf.Ln(5)
	}

	writeField("Student Name:", data.StudentName)
	writeField("Student ID:", data.StudentID)
	writeField("Class:", data.ClassLevel)
	writeField("Term:", data.Term)
	writeField("Session:", data.Session)
	pdf.Ln(6)

	// Results table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(40, 145, 108)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(60, 8, "SUBJECT", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "1ST CA", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "2ND CA", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "EXAM", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "TOTAL", "1", 0, "C", true, 0, "")
	pdf.CellFormat(18, 8, "GRADE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 8, "REMARK", "1", 1, "C", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(245, 245, 245)

	for i, row := range data.Rows {
		fill := i%2 == 0
		pdf.CellFormat(60, 7, row.Subject, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(20, 7, trimScore(row.FirstCA), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(20, 7, trimScore(row.SecondCA), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(20, 7, trimScore(row.Exam), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(20, 7, trimScore(row.Total), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(18, 7, row.Grade, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(32, 7, row.Remark, "1", 1, "C", fill, 0, "")
	}

	// Summary
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "SUMMARY")
	pdf.Ln(6)
	writeField("Number of Subjects:", fmt.Sprintf("%d", data.NumberOfSubjects))
	writeField("Total Score:", trimScore(data.TotalScore))
	writeField("Average Score:", fmt.Sprintf("%.2f%%", data.AverageScore))
	writeField("Overall Grade:", data.OverallGrade)

	// Comments
	if data.ClassTeacherComment != "" || data.ProprietressComment != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "COMMENTS")
		pdf.Ln(6)

		if data.ClassTeacherComment != "" {
			pdf.SetFont("Arial", "B", 9)
			pdf.Cell(0, 5, "Class Teacher's Comment:")
			pdf.Ln(5)
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 5, data.ClassTeacherComment, "", "L", false)
			pdf.Ln(2)
		}
		if data.ProprietressComment != "" {
			pdf.SetFont("Arial", "B", 9)
			pdf.Cell(0, 5, "Proprietress' Comment:")
			pdf.Ln(5)
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 5, data.ProprietressComment, "", "L", false)
		}
	}

	// Footer
	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 5, fmt.Sprintf("Generated on: %s", time.Now().Format("January 02, 2006 at 3:04 PM")))
	pdf.Ln(4)
	pdf.Cell(0, 5, "*** This is an official computer-generated document. ***")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report card pdf: %w", err)
	}

	return &buf, nil
}

func trimScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
