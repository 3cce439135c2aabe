// Package grading holds the score derivation rules shared by the result
// ledger and the report-card aggregator. Derived fields (total, grade,
// remark) are always recomputed from raw scores here, never stored
// independently of their inputs.
package grading

import (
	"fmt"
	"math"

	"delaurel.com/schoolportal/pkg/apperror"
)

// Score bands for the 20-10-70 assessment system.
const (
	MaxFirstCA  = 20
	MaxSecondCA = 10
	MaxExam     = 70
)

// ValidateScores checks each raw score against its band.
func ValidateScores(firstCA, secondCA, exam float64) error {
	if firstCA < 0 || firstCA > MaxFirstCA {
		return fmt.Errorf("first CA must be between 0 and %d: %w", MaxFirstCA, apperror.ErrValidation)
	}
	if secondCA < 0 || secondCA > MaxSecondCA {
		return fmt.Errorf("second CA must be between 0 and %d: %w", MaxSecondCA, apperror.ErrValidation)
	}
	if exam < 0 || exam > MaxExam {
		return fmt.Errorf("exam must be between 0 and %d: %w", MaxExam, apperror.ErrValidation)
	}
	return nil
}

// Total sums the three raw components (0-100).
func Total(firstCA, secondCA, exam float64) float64 {
	return firstCA + secondCA + exam
}

// Grade maps a total (or average) score to its letter grade and remark.
func Grade(score float64) (grade, remark string) {
	switch {
	case score >= 70:
		return "A", "Excellent"
	case score >= 60:
		return "B", "Very Good"
	case score >= 50:
		return "C", "Good"
	case score >= 45:
		return "D", "Pass"
	case score >= 40:
		return "E", "Fair"
	default:
		return "F", "Fail"
	}
}

// Average returns the mean of total scores rounded to 2 decimal places.
func Average(totalScore float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(totalScore/float64(count)*100) / 100
}
