package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		score  float64
		grade  string
		remark string
	}{
		{100, "A", "Excellent"},
		{70, "A", "Excellent"},
		{69, "B", "Very Good"},
		{60, "B", "Very Good"},
		{59, "C", "Good"},
		{50, "C", "Good"},
		{49, "D", "Pass"},
		{45, "D", "Pass"},
		{44, "E", "Fair"},
		{40, "E", "Fair"},
		{39, "F", "Fail"},
		{0, "F", "Fail"},
	}

	for _, tt := range tests {
		grade, remark := Grade(tt.score)
		assert.Equalf(t, tt.grade, grade, "score %.0f", tt.score)
		assert.Equalf(t, tt.remark, remark, "score %.0f", tt.score)
	}
}

func TestTotal(t *testing.T) {
	assert.Equal(t, float64(100), Total(20, 10, 70))
	assert.Equal(t, float64(0), Total(0, 0, 0))
	assert.Equal(t, 56.5, Total(15, 7.5, 34))
}

func TestValidateScores(t *testing.T) {
	require.NoError(t, ValidateScores(0, 0, 0))
	require.NoError(t, ValidateScores(20, 10, 70))

	assert.Error(t, ValidateScores(21, 5, 50))
	assert.Error(t, ValidateScores(-1, 5, 50))
	assert.Error(t, ValidateScores(10, 11, 50))
	assert.Error(t, ValidateScores(10, 5, 71))
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 66.67, Average(200, 3))
	assert.Equal(t, 50.0, Average(100, 2))
	assert.Equal(t, 0.0, Average(0, 0))
}
