package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
	"github.com/fairyhunter13/course-catalog/internal/usecase"
)

func testCtx() context.Context {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	return obs.ContextWithLogger(context.Background(), lg)
}

func submission(pairs ...string) domain.Submission {
	var sub domain.Submission
	for i := 0; i+1 < len(pairs); i += 2 {
		sub.Fields = append(sub.Fields, domain.Field{Name: pairs[i], Value: pairs[i+1]})
	}
	return sub
}

func fullSubmission() domain.Submission {
	return submission(
		"code", "CS203",
		"name", "Software Tools",
		"instructor", "Prof. Doe",
		"semester", "Fall 2026",
		"schedule", "Mon 10:00",
		"classroom", "B2",
		"prerequisites", "CS101",
		"grading", "60% exam",
		"description", "Practical tooling",
	)
}

func TestValidate_Success(t *testing.T) {
	out := usecase.Validate(testCtx(), fullSubmission())
	assert.Equal(t, domain.OutcomeSuccess, out.Status)
	assert.Equal(t, "Validation successful", out.Message)
	assert.Empty(t, out.Fields)
}

func TestValidate_SuccessWithOnlyRequiredSubmitted(t *testing.T) {
	// The warning scan covers submitted fields only, so a submission that
	// never mentions the optional fields is a clean success.
	sub := submission("code", "CS101", "name", "Algo", "instructor", "Dr. X")
	out := usecase.Validate(testCtx(), sub)
	assert.Equal(t, domain.OutcomeSuccess, out.Status)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		sub     domain.Submission
		missing []string
	}{
		{
			name:    "blank code",
			sub:     submission("code", "", "name", "Algo", "instructor", "Dr. X"),
			missing: []string{"code"},
		},
		{
			name:    "whitespace only counts as blank",
			sub:     submission("code", "  \t", "name", "Algo", "instructor", "Dr. X"),
			missing: []string{"code"},
		},
		{
			name:    "multiple missing keep schema order",
			sub:     submission("instructor", "", "name", "", "code", "CS101"),
			missing: []string{"name", "instructor"},
		},
		{
			name:    "absent field is missing",
			sub:     submission("code", "CS101", "name", "Algo"),
			missing: []string{"instructor"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := usecase.Validate(testCtx(), tc.sub)
			require.Equal(t, domain.OutcomeError, out.Status)
			assert.Equal(t, tc.missing, out.Fields)
			assert.Equal(t, "Error: Missing required fields - "+out.FieldList(), out.Message)
		})
	}
}

func TestValidate_WarningOnBlankSubmittedFields(t *testing.T) {
	sub := submission(
		"code", "CS101",
		"name", "Algo",
		"instructor", "Dr. X",
		"semester", "",
	)
	out := usecase.Validate(testCtx(), sub)
	require.Equal(t, domain.OutcomeWarning, out.Status)
	assert.Equal(t, []string{"semester"}, out.Fields)
	assert.Equal(t, "Warning: Fields semester are empty", out.Message)
}

func TestValidate_WarningScanIsSubmissionDriven(t *testing.T) {
	// An extra field outside the fixed schema still participates in the
	// warning scan, in submission order.
	sub := submission(
		"code", "CS101",
		"name", "Algo",
		"instructor", "Dr. X",
		"lab_slot", " ",
		"semester", "",
	)
	out := usecase.Validate(testCtx(), sub)
	require.Equal(t, domain.OutcomeWarning, out.Status)
	assert.Equal(t, []string{"lab_slot", "semester"}, out.Fields)
	assert.Equal(t, "Warning: Fields lab_slot, semester are empty", out.Message)
}

func TestValidate_ErrorTakesPriorityOverWarning(t *testing.T) {
	sub := submission("code", "", "name", "Algo", "instructor", "Dr. X", "semester", "")
	out := usecase.Validate(testCtx(), sub)
	require.Equal(t, domain.OutcomeError, out.Status)
	assert.Equal(t, []string{"code"}, out.Fields)
}
