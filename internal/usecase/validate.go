package usecase

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

// getValidator returns the shared validator carrying the notblank rule every
// emptiness check in the service goes through.
func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		_ = vld.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return vld
}

func blank(value string) bool {
	return getValidator().Var(value, "notblank") != nil
}

// Validate checks a submission. Missing required fields are an error
// outcome; any other submitted-but-blank field is a warning (the course
// still saves); otherwise success. The warning scan walks the submitted
// fields in submission order, not a fixed schema, so unknown extra fields
// take part in it.
func Validate(ctx domain.Context, sub domain.Submission) domain.Outcome {
	var out domain.Outcome
	_ = obs.Instrument(ctx, obs.Op{Name: "validate-course", Operation: "validate_course", Phase: "validation"}, func(_ domain.Context, o *obs.OpSpan) error {
		var missing []string
		for _, name := range domain.RequiredFields {
			if blank(sub.Get(name)) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			out = domain.Outcome{
				Status:  domain.OutcomeError,
				Fields:  missing,
				Message: fmt.Sprintf("Error: Missing required fields - %s", strings.Join(missing, ", ")),
			}
			o.SetString("validation.status", "error")
			o.SetString("missing_fields", out.FieldList())
			o.Event("validate-course-error")
			o.Error()
			return nil
		}

		var empty []string
		for _, f := range sub.Fields {
			if blank(f.Value) {
				empty = append(empty, f.Name)
			}
		}
		if len(empty) > 0 {
			out = domain.Outcome{
				Status:  domain.OutcomeWarning,
				Fields:  empty,
				Message: fmt.Sprintf("Warning: Fields %s are empty", strings.Join(empty, ", ")),
			}
			o.SetString("validation.status", "warning")
			o.SetString("warning_fields", out.FieldList())
			o.Event("validate-course-warning")
			o.Warn()
			return nil
		}

		out = domain.Outcome{Status: domain.OutcomeSuccess, Message: "Validation successful"}
		o.SetString("validation.status", "success")
		o.Event("validate-course-success")
		return nil
	})
	return out
}
