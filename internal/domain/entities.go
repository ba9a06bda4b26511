package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrCatalogCorrupt       = errors.New("catalog corrupt")
	ErrStoreWrite           = errors.New("store write failure")
	ErrNotFound             = errors.New("not found")
	ErrInternal             = errors.New("internal error")
)

// RequiredFields lists the course fields that must be non-blank, in canonical
// order. Validation reports missing fields in this order.
var RequiredFields = []string{"code", "name", "instructor"}

// Course is one catalog record. JSON tags match the catalog file layout; every
// key is always written so the document stays diffable across rewrites.
type Course struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Instructor    string `json:"instructor"`
	Semester      string `json:"semester"`
	Schedule      string `json:"schedule"`
	Classroom     string `json:"classroom"`
	Prerequisites string `json:"prerequisites"`
	Grading       string `json:"grading"`
	Description   string `json:"description"`
}

// Field is one submitted form field.
type Field struct {
	Name  string
	Value string
}

// Submission is the ordered list of fields posted on the add-course form.
// Validation walks this list rather than a fixed schema, so extra submitted
// fields participate in the blank-field scan in submission order.
type Submission struct {
	Fields []Field
}

// Get returns the value for name, or empty when name was not submitted.
func (s Submission) Get(name string) string {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Course materializes the known course fields from the submission.
func (s Submission) Course() Course {
	return Course{
		Code:          s.Get("code"),
		Name:          s.Get("name"),
		Instructor:    s.Get("instructor"),
		Semester:      s.Get("semester"),
		Schedule:      s.Get("schedule"),
		Classroom:     s.Get("classroom"),
		Prerequisites: s.Get("prerequisites"),
		Grading:       s.Get("grading"),
		Description:   s.Get("description"),
	}
}

// OutcomeStatus mirrors the validation.status span attribute values.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeWarning OutcomeStatus = "warning"
	OutcomeError   OutcomeStatus = "error"
)

// Outcome is the result of validating a submission. Fields carries the
// offending field names: missing required fields (canonical order) on error,
// blank submitted fields (submission order) on warning.
type Outcome struct {
	Status  OutcomeStatus
	Fields  []string
	Message string
}

// FieldList joins the offending field names for span attributes and messages.
func (o Outcome) FieldList() string { return strings.Join(o.Fields, ", ") }

// Change-feed event names.
const (
	EventCourseAdded   = "course-added"
	EventCourseDeleted = "course-deleted"
)

// ChangeEvent records one catalog mutation for the optional change feed.
type ChangeEvent struct {
	Event string    `json:"event"`
	Code  string    `json:"course_code"`
	At    time.Time `json:"at"`
}

// Ports

// CourseStore persists the catalog. LoadAll returns an empty slice when the
// backing file does not exist yet. DeleteByCode reports whether any record
// matched; absence is not an error.
type CourseStore interface {
	LoadAll(ctx Context) ([]Course, error)
	Append(ctx Context, c Course) error
	DeleteByCode(ctx Context, code string) (bool, error)
}

// EventPublisher emits catalog change events. Implementations must not block
// request handling on broker availability.
type EventPublisher interface {
	Publish(ctx Context, ev ChangeEvent) error
}

// Context is an alias to allow decoupling from std context in domain
// Adapters and usecases should pass context.Context through

type Context = context.Context
