// Package usecase implements the catalog's application services.
package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
)

// CatalogService coordinates the course store, validation, and the optional
// change feed.
type CatalogService struct {
	Store  domain.CourseStore
	Events domain.EventPublisher
}

// NewCatalogService constructs a CatalogService. events may be nil when no
// change feed is configured.
func NewCatalogService(store domain.CourseStore, events domain.EventPublisher) CatalogService {
	return CatalogService{Store: store, Events: events}
}

// List returns every course in catalog order.
func (s CatalogService) List(ctx domain.Context) ([]domain.Course, error) {
	courses, err := s.Store.LoadAll(ctx)
	if err != nil {
		obs.RecordStoreError("load_courses")
		return nil, err
	}
	return courses, nil
}

// GetByCode returns the course with the given code, or ErrNotFound.
func (s CatalogService) GetByCode(ctx domain.Context, code string) (domain.Course, error) {
	courses, err := s.Store.LoadAll(ctx)
	if err != nil {
		obs.RecordStoreError("load_courses")
		return domain.Course{}, err
	}
	for _, c := range courses {
		if c.Code == code {
			return c, nil
		}
	}
	return domain.Course{}, fmt.Errorf("op=usecase.GetByCode: %w: %s", domain.ErrNotFound, code)
}

// Save persists a course and announces it on the change feed. Callers are
// expected to have validated the submission; the add-course handler times
// this phase separately from validation, the way the page reports it.
func (s CatalogService) Save(ctx domain.Context, c domain.Course) error {
	if err := s.Store.Append(ctx, c); err != nil {
		obs.RecordStoreError("save_courses")
		return err
	}
	obs.RecordCourseAdded()
	s.publish(ctx, domain.EventCourseAdded, c.Code)
	return nil
}

// Add validates the submission and persists the course. An error outcome
// skips the store entirely; a warning outcome still persists. The returned
// error is a store failure, never a validation one.
func (s CatalogService) Add(ctx domain.Context, sub domain.Submission) (domain.Outcome, error) {
	out := Validate(ctx, sub)
	if out.Status == domain.OutcomeError {
		obs.RecordValidationFailure("validation")
		return out, nil
	}
	if err := s.Save(ctx, sub.Course()); err != nil {
		return out, err
	}
	return out, nil
}

// Remove deletes the course with the given code and reports whether it
// existed.
func (s CatalogService) Remove(ctx domain.Context, code string) (bool, error) {
	found, err := s.Store.DeleteByCode(ctx, code)
	if err != nil {
		obs.RecordStoreError("delete_course_by_code")
		return false, err
	}
	if found {
		obs.RecordCourseDeleted()
		s.publish(ctx, domain.EventCourseDeleted, code)
	}
	return found, nil
}

// publish emits a change event when a feed is configured. Failures log and
// nothing else; the catalog mutation already happened.
func (s CatalogService) publish(ctx domain.Context, event, code string) {
	if s.Events == nil {
		return
	}
	ev := domain.ChangeEvent{Event: event, Code: code, At: time.Now().UTC()}
	if err := s.Events.Publish(ctx, ev); err != nil {
		obs.LoggerFromContext(ctx).Error("change event publish failed",
			slog.String("event", event),
			slog.String("course.code", code),
			slog.Any("error", err))
	}
}
