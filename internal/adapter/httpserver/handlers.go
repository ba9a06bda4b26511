package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/course-catalog/internal/adapter/session"
	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
	"github.com/fairyhunter13/course-catalog/internal/usecase"
)

// IndexHandler renders the landing page.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = obs.Instrument(r.Context(), obs.Op{Name: "render-index", Kind: trace.SpanKindServer, Phase: "render"}, func(ctx context.Context, _ *obs.OpSpan) error {
			s.render(ctx, w, "index.html", s.page(ctx, "Course Catalog"))
			return nil
		})
	}
}

// AddCourseHandler renders the add-course form on GET and processes a
// submission on POST. An invalid submission re-renders the form with the
// entered values; a saved course redirects to the catalog.
func (s *Server) AddCourseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.render(r.Context(), w, "add_course.html", s.page(r.Context(), "Add Course"))
			return
		}

		st := session.StateFromContext(r.Context())
		sub := submissionFromForm(r)
		course := sub.Course()

		_ = obs.Instrument(r.Context(), obs.Op{Name: "add-course", Kind: trace.SpanKindServer}, func(ctx context.Context, o *obs.OpSpan) error {
			// Required fields are checked here first so the form can name
			// them the way its labels do; the validator re-checks below.
			var missing []string
			for _, name := range domain.RequiredFields {
				if strings.TrimSpace(sub.Get(name)) == "" {
					missing = append(missing, displayName(name))
				}
			}
			if len(missing) > 0 {
				st.Counters.MissingFieldErrors++
				obs.RecordValidationFailure("missing_field")
				fields := strings.Join(missing, ", ")
				st.AddFlash(session.FlashError, fmt.Sprintf("The following fields are required and cannot be empty: %s.", fields))
				o.SetInt("error.missing_fields", st.Counters.MissingFieldErrors)
				o.Event("course-add-error")
				data := s.page(ctx, "Add Course")
				data.Course = course
				s.render(ctx, w, "add_course.html", data)
				return fmt.Errorf("op=httpserver.AddCourse: %w: %s", domain.ErrMissingRequiredField, fields)
			}

			validationStart := time.Now()
			out := usecase.Validate(ctx, sub)
			o.SetFloat64("validation.time", time.Since(validationStart).Seconds())

			if out.Status == domain.OutcomeError {
				st.Counters.ValidationErrors++
				obs.RecordValidationFailure("validation")
				o.SetInt("error.validation", st.Counters.ValidationErrors)
				o.Event("course-add-error")
				st.AddFlash(session.FlashError, fmt.Sprintf("Validation error: %s", out.Message))
				data := s.page(ctx, "Add Course")
				data.Course = course
				s.render(ctx, w, "add_course.html", data)
				return fmt.Errorf("op=httpserver.AddCourse: %w: %s", domain.ErrMissingRequiredField, out.FieldList())
			}
			// A warning outcome still saves; the validator already logged it.

			saveStart := time.Now()
			if err := s.Catalog.Save(ctx, course); err != nil {
				st.Counters.DatabaseErrors++
				o.SetInt("error.database", st.Counters.DatabaseErrors)
				o.Event("course-save-error")
				st.AddFlash(session.FlashError, "Failed to save course")
				data := s.page(ctx, "Add Course")
				data.Course = course
				s.render(ctx, w, "add_course.html", data)
				return err
			}
			o.SetFloat64("save.time", time.Since(saveStart).Seconds())

			st.Counters.AddedCoursesCount++
			o.SetInt("error.missing_fields", st.Counters.MissingFieldErrors)
			o.SetInt("error.validation", st.Counters.ValidationErrors)
			o.SetInt("error.database", st.Counters.DatabaseErrors)
			o.SetInt("added_courses.count", st.Counters.AddedCoursesCount)
			o.Event("course-added")

			st.AddFlash(session.FlashSuccess, "Course added successfully")
			http.Redirect(w, r, "/catalog", http.StatusFound)
			return nil
		})
	}
}

// CatalogHandler renders the course catalog.
func (s *Server) CatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := session.StateFromContext(r.Context())
		_ = obs.Instrument(r.Context(), obs.Op{Name: "render-course-catalog", Kind: trace.SpanKindServer}, func(ctx context.Context, o *obs.OpSpan) error {
			st.Counters.CatalogPageAccessCount++
			obs.RecordCatalogPageView()
			o.SetInt("catalog.page_access_count", st.Counters.CatalogPageAccessCount)

			loadStart := time.Now()
			courses, err := s.Catalog.List(ctx)
			o.SetFloat64("course_loading.time", time.Since(loadStart).Seconds())
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return err
			}

			renderStart := time.Now()
			o.SetInt("courses.count", len(courses))
			data := s.page(ctx, "Course Catalog")
			data.Courses = courses
			s.render(ctx, w, "course_catalog.html", data)
			o.SetFloat64("processing.time", time.Since(renderStart).Seconds())
			return nil
		})
	}
}

// CourseDetailsHandler renders one course, or redirects to the catalog when
// the code is unknown.
func (s *Server) CourseDetailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		_ = obs.Instrument(r.Context(), obs.Op{Name: "course-details", Kind: trace.SpanKindServer}, func(ctx context.Context, o *obs.OpSpan) error {
			o.SetString("course.code", code)

			loadStart := time.Now()
			course, err := s.Catalog.GetByCode(ctx, code)
			o.SetFloat64("course_loading.time", time.Since(loadStart).Seconds())
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					o.Event("course-not-found")
					o.Warn()
					http.Redirect(w, r, "/catalog", http.StatusFound)
					return nil
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return err
			}

			o.Event("course-details-viewed")
			data := s.page(ctx, course.Name)
			data.Course = course
			s.render(ctx, w, "course_details.html", data)
			return nil
		})
	}
}

// DeleteCourseHandler removes a course and redirects to the catalog either
// way, flashing the result.
func (s *Server) DeleteCourseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		st := session.StateFromContext(r.Context())
		_ = obs.Instrument(r.Context(), obs.Op{Name: "delete-course", Kind: trace.SpanKindServer}, func(ctx context.Context, o *obs.OpSpan) error {
			o.SetString("course.code", code)
			deletionErrors := 0

			deleteStart := time.Now()
			found, err := s.Catalog.Remove(ctx, code)
			o.SetFloat64("course_deletion.time", time.Since(deleteStart).Seconds())
			if err != nil {
				deletionErrors++
				o.SetInt("error.deletion", deletionErrors)
				o.Event("course-deletion-failed")
				st.AddFlash(session.FlashDanger, fmt.Sprintf("Failed to delete course with code %s.", code))
				http.Redirect(w, r, "/catalog", http.StatusFound)
				return err
			}

			if found {
				o.Event("course-deleted")
				st.AddFlash(session.FlashSuccess, fmt.Sprintf("Course with code %s deleted successfully.", code))
			} else {
				deletionErrors++
				o.Event("course-deletion-failed")
				o.Warn()
				st.AddFlash(session.FlashDanger, fmt.Sprintf("Course with code %s not found.", code))
			}
			o.SetInt("error.deletion", deletionErrors)
			http.Redirect(w, r, "/catalog", http.StatusFound)
			return nil
		})
	}
}

// ReadyzHandler probes the store and, when configured, the session backend.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.StoreCheck != nil {
			if err := s.StoreCheck(ctx); err != nil {
				checks = append(checks, check{Name: "store", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "store", OK: true})
			}
		}
		if s.SessionCheck != nil {
			if err := s.SessionCheck(ctx); err != nil {
				checks = append(checks, check{Name: "sessions", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "sessions", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
