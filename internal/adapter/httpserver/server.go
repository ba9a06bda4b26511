// Package httpserver contains the course pages and HTTP middleware.
//
// Handlers own HTML rendering, form parsing, flash messages, and the
// per-session counters; catalog semantics live in the usecase layer. Each
// named page operation runs inside the obs envelope, so every request yields
// one server span and one mirrored log line on top of whatever the store and
// validator emit themselves.
package httpserver

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fairyhunter13/course-catalog/internal/adapter/session"
	"github.com/fairyhunter13/course-catalog/internal/config"
	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
	"github.com/fairyhunter13/course-catalog/internal/usecase"
)

//go:embed templates/*.html
var templateFiles embed.FS

// formFields is the fixed submission order of the add-course form.
var formFields = []string{
	"code", "name", "instructor", "semester", "schedule",
	"classroom", "prerequisites", "grading", "description",
}

// Server wires the catalog service to the HTML pages.
type Server struct {
	Cfg     config.Config
	Catalog usecase.CatalogService

	// Readiness probes; nil checks are skipped.
	StoreCheck   func(context.Context) error
	SessionCheck func(context.Context) error

	templates *template.Template
}

// NewServer constructs the page server with its embedded templates parsed.
func NewServer(cfg config.Config, catalog usecase.CatalogService) (*Server, error) {
	templates, err := template.New("pages").ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{Cfg: cfg, Catalog: catalog, templates: templates}, nil
}

// pageData is what every template renders from.
type pageData struct {
	Title   string
	Flashes []session.Flash
	Course  domain.Course
	Courses []domain.Course
}

// page builds the base page data, consuming the session's queued flashes.
func (s *Server) page(ctx context.Context, title string) pageData {
	return pageData{
		Title:   title,
		Flashes: session.StateFromContext(ctx).ConsumeFlashes(),
	}
}

// render executes a template into a buffer first so a failure can still
// produce a clean 500 instead of a torn page.
func (s *Server) render(ctx context.Context, w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		obs.LoggerFromContext(ctx).Error("template render failed",
			slog.String("template", name),
			slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// submissionFromForm captures the posted form fields in submission order.
func submissionFromForm(r *http.Request) domain.Submission {
	var sub domain.Submission
	for _, name := range formFields {
		sub.Fields = append(sub.Fields, domain.Field{Name: name, Value: r.PostFormValue(name)})
	}
	return sub
}

// displayName renders a field name the way the form labels it.
func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
