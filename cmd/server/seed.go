package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/course-catalog/internal/config"
	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/usecase"
)

type seedFile struct {
	Courses []seedCourse `yaml:"courses"`
}

type seedCourse struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Instructor    string `yaml:"instructor"`
	Semester      string `yaml:"semester"`
	Schedule      string `yaml:"schedule"`
	Classroom     string `yaml:"classroom"`
	Prerequisites string `yaml:"prerequisites"`
	Grading       string `yaml:"grading"`
	Description   string `yaml:"description"`
}

// submission builds the seed entry as if it had been submitted through the
// form. Omitted optional fields stay unsubmitted so they raise no blank-field
// warnings; required fields always go through so validation can reject them.
func (c seedCourse) submission() domain.Submission {
	fields := []domain.Field{
		{Name: "code", Value: c.Code},
		{Name: "name", Value: c.Name},
		{Name: "instructor", Value: c.Instructor},
	}
	optional := []domain.Field{
		{Name: "semester", Value: c.Semester},
		{Name: "schedule", Value: c.Schedule},
		{Name: "classroom", Value: c.Classroom},
		{Name: "prerequisites", Value: c.Prerequisites},
		{Name: "grading", Value: c.Grading},
		{Name: "description", Value: c.Description},
	}
	for _, f := range optional {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return domain.Submission{Fields: fields}
}

// seedCatalog loads courses from the configured YAML file into an empty
// catalog. Entries go through the catalog service so seeding is validated and
// traced like any other add. A populated catalog is left alone.
func seedCatalog(ctx context.Context, cfg config.Config, svc usecase.CatalogService) error {
	if cfg.SeedPath == "" {
		return nil
	}
	b, err := os.ReadFile(cfg.SeedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("seed file not found, skipping", slog.String("path", cfg.SeedPath))
			return nil
		}
		return fmt.Errorf("op=main.seedCatalog: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(b, &seed); err != nil {
		return fmt.Errorf("op=main.seedCatalog: %w", err)
	}
	if len(seed.Courses) == 0 {
		return nil
	}

	existing, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("op=main.seedCatalog: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("catalog already populated, skipping seed", slog.Int("courses", len(existing)))
		return nil
	}

	for _, sc := range seed.Courses {
		out, err := svc.Add(ctx, sc.submission())
		if err != nil {
			return fmt.Errorf("op=main.seedCatalog: seed %q: %w", sc.Code, err)
		}
		if out.Status == domain.OutcomeError {
			return fmt.Errorf("op=main.seedCatalog: seed %q: %s", sc.Code, out.Message)
		}
	}
	slog.Info("catalog seeded", slog.Int("courses", len(seed.Courses)))
	return nil
}
