package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/course-catalog/internal/adapter/store/catalogfile"
	"github.com/fairyhunter13/course-catalog/internal/config"
	"github.com/fairyhunter13/course-catalog/internal/obs"
	"github.com/fairyhunter13/course-catalog/internal/usecase"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func seedCtx() context.Context {
	return obs.ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

const seedYAML = `courses:
  - code: CS101
    name: Intro to CS
    instructor: Prof. Knuth
    semester: Fall 2026
  - code: CS203
    name: Software Tools
    instructor: Prof. Doe
`

func writeSeedFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestSeedCatalog_EmptyPathSkips(t *testing.T) {
	svc := usecase.NewCatalogService(catalogfile.New(filepath.Join(t.TempDir(), "catalog.json")), nil)
	require.NoError(t, seedCatalog(seedCtx(), config.Config{}, svc))
}

func TestSeedCatalog_MissingFileSkips(t *testing.T) {
	cfg := config.Config{SeedPath: filepath.Join(t.TempDir(), "absent.yaml")}
	svc := usecase.NewCatalogService(catalogfile.New(filepath.Join(t.TempDir(), "catalog.json")), nil)
	require.NoError(t, seedCatalog(seedCtx(), cfg, svc))
}

func TestSeedCatalog_SeedsEmptyCatalog(t *testing.T) {
	store := catalogfile.New(filepath.Join(t.TempDir(), "catalog.json"))
	svc := usecase.NewCatalogService(store, nil)
	cfg := config.Config{SeedPath: writeSeedFile(t, seedYAML)}

	require.NoError(t, seedCatalog(seedCtx(), cfg, svc))

	courses, err := store.LoadAll(seedCtx())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	require.Equal(t, "CS101", courses[0].Code)
	require.Equal(t, "Fall 2026", courses[0].Semester)
	require.Equal(t, "CS203", courses[1].Code)
}

func TestSeedCatalog_SkipsPopulatedCatalog(t *testing.T) {
	store := catalogfile.New(filepath.Join(t.TempDir(), "catalog.json"))
	svc := usecase.NewCatalogService(store, nil)
	require.NoError(t, svc.Save(seedCtx(), seedCourse{Code: "CS900", Name: "Existing", Instructor: "Prof. X"}.submission().Course()))

	cfg := config.Config{SeedPath: writeSeedFile(t, seedYAML)}
	require.NoError(t, seedCatalog(seedCtx(), cfg, svc))

	courses, err := store.LoadAll(seedCtx())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "CS900", courses[0].Code)
}

func TestSeedCatalog_RejectsInvalidEntry(t *testing.T) {
	svc := usecase.NewCatalogService(catalogfile.New(filepath.Join(t.TempDir(), "catalog.json")), nil)
	cfg := config.Config{SeedPath: writeSeedFile(t, "courses:\n  - code: CS101\n    name: No Instructor\n")}

	err := seedCatalog(seedCtx(), cfg, svc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Missing required fields")
}

func TestSeedCourse_Submission(t *testing.T) {
	sub := seedCourse{Code: "CS101", Name: "Intro", Instructor: "Prof. Knuth", Semester: "Fall 2026"}.submission()
	require.Len(t, sub.Fields, 4)
	require.Equal(t, "code", sub.Fields[0].Name)
	require.Equal(t, "semester", sub.Fields[3].Name)

	// Required fields are always submitted, even blank.
	sub = seedCourse{Code: "CS101"}.submission()
	require.Len(t, sub.Fields, 3)
	require.Equal(t, "", sub.Get("name"))
}
