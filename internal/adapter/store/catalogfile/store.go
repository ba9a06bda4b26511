// Package catalogfile persists the catalog as one pretty-printed JSON file,
// rewritten in full on every mutation.
package catalogfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
)

// Store is the file-backed CourseStore. Concurrent writers race on the
// load-modify-write cycle: the last rewrite wins and can lose an interleaved
// append. That is the documented behavior of this backend; the temp-file
// rename only keeps the file itself from ever being observed half-written.
type Store struct {
	path string
}

// New returns a Store over the given catalog file path. The file does not
// need to exist yet.
func New(path string) *Store { return &Store{path: path} }

// LoadAll reads the whole catalog. An absent or empty file is an empty
// catalog, not an error.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := obs.Instrument(ctx, obs.Op{Name: "load-courses", Operation: "load_courses", Phase: "load"}, func(_ context.Context, o *obs.OpSpan) error {
		data, err := os.ReadFile(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			o.SetBool("file.exists", false)
			courses = []domain.Course{}
			return nil
		}
		if err != nil {
			return fmt.Errorf("op=catalogfile.LoadAll: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			courses = []domain.Course{}
			o.SetInt("course.count", 0)
			return nil
		}
		if err := json.Unmarshal(data, &courses); err != nil {
			return fmt.Errorf("op=catalogfile.LoadAll: %w: %v", domain.ErrCatalogCorrupt, err)
		}
		if courses == nil {
			courses = []domain.Course{}
		}
		o.SetInt("course.count", len(courses))
		return nil
	})
	return courses, err
}

// Append loads the catalog, appends c, and rewrites the whole file.
func (s *Store) Append(ctx context.Context, c domain.Course) error {
	return obs.Instrument(ctx, obs.Op{Name: "save-courses", Operation: "save_courses", Phase: "save"}, func(ctx context.Context, _ *obs.OpSpan) error {
		courses, err := s.LoadAll(ctx)
		if err != nil {
			return err
		}
		courses = append(courses, c)
		if err := s.rewrite(courses); err != nil {
			return fmt.Errorf("op=catalogfile.Append: %w: %v", domain.ErrStoreWrite, err)
		}
		return nil
	})
}

// DeleteByCode removes every record matching code and reports whether any
// matched. The file is rewritten only on a match.
func (s *Store) DeleteByCode(ctx context.Context, code string) (bool, error) {
	var found bool
	err := obs.Instrument(ctx, obs.Op{Name: "delete-course-by-code", Operation: "delete_course_by_code", Phase: "delete"}, func(ctx context.Context, o *obs.OpSpan) error {
		o.SetString("course.code", code)
		courses, err := s.LoadAll(ctx)
		if err != nil {
			return err
		}
		kept := make([]domain.Course, 0, len(courses))
		for _, c := range courses {
			if c.Code == code {
				found = true
				continue
			}
			kept = append(kept, c)
		}
		if !found {
			o.SetString("delete.status", "not-found")
			o.Event("course-delete-not-found")
			o.Warn()
			return nil
		}
		if err := s.rewrite(kept); err != nil {
			found = false
			return fmt.Errorf("op=catalogfile.DeleteByCode: %w: %v", domain.ErrStoreWrite, err)
		}
		o.Event("course-deleted")
		return nil
	})
	return found, err
}

// rewrite serializes the catalog with a 4-space indent and swaps it in with
// a rename so readers never see a torn file.
func (s *Store) rewrite(courses []domain.Course) error {
	data, err := json.MarshalIndent(courses, "", "    ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
