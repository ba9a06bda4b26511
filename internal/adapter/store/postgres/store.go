// Package postgres provides the transactional CourseStore backend.
//
// It implements the same operations and observability envelope as the file
// backend over a courses table ordered by insertion id. Unlike the file
// backend's load-modify-write cycle, concurrent appends are individual
// INSERTs and cannot lose each other.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
)

// PgxPool is a minimal subset of pgxpool used by the store for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store is the Postgres-backed CourseStore.
type Store struct{ Pool PgxPool }

// New constructs a Store with the given pool.
func New(p PgxPool) *Store { return &Store{Pool: p} }

// EnsureSchema creates the courses table when absent. Course codes are the
// natural identifier but stay unenforced-unique, matching the file backend.
func EnsureSchema(ctx context.Context, p PgxPool) error {
	q := `CREATE TABLE IF NOT EXISTS courses (
		id BIGSERIAL PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		instructor TEXT NOT NULL,
		semester TEXT NOT NULL DEFAULT '',
		schedule TEXT NOT NULL DEFAULT '',
		classroom TEXT NOT NULL DEFAULT '',
		prerequisites TEXT NOT NULL DEFAULT '',
		grading TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	)`
	if _, err := p.Exec(ctx, q); err != nil {
		return fmt.Errorf("op=postgres.EnsureSchema: %w", err)
	}
	return nil
}

// LoadAll returns the whole catalog in insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := obs.Instrument(ctx, obs.Op{Name: "load-courses", Operation: "load_courses", Phase: "load"}, func(ctx context.Context, o *obs.OpSpan) error {
		q := `SELECT code, name, instructor, semester, schedule, classroom, prerequisites, grading, description FROM courses ORDER BY id`
		rows, err := s.Pool.Query(ctx, q)
		if err != nil {
			return fmt.Errorf("op=postgres.LoadAll: %w", err)
		}
		defer rows.Close()
		courses = []domain.Course{}
		for rows.Next() {
			var c domain.Course
			if err := rows.Scan(&c.Code, &c.Name, &c.Instructor, &c.Semester, &c.Schedule, &c.Classroom, &c.Prerequisites, &c.Grading, &c.Description); err != nil {
				return fmt.Errorf("op=postgres.LoadAll: %w", err)
			}
			courses = append(courses, c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("op=postgres.LoadAll: %w", err)
		}
		o.SetInt("course.count", len(courses))
		return nil
	})
	return courses, err
}

// Append inserts one course. A single INSERT, so concurrent appends do not
// race each other the way the file backend's load-modify-write does.
func (s *Store) Append(ctx context.Context, c domain.Course) error {
	return obs.Instrument(ctx, obs.Op{Name: "save-courses", Operation: "save_courses", Phase: "save"}, func(ctx context.Context, _ *obs.OpSpan) error {
		q := `INSERT INTO courses (code, name, instructor, semester, schedule, classroom, prerequisites, grading, description) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
		if _, err := s.Pool.Exec(ctx, q, c.Code, c.Name, c.Instructor, c.Semester, c.Schedule, c.Classroom, c.Prerequisites, c.Grading, c.Description); err != nil {
			return fmt.Errorf("op=postgres.Append: %w: %v", domain.ErrStoreWrite, err)
		}
		return nil
	})
}

// DeleteByCode removes every record matching code and reports whether any
// matched.
func (s *Store) DeleteByCode(ctx context.Context, code string) (bool, error) {
	var found bool
	err := obs.Instrument(ctx, obs.Op{Name: "delete-course-by-code", Operation: "delete_course_by_code", Phase: "delete"}, func(ctx context.Context, o *obs.OpSpan) error {
		o.SetString("course.code", code)
		tag, err := s.Pool.Exec(ctx, `DELETE FROM courses WHERE code=$1`, code)
		if err != nil {
			return fmt.Errorf("op=postgres.DeleteByCode: %w: %v", domain.ErrStoreWrite, err)
		}
		found = tag.RowsAffected() > 0
		if !found {
			o.SetString("delete.status", "not-found")
			o.Event("course-delete-not-found")
			o.Warn()
			return nil
		}
		o.Event("course-deleted")
		return nil
	})
	return found, err
}
