package catalogfile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/course-catalog/internal/adapter/store/catalogfile"
	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
)

func testCtx() context.Context {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	return obs.ContextWithLogger(context.Background(), lg)
}

func newStore(t *testing.T) (*catalogfile.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course_catalog.json")
	return catalogfile.New(path), path
}

func course(code string) domain.Course {
	return domain.Course{Code: code, Name: "Course " + code, Instructor: "Prof. Doe"}
}

func TestStore_LoadAll_AbsentFile(t *testing.T) {
	st, _ := newStore(t)

	courses, err := st.LoadAll(testCtx())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestStore_LoadAll_EmptyFile(t *testing.T) {
	st, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	courses, err := st.LoadAll(testCtx())
	require.NoError(t, err)
	assert.Empty(t, courses)

	require.NoError(t, os.WriteFile(path, []byte("  \n\t"), 0o600))
	courses, err = st.LoadAll(testCtx())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestStore_LoadAll_CorruptFile(t *testing.T) {
	st, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := st.LoadAll(testCtx())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCatalogCorrupt))
}

func TestStore_Append_RoundTrip(t *testing.T) {
	st, _ := newStore(t)
	ctx := testCtx()

	require.NoError(t, st.Append(ctx, course("CS101")))
	require.NoError(t, st.Append(ctx, course("CS203")))

	courses, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CS101", courses[0].Code)
	assert.Equal(t, "CS203", courses[1].Code)
}

func TestStore_Append_FileFormat(t *testing.T) {
	st, path := newStore(t)

	require.NoError(t, st.Append(testCtx(), course("CS101")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(raw)
	assert.True(t, strings.HasPrefix(body, "[\n    {"), "catalog should be pretty-printed with 4-space indent")
	for _, key := range []string{"code", "name", "instructor", "semester", "schedule", "classroom", "prerequisites", "grading", "description"} {
		assert.Contains(t, body, `"`+key+`"`)
	}
}

func TestStore_DeleteByCode(t *testing.T) {
	st, _ := newStore(t)
	ctx := testCtx()

	require.NoError(t, st.Append(ctx, course("CS101")))
	require.NoError(t, st.Append(ctx, course("CS203")))

	found, err := st.DeleteByCode(ctx, "CS101")
	require.NoError(t, err)
	assert.True(t, found)

	courses, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS203", courses[0].Code)

	found, err = st.DeleteByCode(ctx, "CS101")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_DeleteByCode_AbsentLeavesCatalogUntouched(t *testing.T) {
	st, _ := newStore(t)
	ctx := testCtx()

	require.NoError(t, st.Append(ctx, course("CS101")))

	found, err := st.DeleteByCode(ctx, "CS404")
	require.NoError(t, err)
	assert.False(t, found)

	courses, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].Code)
}

func TestStore_DeleteByCode_EmptyCatalog(t *testing.T) {
	st, _ := newStore(t)

	found, err := st.DeleteByCode(testCtx(), "CS101")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Append_PreservesOrder(t *testing.T) {
	st, _ := newStore(t)
	ctx := testCtx()

	codes := []string{"CS500", "CS100", "CS300", "CS200"}
	for _, code := range codes {
		require.NoError(t, st.Append(ctx, course(code)))
	}

	courses, err := st.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, courses, len(codes))
	for i, code := range codes {
		assert.Equal(t, code, courses[i].Code)
	}
}
