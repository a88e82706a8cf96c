package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fmpderrors "fmpd/pkg/errors"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "output"), ".jpg", nil)
	require.NoError(t, err)
	return m
}

func writeItem(t *testing.T, m *Manager, data string, modTime time.Time) string {
	t.Helper()
	tmp, err := m.CreateTemp()
	require.NoError(t, err)
	defer tmp.Cleanup()

	_, err = tmp.WriteString(data)
	require.NoError(t, err)

	path, err := m.Commit(tmp, "101", modTime)
	require.NoError(t, err)
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNewManager(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "output")
		m, err := NewManager(dir, ".jpg", nil)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, dir, m.OutputDir())
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("creates missing parents", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b", "output")
		_, err := NewManager(dir, ".jpg", nil)
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})

	t.Run("existing directory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := NewManager(dir, ".jpg", nil)
		require.Error(t, err)
		assert.Equal(t, fmpderrors.ErrorTypePrecondition, fmpderrors.TypeOf(err))
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		_, err := NewManager(path, ".jpg", nil)
		require.Error(t, err)
		assert.Equal(t, fmpderrors.ErrorTypePrecondition, fmpderrors.TypeOf(err))
	})
}

func TestDefaultNames(t *testing.T) {
	tmpl := MustParseNameTemplate(DefaultNameTemplate)
	date := time.Date(2016, 5, 19, 12, 0, 0, 0, time.Local)

	tests := []struct {
		index int
		want  string
	}{
		{0, "20160519"},
		{1, "20160519 1"},
		{2, "20160519 2"},
		{12, "20160519 12"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tmpl.Render("101", date, tt.index))
	}
}

func TestDateStamp(t *testing.T) {
	ts := time.Date(2016, 5, 19, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "20160519", DateStamp(ts))

	// formatted in local time whatever the source zone
	utc := time.Date(2016, 5, 19, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, utc.Local().Format("20060102"), DateStamp(utc))
}

func TestCommit(t *testing.T) {
	m := newTestManager(t)
	modTime := time.Date(2016, 5, 19, 12, 0, 0, 0, time.Local)

	path := writeItem(t, m, "photo", modTime)
	assert.Equal(t, filepath.Join(m.OutputDir(), "20160519.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "photo", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(modTime))

	assert.Equal(t, []string{"20160519.jpg"}, listDir(t, m.OutputDir()))
	assert.Equal(t, []string{path}, m.Written())
}

func TestCommitCollisions(t *testing.T) {
	m := newTestManager(t)
	day := time.Date(2016, 5, 19, 9, 0, 0, 0, time.Local)
	other := time.Date(2017, 1, 2, 9, 0, 0, 0, time.Local)

	p0 := writeItem(t, m, "a", day)
	p1 := writeItem(t, m, "b", day.Add(time.Hour))
	p2 := writeItem(t, m, "c", other)
	p3 := writeItem(t, m, "d", day.Add(2*time.Hour))

	assert.Equal(t, "20160519.jpg", filepath.Base(p0))
	assert.Equal(t, "20160519 1.jpg", filepath.Base(p1))
	assert.Equal(t, "20170102.jpg", filepath.Base(p2))
	assert.Equal(t, "20160519 2.jpg", filepath.Base(p3))

	data, err := os.ReadFile(p3)
	require.NoError(t, err)
	assert.Equal(t, "d", string(data))

	assert.Len(t, listDir(t, m.OutputDir()), 4)
	assert.Equal(t, []string{p0, p1, p2, p3}, m.Written())
}

func TestCommitWithoutModTime(t *testing.T) {
	m := newTestManager(t)
	before := time.Now()

	path := writeItem(t, m, "photo", time.Time{})

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, DateStamp(info.ModTime())+".jpg", filepath.Base(path))
	assert.False(t, info.ModTime().Before(before.Add(-time.Minute)))
}

func TestCommitTwice(t *testing.T) {
	m := newTestManager(t)
	tmp, err := m.CreateTemp()
	require.NoError(t, err)

	_, err = m.Commit(tmp, "101", time.Now())
	require.NoError(t, err)

	_, err = m.Commit(tmp, "101", time.Now())
	assert.Error(t, err)

	// cleanup after commit must not remove the output file
	tmp.Cleanup()
	assert.Len(t, listDir(t, m.OutputDir()), 1)
}

func TestCleanup(t *testing.T) {
	m := newTestManager(t)

	tmp, err := m.CreateTemp()
	require.NoError(t, err)
	_, err = tmp.WriteString("partial")
	require.NoError(t, err)

	assert.Len(t, listDir(t, m.OutputDir()), 1)

	tmp.Cleanup()
	tmp.Cleanup()
	assert.Empty(t, listDir(t, m.OutputDir()))
	assert.Empty(t, m.Written())
}

func TestCreateTempUnique(t *testing.T) {
	m := newTestManager(t)

	a, err := m.CreateTemp()
	require.NoError(t, err)
	defer a.Cleanup()
	b, err := m.CreateTemp()
	require.NoError(t, err)
	defer b.Cleanup()

	assert.NotEqual(t, a.Name(), b.Name())
	assert.Equal(t, m.OutputDir(), filepath.Dir(a.Name()))
}

func TestNextNameSkipsExisting(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(filepath.Join(m.OutputDir(), "20160519.jpg"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(m.OutputDir(), "20160519 1.jpg"), nil, 0644))

	name, err := m.NextName("101", time.Date(2016, 5, 19, 12, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "20160519 2.jpg", name)
}

func newTemplateManager(t *testing.T, template string) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "output"), ".jpg", MustParseNameTemplate(template))
	require.NoError(t, err)
	return m
}

func commitAs(t *testing.T, m *Manager, fbid string, modTime time.Time) (string, error) {
	t.Helper()
	tmp, err := m.CreateTemp()
	require.NoError(t, err)
	defer tmp.Cleanup()
	return m.Commit(tmp, fbid, modTime)
}

func TestCommitCustomTemplate(t *testing.T) {
	day := time.Date(2016, 5, 19, 9, 0, 0, 0, time.Local)

	t.Run("identifier", func(t *testing.T) {
		m := newTemplateManager(t, "f")
		path, err := commitAs(t, m, "10153582534245079", day)
		require.NoError(t, err)
		assert.Equal(t, "10153582534245079.jpg", filepath.Base(path))
	})

	t.Run("index from first repeat", func(t *testing.T) {
		m := newTemplateManager(t, "yyyy-MM-dd_ii")
		var names []string
		for i := 0; i < 3; i++ {
			path, err := commitAs(t, m, "1", day)
			require.NoError(t, err)
			names = append(names, filepath.Base(path))
		}
		assert.Equal(t, []string{"2016-05-19_.jpg", "2016-05-19_01.jpg", "2016-05-19_02.jpg"}, names)
	})

	t.Run("index from first file", func(t *testing.T) {
		m := newTemplateManager(t, "yyyyMMdd'-'III")
		var names []string
		for i := 0; i < 2; i++ {
			path, err := commitAs(t, m, "1", day)
			require.NoError(t, err)
			names = append(names, filepath.Base(path))
		}
		assert.Equal(t, []string{"20160519-001.jpg", "20160519-002.jpg"}, names)
	})

	t.Run("subfolders", func(t *testing.T) {
		m := newTemplateManager(t, "yyyy/MM/dd[ i]")
		p0, err := commitAs(t, m, "1", day)
		require.NoError(t, err)
		p1, err := commitAs(t, m, "2", day)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(m.OutputDir(), "2016", "05", "19.jpg"), p0)
		assert.Equal(t, filepath.Join(m.OutputDir(), "2016", "05", "19 1.jpg"), p1)
		assert.FileExists(t, p0)
		assert.FileExists(t, p1)
		assert.Equal(t, []string{"2016"}, listDir(t, m.OutputDir()))
	})

	t.Run("no index", func(t *testing.T) {
		m := newTemplateManager(t, "yyyyMMdd")
		_, err := commitAs(t, m, "1", day)
		require.NoError(t, err)

		_, err = commitAs(t, m, "2", day)
		require.Error(t, err)
		assert.Equal(t, fmpderrors.ErrorTypeFilesystem, fmpderrors.TypeOf(err))
		assert.Equal(t, []string{"20160519.jpg"}, listDir(t, m.OutputDir()))
	})

	t.Run("escaping the output directory", func(t *testing.T) {
		m := newTemplateManager(t, "'../'f")
		_, err := commitAs(t, m, "1", day)
		require.Error(t, err)
		assert.Equal(t, fmpderrors.ErrorTypeParsing, fmpderrors.TypeOf(err))
		assert.Empty(t, listDir(t, m.OutputDir()))
	})
}

func TestCheckOutputDir(t *testing.T) {
	assert.NoError(t, CheckOutputDir(filepath.Join(t.TempDir(), "output")))

	err := CheckOutputDir(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, fmpderrors.ErrorTypePrecondition, fmpderrors.TypeOf(err))
}
