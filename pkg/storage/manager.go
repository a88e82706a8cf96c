package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	fmpderrors "fmpd/pkg/errors"
)

const (
	// DateLayout is the YYYYMMDD stem of the default output names
	DateLayout = "20060102"

	tempPattern = ".fmpd-*.part"
)

// Manager owns the output directory of one run
type Manager struct {
	outputDir string
	extension string
	name      *NameTemplate
	written   []string
}

// CheckOutputDir fails with a precondition error when outputDir already exists
func CheckOutputDir(outputDir string) error {
	if _, err := os.Lstat(outputDir); err == nil {
		return fmpderrors.New(fmpderrors.ErrorTypePrecondition, "output directory %s already exists", outputDir)
	}
	return nil
}

// NewManager creates outputDir and returns a manager for it. The directory
// must not exist yet: every run starts from an empty directory. Files are
// named by name, or DefaultNameTemplate when name is nil.
func NewManager(outputDir, extension string, name *NameTemplate) (*Manager, error) {
	if name == nil {
		name = MustParseNameTemplate(DefaultNameTemplate)
	}
	if err := CheckOutputDir(outputDir); err != nil {
		return nil, err
	}

	if parent := filepath.Dir(outputDir); parent != "." {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to create parent of %s", outputDir)
		}
	}

	if err := os.Mkdir(outputDir, 0755); err != nil {
		if os.IsExist(err) {
			return nil, fmpderrors.New(fmpderrors.ErrorTypePrecondition, "output directory %s already exists", outputDir)
		}
		return nil, fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to create output directory")
	}

	return &Manager{
		outputDir: outputDir,
		extension: extension,
		name:      name,
	}, nil
}

// TempFile is the scratch file one item is downloaded into
type TempFile struct {
	*os.File
	done bool
}

// CreateTemp returns a uniquely named scratch file inside the output directory,
// so the final rename never crosses filesystems. Callers must defer Cleanup.
func (m *Manager) CreateTemp() (*TempFile, error) {
	f, err := os.CreateTemp(m.outputDir, tempPattern)
	if err != nil {
		return nil, fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to create temporary file")
	}
	return &TempFile{File: f}, nil
}

// Cleanup closes and removes the scratch file unless it was committed.
// It is safe to call more than once.
func (t *TempFile) Cleanup() {
	if t.done {
		return
	}
	t.done = true
	t.File.Close()
	os.Remove(t.File.Name())
}

// Commit finalises the download of fbid. A non-zero modTime is applied to the
// scratch file first; the file's modification time then picks the output
// name, and the scratch file is renamed into place. Returns the output path.
func (m *Manager) Commit(tmp *TempFile, fbid string, modTime time.Time) (string, error) {
	if tmp.done {
		return "", fmpderrors.New(fmpderrors.ErrorTypeFilesystem, "temporary file %s already finalised", tmp.Name())
	}

	if err := tmp.File.Close(); err != nil {
		return "", fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to close temporary file")
	}

	if !modTime.IsZero() {
		if err := os.Chtimes(tmp.Name(), modTime, modTime); err != nil {
			return "", fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to set modification time")
		}
	}

	info, err := os.Stat(tmp.Name())
	if err != nil {
		return "", fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to stat temporary file")
	}

	name, err := m.NextName(fbid, info.ModTime())
	if err != nil {
		return "", err
	}

	dest := filepath.Join(m.outputDir, name)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to create directory for %s", name)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to rename temporary file")
	}
	tmp.done = true

	m.written = append(m.written, dest)
	return dest, nil
}

// NextName returns the first unused name, relative to the output directory,
// for the photo fbid modified at date. With the default template that is
// "<YYYYMMDD><ext>", then "<YYYYMMDD> 1<ext>", "<YYYYMMDD> 2<ext>" and so on.
func (m *Manager) NextName(fbid string, date time.Time) (string, error) {
	for i := 0; ; i++ {
		name, err := m.render(fbid, date, i)
		if err != nil {
			return "", err
		}

		_, err = os.Lstat(filepath.Join(m.outputDir, name))
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", fmpderrors.Wrap(fmpderrors.ErrorTypeFilesystem, err, "failed to check %s", name)
		}
		if !m.name.HasIndex() {
			return "", fmpderrors.New(fmpderrors.ErrorTypeFilesystem,
				"%s already exists and name template %q has no index to tell files apart", name, m.name)
		}
	}
}

// render builds the index-th candidate name and keeps it inside the output
// directory
func (m *Manager) render(fbid string, date time.Time, index int) (string, error) {
	name := filepath.Clean(filepath.FromSlash(m.name.Render(fbid, date, index) + m.extension))
	if filepath.IsAbs(name) || name == "." || name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", fmpderrors.New(fmpderrors.ErrorTypeParsing, "name %q for %s leaves the output directory", name, fbid)
	}
	return name, nil
}

// DateStamp formats t as YYYYMMDD in local time
func DateStamp(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// Written returns the paths committed so far, in order
func (m *Manager) Written() []string {
	out := make([]string, len(m.written))
	copy(out, m.written)
	return out
}

// String is used in log lines
func (m *Manager) String() string {
	return fmt.Sprintf("storage(%s, %d files)", m.outputDir, len(m.written))
}
