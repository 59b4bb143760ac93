package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pstuifzand/sermonedit/internal/model"
)

var (
	// ErrImportedOverwrite is returned when a converted document would be
	// saved over the file it was converted from
	ErrImportedOverwrite = errors.New("refusing to overwrite the source of an imported document")
	// ErrReadOnly is returned when saving a document opened from a backup
	ErrReadOnly = errors.New("document is read-only")
	// ErrNoFile is returned when opening a store without a path
	ErrNoFile = errors.New("no file selected")
)

// Handle identifies where a document was saved
type Handle struct {
	Path string
}

// Persistence saves and opens encoded documents
type Persistence interface {
	Save(content []byte, suggestedName string) (Handle, error)
	Open() ([]byte, string, error)
}

// FileStore keeps a document in a file
type FileStore struct {
	// Path is the file the document was opened from or last saved to
	Path string
	// Dir receives new files
	Dir        string
	Provenance Provenance
	ReadOnly   bool
	Backups    *BackupManager
}

// NewFileStore creates a store for path. Files in the backup directory are
// opened read-only.
func NewFileStore(path string) *FileStore {
	dir := "."
	if path != "" {
		dir = filepath.Dir(path)
	}
	return &FileStore{
		Path:     path,
		Dir:      dir,
		ReadOnly: IsBackupFile(path),
	}
}

// Open reads the file of the store
func (s *FileStore) Open() ([]byte, string, error) {
	if s.Path == "" {
		return nil, "", ErrNoFile
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return data, filepath.Base(s.Path), nil
}

// Load opens and decodes the file of the store. A missing file gives an
// empty document.
func (s *FileStore) Load() (*model.Document, error) {
	data, _, err := s.Open()
	if errors.Is(err, fs.ErrNotExist) {
		doc := model.NewDocument()
		doc.EnsureNotEmpty()
		doc.TakeRecords()
		s.Provenance = Native
		return doc, nil
	}
	if err != nil {
		return nil, err
	}

	doc, prov, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Path, err)
	}
	s.Provenance = prov
	s.ReadOnly = IsBackupFile(s.Path)
	return doc, nil
}

// Save writes content. Native documents overwrite their own file after a
// backup of the previous version. Imported and new documents get a new file
// in Dir named after suggestedName. On error the store is unchanged.
func (s *FileStore) Save(content []byte, suggestedName string) (Handle, error) {
	if s.ReadOnly {
		return Handle{}, ErrReadOnly
	}

	target := s.Path
	if target == "" || s.Provenance == Imported {
		name := filepath.Join(s.Dir, filepath.Base(suggestedName))
		if s.Path != "" && samePath(name, s.Path) {
			return Handle{}, ErrImportedOverwrite
		}
		target = uniquePath(name)
	}

	if s.Backups != nil && target == s.Path {
		if previous, err := os.ReadFile(target); err == nil {
			if _, err := s.Backups.CreateBackup(previous, target); err != nil {
				return Handle{}, fmt.Errorf("failed to back up %s: %w", target, err)
			}
		}
	}

	if err := writeFileAtomic(target, content); err != nil {
		return Handle{}, err
	}
	s.Path = target
	s.Dir = filepath.Dir(target)
	s.Provenance = Native
	return Handle{Path: target}, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// uniquePath appends a counter to the name until it does not exist
func uniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i) + ext
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
	}
}

// writeFileAtomic replaces path with content through a temporary file
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".sermonedit-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
