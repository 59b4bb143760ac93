package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	backupExt       = ".html"
	backupTimestamp = "20060102_150405"
	originalPrefix  = "<!-- original: "
	originalSuffix  = " -->"
)

// BackupManager keeps timestamped copies of documents before they are
// overwritten
type BackupManager struct {
	backupDir string
	sessionID string
}

// NewBackupManager creates a backup manager using the default backup
// directory
func NewBackupManager() (*BackupManager, error) {
	return NewBackupManagerIn(getBackupDir())
}

// NewBackupManagerIn creates a backup manager storing backups in dir
func NewBackupManagerIn(dir string) (*BackupManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &BackupManager{
		backupDir: dir,
		sessionID: GenerateSessionID(),
	}, nil
}

// Dir returns the directory backups are written to
func (bm *BackupManager) Dir() string {
	return bm.backupDir
}

// CreateBackup writes content to a new backup file. The first line records
// the absolute path of the original file.
func (bm *BackupManager) CreateBackup(content []byte, originalPath string) (string, error) {
	absPath, err := filepath.Abs(originalPath)
	if err != nil {
		absPath = originalPath
	}

	backupPath := filepath.Join(bm.backupDir, bm.generateBackupFilename(time.Now()))

	var buf bytes.Buffer
	buf.WriteString(originalPrefix + absPath + originalSuffix + "\n")
	buf.Write(content)

	if err := os.WriteFile(backupPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return backupPath, nil
}

// generateBackupFilename creates a filename in the format: YYYYMMDD_HHMMSS_<sessionID>.html
func (bm *BackupManager) generateBackupFilename(t time.Time) string {
	return fmt.Sprintf("%s_%s%s", t.Format(backupTimestamp), bm.sessionID, backupExt)
}

// getBackupDir returns the path to the backup directory
func getBackupDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".sermonedit", "backups")
	}
	return filepath.Join(homeDir, ".local", "share", "sermonedit", "backups")
}

// GetBackupDir returns the default backup directory
func GetBackupDir() string {
	return getBackupDir()
}

// IsBackupFile reports whether path names a file in the default backup
// directory
func IsBackupFile(path string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == filepath.Clean(getBackupDir())
}

// BackupMetadata holds parsed information about a backup file
type BackupMetadata struct {
	FilePath     string    // Full path to backup file
	Timestamp    time.Time // Parsed timestamp from filename
	SessionID    string    // 8-character session ID
	OriginalFile string    // Original path recorded in the backup
}

// FindBackupsForFile returns all backups of a file, oldest first. An empty
// path returns every backup.
func (bm *BackupManager) FindBackupsForFile(originalFilePath string) ([]BackupMetadata, error) {
	entries, err := os.ReadDir(bm.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var searchPath string
	if originalFilePath != "" {
		if absPath, err := filepath.Abs(originalFilePath); err == nil {
			searchPath = filepath.Clean(absPath)
		} else {
			searchPath = originalFilePath
		}
	}

	var backups []BackupMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}
		metadata, err := parseBackupFilename(entry.Name(), filepath.Join(bm.backupDir, entry.Name()))
		if err != nil {
			continue
		}
		if searchPath != "" && filepath.Clean(metadata.OriginalFile) != searchPath {
			continue
		}
		backups = append(backups, metadata)
	}

	sortBackupsByTimestamp(backups)
	return backups, nil
}

// parseBackupFilename extracts metadata from a backup filename
// Expected format: YYYYMMDD_HHMMSS_<sessionID>.html
func parseBackupFilename(filename string, fullPath string) (BackupMetadata, error) {
	name := strings.TrimSuffix(filename, backupExt)
	if len(name) < len(backupTimestamp)+2 || name[len(backupTimestamp)] != '_' {
		return BackupMetadata{}, fmt.Errorf("invalid backup filename %q", filename)
	}

	timestamp, err := time.Parse(backupTimestamp, name[:len(backupTimestamp)])
	if err != nil {
		return BackupMetadata{}, fmt.Errorf("invalid timestamp format: %w", err)
	}

	return BackupMetadata{
		FilePath:     fullPath,
		Timestamp:    timestamp,
		SessionID:    name[len(backupTimestamp)+1:],
		OriginalFile: readOriginalPath(fullPath),
	}, nil
}

// readOriginalPath returns the path recorded on the first line of a backup
func readOriginalPath(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, originalPrefix) || !strings.HasSuffix(line, originalSuffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(line, originalPrefix), originalSuffix)
}

// sortBackupsByTimestamp sorts backups chronologically (oldest first)
func sortBackupsByTimestamp(backups []BackupMetadata) {
	slices.SortFunc(backups, func(a, b BackupMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// GenerateSessionID creates a random 8-character session ID for backup naming
func GenerateSessionID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
