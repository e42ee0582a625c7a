package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner lists .eml files in a directory
type Scanner struct {
	rootPath  string
	recursive bool
}

// NewScanner creates a new scanner for the given root path. Only the top
// level is listed unless recursive is set.
func NewScanner(rootPath string, recursive bool) *Scanner {
	return &Scanner{
		rootPath:  rootPath,
		recursive: recursive,
	}
}

// GetRootPath returns the directory being scanned
func (s *Scanner) GetRootPath() string {
	return s.rootPath
}

// IsEML reports whether name carries an .eml extension, ignoring case
func IsEML(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".eml"
}

// Scan returns the .eml file paths, joined onto the root path and sorted
func (s *Scanner) Scan() ([]string, error) {
	if s.recursive {
		return s.walk()
	}

	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", s.rootPath, err)
	}

	emlFiles := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsEML(entry.Name()) {
			continue
		}
		emlFiles = append(emlFiles, filepath.Join(s.rootPath, entry.Name()))
	}
	return emlFiles, nil
}

func (s *Scanner) walk() ([]string, error) {
	var emlFiles []string

	err := filepath.WalkDir(s.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if IsEML(path) {
			emlFiles = append(emlFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	sort.Strings(emlFiles)
	return emlFiles, nil
}
