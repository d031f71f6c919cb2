// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrEmptyBaseName          = errors.New("file name has no base name")
)

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// BaseName returns the file name up to its first dot.
//
// Examples:
//   - "notes/linear.md" -> "linear"
//   - "sheet.v2.md" -> "sheet"
//   - "README" -> "README"
func BaseName(path string) (string, error) {
	base := filepath.Base(filepath.Clean(path))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptyBaseName, path)
	}
	return base, nil
}

// SiblingPath returns dir/<BaseName(path)><suffix>.<extension>.
// An empty dir keeps the directory of path.
func SiblingPath(path, dir, suffix, extension string) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	base, err := BaseName(path)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, base+suffix+"."+extension), nil
}

// WriteFile writes data to path through a temp file in the same directory
// and a rename, creating parent directories as needed. Readers never see a
// partially written file.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".cheatmark-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./sheet.yaml" -> true (relative path)
//   - "/absolute/path.yaml" -> true (absolute)
//   - "two-column" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

