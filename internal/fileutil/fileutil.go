// Package fileutil provides scoped temporary files and directories.
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
	ErrNameEmpty         = errors.New("file name cannot be empty")
	ErrNamePathTraversal = errors.New("file name contains path separator or null byte")
)

// Permissions for files written into temporary directories.
const privateFilePerm = 0o600

// MakeTempDir creates a private temporary directory under root
// (os.TempDir() when root is empty). The returned cleanup removes the
// directory and everything in it, ignoring errors; it is safe to call twice.
func MakeTempDir(root, pattern string) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp(root, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp directory: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }
	return dir, cleanup, nil
}

// WriteFileIn writes content to dir/name and returns the full path.
// name must be a bare file name.
func WriteFileIn(dir, name string, content []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, privateFilePerm); err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return path, nil
}

// ValidateName checks that name is safe to join to a directory.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if strings.ContainsAny(name, "/\\\x00") || name == "." || name == ".." {
		return ErrNamePathTraversal
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

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "merge" -> false (name)
//   - "./merge.yaml" -> true (relative path)
//   - "/etc/pdfmerge/merge.yaml" -> true (absolute)
//   - "C:\config\merge.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
