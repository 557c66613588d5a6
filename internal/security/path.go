// Package security keeps MCP tool file access inside one directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that escape the configured directory
var ErrOutsideDirectory = errors.New("path is outside configured directory")

// PathValidator confines tool paths to a configured directory
type PathValidator struct {
	directory string
}

// NewPathValidator creates a validator rooted at directory
func NewPathValidator(directory string) (*PathValidator, error) {
	if directory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	return &PathValidator{directory: filepath.Clean(abs)}, nil
}

// Directory returns the absolute configured directory
func (v *PathValidator) Directory() string {
	return v.directory
}

// Resolve returns the absolute form of path, joining relative paths onto the
// configured directory, and rejects anything that lands outside it.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.directory, path)
	}
	abs := filepath.Clean(path)

	if !v.contains(abs) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, path)
	}
	return abs, nil
}

// contains checks both the lexical and the symlink-resolved form of path
func (v *PathValidator) contains(path string) bool {
	dirs := []string{v.directory}
	if real, err := filepath.EvalSymlinks(v.directory); err == nil && real != v.directory {
		dirs = append(dirs, real)
	}

	paths := []string{path}
	if real, err := filepath.EvalSymlinks(path); err == nil && real != path {
		paths = append(paths, real)
	}

	for _, p := range paths {
		if !withinAny(p, dirs) {
			return false
		}
	}
	return true
}

func withinAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir {
			return true
		}
		prefix := dir
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// ValidateFile resolves path and requires it to name an existing regular file
func (v *PathValidator) ValidateFile(path string) (string, error) {
	abs, err := v.Resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory: %s", path)
	}
	return abs, nil
}
