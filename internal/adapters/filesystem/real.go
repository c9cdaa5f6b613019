// Package filesystem provides file system adapters.
package filesystem

import (
	"os"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// RealFS performs operations against the actual file system.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the named file.
func (f *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to the named file, creating it with perm if needed.
func (f *RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Exists reports whether the path exists.
func (f *RealFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MkdirAll creates a directory and any missing parents.
func (f *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Chmod changes the mode of the named file.
func (f *RealFS) Chmod(path string, perm os.FileMode) error {
	return os.Chmod(path, perm)
}

// Remove removes the named file or empty directory.
func (f *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll removes path and any children it contains.
func (f *RealFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename renames (moves) a file.
func (f *RealFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// TempDir creates a fresh temporary directory under the default temp root.
func (f *RealFS) TempDir(prefix string) (string, error) {
	return os.MkdirTemp("", prefix)
}

// Ensure RealFS implements ports.FileSystem.
var _ ports.FileSystem = (*RealFS)(nil)
