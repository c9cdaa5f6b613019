package mocks

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

type memFile struct {
	data []byte
	perm os.FileMode
}

// FileSystem is an in-memory test double for ports.FileSystem.
type FileSystem struct {
	mu      sync.RWMutex
	files   map[string]memFile
	dirs    map[string]bool
	tempSeq int

	// FailWrites, when set, makes every WriteFile return this error.
	FailWrites error
}

// NewFileSystem creates a new in-memory FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string]memFile),
		dirs:  make(map[string]bool),
	}
}

// ReadFile reads a stored file.
func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	data := make([]byte, len(f.data))
	copy(data, f.data)
	return data, nil
}

// WriteFile stores a file.
func (m *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[path] = memFile{data: stored, perm: perm}
	return nil
}

// Exists reports whether a file or directory is stored.
func (m *FileSystem) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[path]; ok {
		return true
	}
	return m.dirs[path]
}

// MkdirAll records a directory.
func (m *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

// Chmod changes a stored file's mode.
func (m *FileSystem) Chmod(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return &os.PathError{Op: "chmod", Path: path, Err: os.ErrNotExist}
	}
	f.perm = perm
	m.files[path] = f
	return nil
}

// Remove deletes a stored file or directory.
func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if m.dirs[path] {
		delete(m.dirs, path)
		return nil
	}
	return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
}

// RemoveAll deletes a path and everything under it.
func (m *FileSystem) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for p := range m.files {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(m.dirs, p)
		}
	}
	return nil
}

// Rename moves a stored file.
func (m *FileSystem) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[oldPath]
	if !ok {
		return &os.PathError{Op: "rename", Path: oldPath, Err: os.ErrNotExist}
	}
	delete(m.files, oldPath)
	m.files[newPath] = f
	return nil
}

// TempDir records and returns a fresh fake temp directory.
func (m *FileSystem) TempDir(prefix string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tempSeq++
	path := fmt.Sprintf("/tmp/%s%d", prefix, m.tempSeq)
	m.dirs[path] = true
	return path, nil
}

// Perm returns the stored mode of a file.
func (m *FileSystem) Perm(path string) (os.FileMode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	if !ok {
		return 0, false
	}
	return f.perm, true
}

// Paths returns all stored file paths, sorted.
func (m *FileSystem) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// DirExists reports whether a directory was recorded.
func (m *FileSystem) DirExists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[path]
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
