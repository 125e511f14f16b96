// Package fs provides a file system abstraction for testing.
// This allows capture and materialization to be unit tested without
// touching the real file system.
package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// FS defines the interface for file system operations.
// Implementations can provide real file system access or in-memory
// mocking for testing.
type FS interface {
	// ReadFile reads the entire file at path and returns its contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the file at path with the given permissions.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates all directories in the path.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info for the given path, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// Lstat returns file info for the given path without following symlinks.
	Lstat(path string) (os.FileInfo, error)

	// Remove removes the file or empty directory at path.
	Remove(path string) error

	// RemoveAll removes path and any children it contains.
	RemoveAll(path string) error

	// Rename renames oldpath to newpath.
	Rename(oldpath, newpath string) error

	// Chmod changes the mode of the named file.
	Chmod(path string, mode os.FileMode) error

	// CreateTemp creates a temporary file in dir with the given pattern.
	// Returns the temp file path and a writer; the caller must Close it.
	CreateTemp(dir, pattern string) (string, io.WriteCloser, error)

	// WalkDir walks the tree rooted at root in lexical order, calling fn
	// for each entry including root. Symlinks are reported, not followed.
	WalkDir(root string, fn iofs.WalkDirFunc) error
}

// RealFS implements FS using the actual operating system.
// This is the production implementation.
type RealFS struct{}

// ReadFile reads the entire file at path.
func (r *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to the file at path with permissions.
func (r *RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// MkdirAll creates all directories in the path.
func (r *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Stat returns file info for the given path.
func (r *RealFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Lstat returns file info for the given path without following symlinks.
func (r *RealFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// Remove removes the file or directory at path.
func (r *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll removes path and any children it contains.
func (r *RealFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename renames oldpath to newpath.
func (r *RealFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Chmod changes the mode of the named file.
func (r *RealFS) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

// CreateTemp creates a temporary file in dir with the given pattern.
func (r *RealFS) CreateTemp(dir, pattern string) (string, io.WriteCloser, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", nil, err
	}
	return f.Name(), f, nil
}

// WalkDir walks the tree rooted at root.
func (r *RealFS) WalkDir(root string, fn iofs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// Default is the default RealFS instance for convenience.
var Default = &RealFS{}

// Exists reports whether path exists without following a final symlink.
// Errors other than not-exist are returned so callers never mistake an
// unreadable path for a free one.
func Exists(fsys FS, path string) (bool, error) {
	_, err := fsys.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
