package fs

import (
	"bytes"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockFileInfo implements os.FileInfo for mock files.
type MockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (m *MockFileInfo) Name() string       { return m.name }
func (m *MockFileInfo) Size() int64        { return m.size }
func (m *MockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *MockFileInfo) ModTime() time.Time { return m.modTime }
func (m *MockFileInfo) IsDir() bool        { return m.isDir }
func (m *MockFileInfo) Sys() interface{}   { return nil }

type mockDirEntry struct {
	info *MockFileInfo
}

func (d mockDirEntry) Name() string               { return d.info.name }
func (d mockDirEntry) IsDir() bool                { return d.info.isDir }
func (d mockDirEntry) Type() os.FileMode          { return d.info.mode.Type() }
func (d mockDirEntry) Info() (os.FileInfo, error) { return d.info, nil }
func (d mockDirEntry) String() string             { return iofs.FormatDirEntry(d) }

// Operation names accepted by FailOn.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpMkdir  = "mkdir"
	OpLstat  = "lstat"
	OpRemove = "remove"
	OpRename = "rename"
	OpWalk   = "walk"
)

// MockFS implements FS using an in-memory file system for testing.
type MockFS struct {
	mu       sync.RWMutex
	files    map[string][]byte
	perms    map[string]os.FileMode
	dirs     map[string]bool
	symlinks map[string]string
	special  map[string]os.FileMode
	failures map[string]error
	tempID   int
}

// NewMockFS creates a new MockFS with empty storage.
func NewMockFS() *MockFS {
	m := &MockFS{}
	m.reset()
	return m
}

func (m *MockFS) reset() {
	m.files = make(map[string][]byte)
	m.perms = make(map[string]os.FileMode)
	m.dirs = make(map[string]bool)
	m.symlinks = make(map[string]string)
	m.special = make(map[string]os.FileMode)
	m.failures = make(map[string]error)
	m.tempID = 0
}

func failureKey(op, path string) string {
	return op + "\x00" + filepath.Clean(path)
}

// FailOn makes the given operation on path return err. A nil err clears
// a previously registered failure.
func (m *MockFS) FailOn(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, failureKey(op, path))
		return
	}
	m.failures[failureKey(op, path)] = err
}

func (m *MockFS) failure(op, path string) error {
	if err, ok := m.failures[failureKey(op, path)]; ok {
		return &os.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func notExist(op, path string) error {
	return &os.PathError{Op: op, Path: path, Err: os.ErrNotExist}
}

// addDirLocked records path and every ancestor as a directory.
func (m *MockFS) addDirLocked(path string) error {
	for dir := path; dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; ok {
			return &os.PathError{Op: "mkdir", Path: dir, Err: errors.New("not a directory")}
		}
		m.dirs[dir] = true
	}
	return nil
}

// ReadFile reads the file at path from memory.
func (m *MockFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure(OpRead, path); err != nil {
		return nil, err
	}

	data, ok := m.files[m.resolveLocked(filepath.Clean(path))]
	if !ok {
		return nil, notExist("read", path)
	}
	// Return a copy to prevent external modification
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// WriteFile writes data to the file at path in memory.
// Parent directories are created automatically.
func (m *MockFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpWrite, path); err != nil {
		return err
	}

	cleanPath := filepath.Clean(path)
	if m.dirs[cleanPath] {
		return &os.PathError{Op: "write", Path: path, Err: errors.New("is a directory")}
	}
	if err := m.addDirLocked(filepath.Dir(cleanPath)); err != nil {
		return err
	}

	m.files[cleanPath] = make([]byte, len(data))
	copy(m.files[cleanPath], data)
	m.perms[cleanPath] = perm

	return nil
}

// MkdirAll creates all directories in the path.
func (m *MockFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpMkdir, path); err != nil {
		return err
	}
	return m.addDirLocked(filepath.Clean(path))
}

// resolveLocked follows a single symlink hop.
func (m *MockFS) resolveLocked(path string) string {
	target, ok := m.symlinks[path]
	if !ok {
		return path
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target)
}

func (m *MockFS) lstatLocked(cleanPath string) (*MockFileInfo, bool) {
	name := filepath.Base(cleanPath)

	if data, ok := m.files[cleanPath]; ok {
		perm := m.perms[cleanPath]
		if perm == 0 {
			perm = 0644
		}
		return &MockFileInfo{name: name, size: int64(len(data)), mode: perm, modTime: time.Now()}, true
	}

	if m.dirs[cleanPath] || cleanPath == "." {
		return &MockFileInfo{name: name, mode: 0755 | os.ModeDir, modTime: time.Now(), isDir: true}, true
	}

	if target, ok := m.symlinks[cleanPath]; ok {
		return &MockFileInfo{name: name, size: int64(len(target)), mode: 0777 | os.ModeSymlink, modTime: time.Now()}, true
	}

	if mode, ok := m.special[cleanPath]; ok {
		return &MockFileInfo{name: name, mode: mode, modTime: time.Now()}, true
	}

	return nil, false
}

// Stat returns file info for the given path, following symlinks.
func (m *MockFS) Stat(path string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.lstatLocked(m.resolveLocked(filepath.Clean(path)))
	if !ok {
		return nil, notExist("stat", path)
	}
	return info, nil
}

// Lstat returns file info for the given path without following symlinks.
func (m *MockFS) Lstat(path string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure(OpLstat, path); err != nil {
		return nil, err
	}

	info, ok := m.lstatLocked(filepath.Clean(path))
	if !ok {
		return nil, notExist("lstat", path)
	}
	return info, nil
}

// Remove removes the file or directory at path.
func (m *MockFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpRemove, path); err != nil {
		return err
	}

	cleanPath := filepath.Clean(path)
	delete(m.files, cleanPath)
	delete(m.perms, cleanPath)
	delete(m.dirs, cleanPath)
	delete(m.symlinks, cleanPath)
	delete(m.special, cleanPath)
	return nil
}

// RemoveAll removes path and everything below it.
func (m *MockFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpRemove, path); err != nil {
		return err
	}

	cleanPath := filepath.Clean(path)
	prefix := cleanPath + string(filepath.Separator)
	under := func(p string) bool {
		return p == cleanPath || strings.HasPrefix(p, prefix)
	}

	for p := range m.files {
		if under(p) {
			delete(m.files, p)
			delete(m.perms, p)
		}
	}
	for p := range m.dirs {
		if under(p) {
			delete(m.dirs, p)
		}
	}
	for p := range m.symlinks {
		if under(p) {
			delete(m.symlinks, p)
		}
	}
	for p := range m.special {
		if under(p) {
			delete(m.special, p)
		}
	}
	return nil
}

// Rename renames oldpath to newpath.
func (m *MockFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpRename, oldpath); err != nil {
		return err
	}

	cleanOld := filepath.Clean(oldpath)
	cleanNew := filepath.Clean(newpath)

	data, ok := m.files[cleanOld]
	if !ok {
		return notExist("rename", oldpath)
	}

	perm := m.perms[cleanOld]
	m.files[cleanNew] = data
	m.perms[cleanNew] = perm
	delete(m.files, cleanOld)
	delete(m.perms, cleanOld)

	return nil
}

// Chmod changes the mode of the named file.
func (m *MockFS) Chmod(path string, mode os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cleanPath := filepath.Clean(path)
	if _, ok := m.files[cleanPath]; ok {
		m.perms[cleanPath] = mode
		return nil
	}
	return notExist("chmod", path)
}

type mockTempFile struct {
	m    *MockFS
	path string
	buf  bytes.Buffer
}

func (f *mockTempFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *mockTempFile) Close() error {
	return f.m.WriteFile(f.path, f.buf.Bytes(), 0600)
}

// CreateTemp creates a temporary file in memory. Content becomes visible
// when the returned writer is closed.
func (m *MockFS) CreateTemp(dir, pattern string) (string, io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpWrite, dir); err != nil {
		return "", nil, err
	}

	m.tempID++
	name := strings.Replace(pattern, "*", strconv.Itoa(m.tempID), 1)
	if !strings.Contains(pattern, "*") {
		name = pattern + strconv.Itoa(m.tempID)
	}
	tempPath := filepath.Join(dir, name)

	m.files[tempPath] = []byte{}
	m.perms[tempPath] = 0600

	return tempPath, &mockTempFile{m: m, path: tempPath}, nil
}

// childrenLocked returns the direct children of dir sorted by name.
func (m *MockFS) childrenLocked(dir string) []string {
	seen := make(map[string]bool)
	collect := func(p string) {
		if p != dir && filepath.Dir(p) == dir {
			seen[p] = true
		}
	}
	for p := range m.files {
		collect(p)
	}
	for p := range m.dirs {
		collect(p)
	}
	for p := range m.symlinks {
		collect(p)
	}
	for p := range m.special {
		collect(p)
	}

	children := make([]string, 0, len(seen))
	for p := range seen {
		children = append(children, p)
	}
	sort.Slice(children, func(i, j int) bool {
		return filepath.Base(children[i]) < filepath.Base(children[j])
	})
	return children
}

type walkNode struct {
	path     string
	info     *MockFileInfo
	walkErr  error
	children []string
}

// WalkDir walks the in-memory tree rooted at root in lexical order.
// The tree is snapshotted first so fn may call back into the MockFS.
func (m *MockFS) WalkDir(root string, fn iofs.WalkDirFunc) error {
	root = filepath.Clean(root)

	m.mu.RLock()
	nodes := make(map[string]*walkNode)
	var snapshot func(p string)
	snapshot = func(p string) {
		info, _ := m.lstatLocked(p)
		node := &walkNode{path: p, info: info, walkErr: m.failure(OpWalk, p)}
		if info.isDir {
			node.children = m.childrenLocked(p)
			for _, c := range node.children {
				snapshot(c)
			}
		}
		nodes[p] = node
	}
	_, rootOK := m.lstatLocked(root)
	if rootOK {
		snapshot(root)
	}
	m.mu.RUnlock()

	if !rootOK {
		return fn(root, nil, notExist("lstat", root))
	}

	err := m.walk(nodes, nodes[root], fn)
	if err == filepath.SkipDir || err == filepath.SkipAll {
		return nil
	}
	return err
}

func (m *MockFS) walk(nodes map[string]*walkNode, node *walkNode, fn iofs.WalkDirFunc) error {
	entry := mockDirEntry{info: node.info}
	if err := fn(node.path, entry, nil); err != nil || !node.info.isDir {
		if err == filepath.SkipDir && node.info.isDir {
			return nil
		}
		return err
	}

	if node.walkErr != nil {
		if err := fn(node.path, entry, node.walkErr); err != nil {
			if err == filepath.SkipDir {
				return nil
			}
			return err
		}
		return nil
	}

	for _, child := range node.children {
		if err := m.walk(nodes, nodes[child], fn); err != nil {
			// SkipDir from a file skips its remaining siblings
			if err == filepath.SkipDir {
				return nil
			}
			return err
		}
	}
	return nil
}

// AddFile adds a file with content to the mock FS for testing.
func (m *MockFS) AddFile(path string, content []byte, perm os.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cleanPath := filepath.Clean(path)
	_ = m.addDirLocked(filepath.Dir(cleanPath))
	m.files[cleanPath] = make([]byte, len(content))
	copy(m.files[cleanPath], content)
	m.perms[cleanPath] = perm
}

// AddDir adds a directory to the mock FS for testing.
func (m *MockFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.addDirLocked(filepath.Clean(path))
}

// AddSymlink adds a symlink at path pointing to target.
func (m *MockFS) AddSymlink(path, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cleanPath := filepath.Clean(path)
	_ = m.addDirLocked(filepath.Dir(cleanPath))
	m.symlinks[cleanPath] = target
}

// AddSpecial adds a non-regular, non-directory entry such as a named pipe.
func (m *MockFS) AddSpecial(path string, mode os.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cleanPath := filepath.Clean(path)
	_ = m.addDirLocked(filepath.Dir(cleanPath))
	m.special[cleanPath] = mode
}

// FileExists checks if a file exists in the mock FS.
func (m *MockFS) FileExists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// DirExists checks if a directory exists in the mock FS.
func (m *MockFS) DirExists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[filepath.Clean(path)]
}

// Reset clears all files and directories from the mock FS.
func (m *MockFS) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}
