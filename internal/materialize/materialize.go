// Package materialize writes a rendered template to disk as a directory tree.
package materialize

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/fs"
	"github.com/artisanexperiences/pgen/internal/materialize/validation"
	"github.com/artisanexperiences/pgen/internal/template"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Options controls how a rendered template is written.
type Options struct {
	// AllowExistingRoot permits writing into a root directory that already
	// exists. Individual files must still be new.
	AllowExistingRoot bool

	// DryRun validates and reports what would be written without touching
	// the filesystem.
	DryRun bool
}

// Result describes what was, or in dry-run mode would be, created.
type Result struct {
	Root        string
	Directories []string
	Files       []string
	DryRun      bool
}

// Materializer writes rendered templates through an FS.
type Materializer struct {
	fs   fs.FS
	opts Options

	// created holds the outermost paths the last Materialize call brought
	// into existence, including missing ancestors of the root.
	created []string
}

// New creates a Materializer.
func New(fsys fs.FS, opts Options) *Materializer {
	return &Materializer{fs: fsys, opts: opts}
}

// Materialize validates every rendered path and then creates root, every
// directory, and every file. Nothing is written unless all paths validate.
// On a write failure the partially written tree is left in place; callers
// decide whether to Rollback.
func (m *Materializer) Materialize(root string, rendered *template.RenderedTemplate) (*Result, error) {
	m.created = nil

	if err := m.checkRoot(root); err != nil {
		return nil, err
	}
	if err := m.Validate(root, rendered); err != nil {
		return nil, err
	}

	dirs := append([]string(nil), rendered.Directories...)
	sort.Strings(dirs)
	files := rendered.SortedFiles()

	result := &Result{Root: root, Directories: dirs, Files: files, DryRun: m.opts.DryRun}
	if m.opts.DryRun {
		return result, nil
	}

	if err := m.mkdirAll(root); err != nil {
		return nil, pgerrors.WrapPath(pgerrors.EWriteFailure, "cannot create destination root", root, err)
	}

	for _, dir := range dirs {
		target := filepath.Join(root, filepath.FromSlash(dir))
		if err := m.mkdirAll(target); err != nil {
			return nil, pgerrors.WrapPath(pgerrors.EWriteFailure, "cannot create directory", target, err)
		}
		log.Debug("created directory", "path", dir)
	}

	for _, file := range files {
		target := filepath.Join(root, filepath.FromSlash(file))
		if err := m.mkdirAll(filepath.Dir(target)); err != nil {
			return nil, pgerrors.WrapPath(pgerrors.EWriteFailure, "cannot create directory", filepath.Dir(target), err)
		}
		m.track(target)
		if err := m.fs.WriteFile(target, []byte(rendered.Files[file]), filePerm); err != nil {
			return nil, pgerrors.WrapPath(pgerrors.EWriteFailure, "cannot write file", target, err)
		}
		log.Debug("wrote file", "path", file)
	}

	return result, nil
}

// Validate checks every rendered directory and file path without writing
// anything. All violations are reported together.
func (m *Materializer) Validate(root string, rendered *template.RenderedTemplate) error {
	dirValidator := validation.NewDirectoryValidator(m.fs)
	fileValidator := validation.NewFileValidator(m.fs)

	var errs []error
	for _, dir := range rendered.Directories {
		target := validation.Target{Root: root, Rel: dir, Kind: validation.KindDirectory}
		if err := dirValidator.Validate(target); err != nil {
			errs = append(errs, err)
		}
	}
	for _, file := range rendered.SortedFiles() {
		target := validation.Target{Root: root, Rel: file, Kind: validation.KindFile}
		if err := fileValidator.Validate(target); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, overlaps(rendered)...)

	if len(errs) > 0 {
		return pgerrors.WrapPath(pgerrors.EUnsafeRenderTarget, "rendered paths are not safe to write", root, errors.Join(errs...))
	}
	return nil
}

func (m *Materializer) checkRoot(root string) error {
	exists, err := fs.Exists(m.fs, root)
	if err != nil {
		return pgerrors.WrapPath(pgerrors.EWriteFailure, "cannot inspect destination root", root, err)
	}
	if !exists {
		return nil
	}

	if !m.opts.AllowExistingRoot {
		return pgerrors.NewPath(pgerrors.EDestinationConflict, "destination root already exists", root)
	}
	if info, err := m.fs.Stat(root); err != nil || !info.IsDir() {
		return pgerrors.NewPath(pgerrors.EDestinationConflict, "destination root exists and is not a directory", root)
	}
	return nil
}

// overlaps reports file paths that are also needed as directories, either
// because a directory entry names them or because another entry lives below
// them.
func overlaps(rendered *template.RenderedTemplate) []error {
	needDir := make(map[string]bool)
	markAncestors := func(p string) {
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			needDir[dir] = true
		}
	}
	for _, dir := range rendered.Directories {
		clean := path.Clean(dir)
		needDir[clean] = true
		markAncestors(clean)
	}
	for file := range rendered.Files {
		markAncestors(path.Clean(file))
	}

	var errs []error
	for _, file := range rendered.SortedFiles() {
		if needDir[path.Clean(file)] {
			errs = append(errs, fmt.Errorf("file %q: path is also required as a directory", file))
		}
	}
	return errs
}

// mkdirAll creates dir and its parents, remembering the outermost one that
// did not exist before.
func (m *Materializer) mkdirAll(dir string) error {
	if !m.covered(dir) {
		base, err := m.missingBase(dir)
		if err != nil {
			return err
		}
		if base != "" {
			m.track(base)
		}
	}
	return m.fs.MkdirAll(dir, dirPerm)
}

// missingBase returns the outermost ancestor of dir, or dir itself, that
// does not exist. It returns "" when dir exists. Filesystem roots are never
// returned.
func (m *Materializer) missingBase(dir string) (string, error) {
	base := ""
	for p := filepath.Clean(dir); filepath.Dir(p) != p; p = filepath.Dir(p) {
		exists, err := fs.Exists(m.fs, p)
		if err != nil {
			return "", err
		}
		if exists {
			break
		}
		base = p
	}
	return base, nil
}

func (m *Materializer) covered(p string) bool {
	for _, c := range m.created {
		if p == c || strings.HasPrefix(p, c+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (m *Materializer) track(p string) {
	if !m.covered(p) {
		m.created = append(m.created, p)
	}
}

// Rollback removes everything the last Materialize call created, newest
// first. Directories that existed beforehand, including parents of the
// root, are left in place.
func (m *Materializer) Rollback() error {
	var errs []error
	for i := len(m.created) - 1; i >= 0; i-- {
		p := m.created[i]
		if err := m.fs.RemoveAll(p); err != nil {
			errs = append(errs, pgerrors.WrapPath(pgerrors.ECleanupFailed, "cannot remove partially generated project", p, err))
			continue
		}
		log.Debug("removed partially generated path", "path", p)
	}
	m.created = nil
	return errors.Join(errs...)
}
