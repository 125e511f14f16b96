package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artisanexperiences/pgen/internal/fs"
)

// NotEmpty rejects targets whose path is empty or names the root itself.
type NotEmpty struct{}

// Validate checks that the target names something below the root.
func (NotEmpty) Validate(t Target) error {
	if strings.TrimSpace(t.Rel) == "" || filepath.Clean(filepath.FromSlash(t.Rel)) == "." {
		return errors.New("path is empty")
	}
	return nil
}

// NotAbsolute rejects absolute paths, including volume-qualified ones.
type NotAbsolute struct{}

// Validate checks that the target path is relative.
func (NotAbsolute) Validate(t Target) error {
	if isAbsolute(t.Rel) {
		return errors.New("path is absolute")
	}
	return nil
}

// WithinRoot rejects relative paths that climb out of the root.
type WithinRoot struct{}

// Validate checks that the target resolves inside the root.
func (WithinRoot) Validate(t Target) error {
	if t.Rel == "" || isAbsolute(t.Rel) {
		return nil // Reported by NotEmpty and NotAbsolute
	}
	if !filepath.IsLocal(filepath.FromSlash(t.Rel)) {
		return errors.New("path escapes the destination root")
	}
	return nil
}

// NoSymlink rejects a target that is, or sits below, an existing symlink.
// Every existing component between the root and the target is checked.
type NoSymlink struct {
	FS fs.FS
}

// Validate walks the target's components from the root downwards.
func (n NoSymlink) Validate(t Target) error {
	if t.Rel == "" || isAbsolute(t.Rel) || !filepath.IsLocal(filepath.FromSlash(t.Rel)) {
		return nil
	}

	current := t.Root
	for _, part := range strings.Split(filepath.Clean(filepath.FromSlash(t.Rel)), string(filepath.Separator)) {
		current = filepath.Join(current, part)

		info, err := n.FS.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("cannot inspect %q: %w", current, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%q is a symlink", current)
		}
	}
	return nil
}

// NotExisting rejects file targets that are already present on disk.
// Directory targets are created idempotently and always pass.
type NotExisting struct {
	FS fs.FS
}

// Validate checks that a file target does not exist yet.
func (n NotExisting) Validate(t Target) error {
	if t.Kind != KindFile || t.Rel == "" || isAbsolute(t.Rel) {
		return nil
	}

	exists, err := fs.Exists(n.FS, t.Path())
	if err != nil {
		return fmt.Errorf("cannot inspect %q: %w", t.Path(), err)
	}
	if exists {
		return fmt.Errorf("%q already exists", t.Path())
	}
	return nil
}

// NewDirectoryValidator creates the validator applied to rendered directories.
func NewDirectoryValidator(fsys fs.FS) *Validator {
	return NewValidator("directory").
		AddRule(NotEmpty{}).
		AddRule(NotAbsolute{}).
		AddRule(WithinRoot{}).
		AddRule(NoSymlink{FS: fsys})
}

// NewFileValidator creates the validator applied to rendered files.
func NewFileValidator(fsys fs.FS) *Validator {
	return NewValidator("file").
		AddRule(NotEmpty{}).
		AddRule(NotAbsolute{}).
		AddRule(WithinRoot{}).
		AddRule(NoSymlink{FS: fsys}).
		AddRule(NotExisting{FS: fsys})
}

func isAbsolute(rel string) bool {
	return strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, `\`) ||
		filepath.IsAbs(rel) || filepath.VolumeName(rel) != ""
}
