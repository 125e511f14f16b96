// Package capture converts a directory tree into a project template.
package capture

import (
	"bytes"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/fs"
	"github.com/artisanexperiences/pgen/internal/template"
)

// Options controls which entries are captured.
type Options struct {
	// Exclude holds base-name glob patterns. A matching directory is skipped
	// together with its contents.
	Exclude []string

	// Ignored holds slash-separated paths relative to the capture root.
	// An ignored directory is skipped together with its contents.
	Ignored []string
}

// Capturer walks a directory tree and records it as a template.
type Capturer struct {
	fs      fs.FS
	opts    Options
	ignored map[string]bool
}

// New creates a Capturer reading through fsys.
func New(fsys fs.FS, opts Options) *Capturer {
	ignored := make(map[string]bool, len(opts.Ignored))
	for _, p := range opts.Ignored {
		ignored[p] = true
	}
	return &Capturer{fs: fsys, opts: opts, ignored: ignored}
}

// Capture reads every directory and regular file below root. Symlinks and
// special files are rejected rather than skipped.
func (c *Capturer) Capture(root string) (*template.ProjectTemplate, error) {
	if err := ValidatePatterns(c.opts.Exclude); err != nil {
		return nil, err
	}

	info, err := c.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pgerrors.NewPath(pgerrors.EInputNotFound, "source directory does not exist", root)
		}
		return nil, pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot read source directory", root, err)
	}
	if !info.IsDir() {
		return nil, pgerrors.NewPath(pgerrors.EUnsupportedEntry, "source is not a directory", root)
	}

	tmpl := &template.ProjectTemplate{}

	walkErr := c.fs.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot list directory", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return pgerrors.WrapPath(pgerrors.EPathNotRepresentable, "path cannot be made relative to the source", path, err)
		}
		if rel == "." {
			return nil
		}
		if !utf8.ValidString(rel) {
			return pgerrors.NewPath(pgerrors.EPathNotRepresentable, "path is not valid UTF-8", path)
		}
		rel = filepath.ToSlash(rel)

		if c.ignored[rel] || c.excluded(d.Name()) {
			log.Debug("excluding entry", "path", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch mode := d.Type(); {
		case mode.IsDir():
			tmpl.Directories = append(tmpl.Directories, rel)
		case mode.IsRegular():
			content, err := c.readText(path)
			if err != nil {
				return err
			}
			tmpl.Files = append(tmpl.Files, template.TemplateFile{Path: rel, Content: content})
		default:
			return pgerrors.NewPath(pgerrors.EUnsupportedEntry, "unsupported entry type "+describeMode(mode), path)
		}

		log.Debug("captured entry", "path", rel, "dir", d.IsDir())
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(tmpl.Directories)
	sort.Slice(tmpl.Files, func(i, j int) bool {
		return tmpl.Files[i].Path < tmpl.Files[j].Path
	})
	tmpl.Variables = tmpl.Referenced()

	return tmpl, nil
}

func (c *Capturer) readText(path string) (string, error) {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return "", pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot read file", path, err)
	}
	if !utf8.Valid(data) {
		return "", pgerrors.NewPath(pgerrors.EInputUnreadable, "file is not valid UTF-8 text", path)
	}
	return string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))), nil
}

func (c *Capturer) excluded(name string) bool {
	for _, pattern := range c.opts.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed exclude pattern.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return pgerrors.Wrap(pgerrors.EUsage, "invalid exclude pattern "+pattern, err)
		}
	}
	return nil
}

func describeMode(mode iofs.FileMode) string {
	switch {
	case mode&iofs.ModeSymlink != 0:
		return "symlink"
	case mode&iofs.ModeDevice != 0:
		return "device"
	case mode&iofs.ModeNamedPipe != 0:
		return "named pipe"
	case mode&iofs.ModeSocket != 0:
		return "socket"
	default:
		return "irregular file"
	}
}
