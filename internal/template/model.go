// Package template holds the in-memory project template model, the
// placeholder scanner, the renderer, and the persisted encodings.
package template

import (
	"sort"
)

// TemplateFile is one captured file: a placeholder-bearing relative path and
// placeholder-bearing text content.
type TemplateFile struct {
	Path    string `yaml:"path" json:"path" toml:"path"`
	Content string `yaml:"content" json:"content" toml:"content,multiline"`
}

// ProjectTemplate is a captured or hand-authored project skeleton.
//
// Variables is filled by capture with every name referenced anywhere in the
// template. In hand-authored templates it is advisory only.
type ProjectTemplate struct {
	Variables   []string       `yaml:"variables,omitempty" json:"variables,omitempty" toml:"variables,omitempty"`
	Directories []string       `yaml:"directories,omitempty" json:"directories,omitempty" toml:"directories,omitempty"`
	Files       []TemplateFile `yaml:"files" json:"files" toml:"files"`
}

// Definitions maps variable names to replacement values.
type Definitions map[string]string

// RenderedTemplate is the output of a single Render call. It is consumed
// once by the materializer and never modified.
type RenderedTemplate struct {
	Directories []string
	Files       map[string]string
}

// Referenced returns the sorted names of every placeholder appearing in a
// directory path, file path or file content.
func (t *ProjectTemplate) Referenced() []string {
	texts := make([]string, 0, len(t.Directories)+2*len(t.Files))
	texts = append(texts, t.Directories...)
	for _, f := range t.Files {
		texts = append(texts, f.Path, f.Content)
	}
	return ScanAll(texts...)
}

// Missing returns the sorted names referenced by the template that have no
// entry in defs.
func (t *ProjectTemplate) Missing(defs Definitions) []string {
	var missing []string
	for _, name := range t.Referenced() {
		if _, ok := defs[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Undeclared returns the sorted names referenced by the template but not
// listed in Variables.
func (t *ProjectTemplate) Undeclared() []string {
	declared := make(map[string]bool, len(t.Variables))
	for _, v := range t.Variables {
		declared[v] = true
	}

	var undeclared []string
	for _, name := range t.Referenced() {
		if !declared[name] {
			undeclared = append(undeclared, name)
		}
	}
	return undeclared
}

// SortedFiles returns the rendered file paths in lexical order.
func (r *RenderedTemplate) SortedFiles() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Merge returns a new Definitions with overrides applied on top of base.
func Merge(base, overrides Definitions) Definitions {
	merged := make(Definitions, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
