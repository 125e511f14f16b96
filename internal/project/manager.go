// Package project orchestrates capturing directories into templates and
// generating projects from them.
package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/artisanexperiences/pgen/internal/capture"
	"github.com/artisanexperiences/pgen/internal/config"
	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/fs"
	"github.com/artisanexperiences/pgen/internal/git"
	"github.com/artisanexperiences/pgen/internal/materialize"
	"github.com/artisanexperiences/pgen/internal/template"
)

// PromptFunc asks for values of the named variables. It may return a
// partial set; anything left out stays unresolved.
type PromptFunc func(missing []string) (template.Definitions, error)

// Manager runs the capture and generate flows against a filesystem.
type Manager struct {
	fs  fs.FS
	cfg *config.GlobalConfig
}

// NewManager creates a Manager. A nil cfg uses the built-in defaults.
func NewManager(fsys fs.FS, cfg *config.GlobalConfig) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Manager{fs: fsys, cfg: cfg}
}

// CaptureRequest describes a capture run.
type CaptureRequest struct {
	Source  string
	Output  string
	Force   bool
	Exclude []string
	DryRun  bool

	// GitIgnore skips paths that git ignores in Source.
	GitIgnore bool
}

// CaptureResult describes the captured template and where it went.
type CaptureResult struct {
	Output   string
	Format   template.Format
	Template *template.ProjectTemplate
	Written  bool
}

// Capture records Source as a template and writes it to Output.
func (m *Manager) Capture(req CaptureRequest) (*CaptureResult, error) {
	exists, err := fs.Exists(m.fs, req.Output)
	if err != nil {
		return nil, pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot inspect output path", req.Output, err)
	}
	if exists && !req.Force {
		return nil, pgerrors.NewPath(pgerrors.EDestinationConflict, "output already exists (use --force to overwrite)", req.Output)
	}

	format := template.FormatFromPath(req.Output, m.defaultFormat())
	if format == template.FormatEnv {
		return nil, pgerrors.NewPath(pgerrors.EUsage, "templates cannot be written in dotenv format", req.Output)
	}

	exclude := append(append([]string(nil), m.cfg.Capture.Exclude...), req.Exclude...)
	ignored, err := m.ignoredPaths(req)
	if err != nil {
		return nil, err
	}
	tmpl, err := capture.New(m.fs, capture.Options{Exclude: exclude, Ignored: ignored}).Capture(req.Source)
	if err != nil {
		return nil, err
	}

	data, err := template.EncodeTemplate(tmpl, format)
	if err != nil {
		return nil, pgerrors.WrapPath(pgerrors.ESerialization, "cannot encode template", req.Output, err)
	}

	result := &CaptureResult{Output: req.Output, Format: format, Template: tmpl}
	if req.DryRun {
		return result, nil
	}

	if dir := filepath.Dir(req.Output); dir != "." {
		if err := m.fs.MkdirAll(dir, 0755); err != nil {
			return nil, pgerrors.WrapPath(pgerrors.EWriteFailure, "cannot create output directory", dir, err)
		}
	}
	if err := fs.WriteFileAtomic(m.fs, req.Output, data, 0644); err != nil {
		return nil, pgerrors.WrapPath(pgerrors.EWriteFailure, "cannot write template", req.Output, err)
	}
	log.Debug("template written", "path", req.Output, "format", format, "files", len(tmpl.Files))

	result.Written = true
	return result, nil
}

// ignoredPaths asks git for the ignored paths under req.Source when the
// request or the global config turns ignore rules on.
func (m *Manager) ignoredPaths(req CaptureRequest) ([]string, error) {
	if !req.GitIgnore && !m.cfg.Capture.GitIgnore {
		return nil, nil
	}
	if info, err := m.fs.Stat(req.Source); err != nil || !info.IsDir() {
		// capture reports the problem
		return nil, nil
	}

	if !git.IsWorkTree(req.Source) {
		if req.GitIgnore {
			return nil, pgerrors.NewPath(pgerrors.EUsage, "--gitignore needs a source inside a git work tree", req.Source)
		}
		log.Debug("source is not a git work tree, ignore rules not applied", "path", req.Source)
		return nil, nil
	}

	paths, err := git.IgnoredPaths(req.Source)
	if err != nil {
		return nil, pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot list git-ignored paths", req.Source, err)
	}
	log.Debug("applying git ignore rules", "path", req.Source, "ignored", len(paths))
	return paths, nil
}

// GenerateRequest describes a generate run.
type GenerateRequest struct {
	Root            string
	TemplatePath    string
	DefinitionsPath string
	Strict          bool
	DryRun          bool
	Prompt          PromptFunc
}

// GenerateResult describes a generated project.
type GenerateResult struct {
	Root        string
	Definitions template.Definitions
	Unresolved  []string
	Collisions  []string
	Written     *materialize.Result
}

// Generate renders the template at TemplatePath with the definitions at
// DefinitionsPath and writes the result under Root. Root must not exist.
// If writing fails partway, the partial root is removed along with any
// parent directories created for it.
func (m *Manager) Generate(req GenerateRequest) (*GenerateResult, error) {
	exists, err := fs.Exists(m.fs, req.Root)
	if err != nil {
		return nil, pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot inspect destination root", req.Root, err)
	}
	if exists {
		return nil, pgerrors.NewPath(pgerrors.EDestinationConflict, "destination root already exists", req.Root)
	}

	tmpl, err := m.ReadTemplate(req.TemplatePath)
	if err != nil {
		return nil, err
	}
	defs, err := m.resolveDefinitions(req.DefinitionsPath)
	if err != nil {
		return nil, err
	}

	missing := tmpl.Missing(defs)
	if len(missing) > 0 && req.Prompt != nil {
		answers, err := req.Prompt(missing)
		if err != nil {
			return nil, err
		}
		defs = template.Merge(defs, answers)
		missing = tmpl.Missing(defs)
	}

	if len(missing) > 0 {
		if req.Strict || m.cfg.Strict {
			return nil, pgerrors.New(pgerrors.EUnresolvedVariables, "no definition for "+strings.Join(missing, ", "))
		}
		for _, name := range missing {
			log.Warn("variable has no definition, placeholder left as-is", "name", name)
		}
	}

	collisions := template.Collisions(tmpl, defs)
	for _, path := range collisions {
		log.Warn("several template files render to the same path, the last one wins", "path", path)
	}

	rendered := template.Render(tmpl, defs)

	mat := materialize.New(m.fs, materialize.Options{DryRun: req.DryRun})
	written, err := mat.Materialize(req.Root, rendered)
	if err != nil {
		if pgerrors.HasCode(err, pgerrors.EWriteFailure) {
			if cleanupErr := mat.Rollback(); cleanupErr != nil {
				return nil, errors.Join(err, cleanupErr)
			}
		}
		return nil, err
	}

	return &GenerateResult{
		Root:        req.Root,
		Definitions: defs,
		Unresolved:  missing,
		Collisions:  collisions,
		Written:     written,
	}, nil
}

// VariableStatus describes one variable referenced by a template.
type VariableStatus struct {
	Name     string
	Value    string
	Defined  bool
	Declared bool
	Source   string
}

// Inspection summarises a template's variables against a definitions file.
type Inspection struct {
	Template  *template.ProjectTemplate
	Variables []VariableStatus
	Missing   []string
}

// Variable sources reported by Inspect.
const (
	SourceDefinitions = "definitions"
	SourceConfig      = "config"
)

// Inspect lists every variable the template references and where its value
// would come from. defsPath may be empty.
func (m *Manager) Inspect(templatePath, defsPath string) (*Inspection, error) {
	tmpl, err := m.ReadTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	fileDefs := template.Definitions{}
	if defsPath != "" {
		fileDefs, err = m.ReadDefinitions(defsPath)
		if err != nil {
			return nil, err
		}
	}

	declared := make(map[string]bool, len(tmpl.Variables))
	for _, v := range tmpl.Variables {
		declared[v] = true
	}

	inspection := &Inspection{Template: tmpl}
	for _, name := range tmpl.Referenced() {
		status := VariableStatus{Name: name, Declared: declared[name]}
		if v, ok := fileDefs[name]; ok {
			status.Value, status.Defined, status.Source = v, true, SourceDefinitions
		} else if v, ok := m.cfg.Generate.Defaults[name]; ok {
			status.Value, status.Defined, status.Source = v, true, SourceConfig
		} else {
			inspection.Missing = append(inspection.Missing, name)
		}
		inspection.Variables = append(inspection.Variables, status)
	}

	return inspection, nil
}

// ReadTemplate loads and decodes a persisted template.
func (m *Manager) ReadTemplate(path string) (*template.ProjectTemplate, error) {
	data, err := m.readInput(path, "template")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.DecodeTemplate(data, template.FormatFromPath(path, m.defaultFormat()))
	if err != nil {
		return nil, pgerrors.WrapPath(pgerrors.ESerialization, "cannot parse template", path, err)
	}
	return tmpl, nil
}

// ReadDefinitions loads and decodes a definitions file.
func (m *Manager) ReadDefinitions(path string) (template.Definitions, error) {
	data, err := m.readInput(path, "definitions")
	if err != nil {
		return nil, err
	}

	defs, err := template.DecodeDefinitions(data, template.FormatFromPath(path, m.defaultFormat()))
	if err != nil {
		return nil, pgerrors.WrapPath(pgerrors.ESerialization, "cannot parse definitions", path, err)
	}
	return defs, nil
}

// resolveDefinitions layers the definitions file over configured defaults.
func (m *Manager) resolveDefinitions(path string) (template.Definitions, error) {
	fileDefs := template.Definitions{}
	if path != "" {
		var err error
		fileDefs, err = m.ReadDefinitions(path)
		if err != nil {
			return nil, err
		}
	}
	return template.Merge(m.cfg.Generate.Defaults, fileDefs), nil
}

func (m *Manager) readInput(path, what string) ([]byte, error) {
	data, err := m.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pgerrors.NewPath(pgerrors.EInputNotFound, what+" file does not exist", path)
		}
		return nil, pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot read "+what+" file", path, err)
	}
	return data, nil
}

func (m *Manager) defaultFormat() template.Format {
	if m.cfg.DefaultFormat == "" {
		return template.FormatYAML
	}
	return template.Format(m.cfg.DefaultFormat)
}
