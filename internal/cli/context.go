package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artisanexperiences/pgen/internal/config"
	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/fs"
	"github.com/artisanexperiences/pgen/internal/project"
)

// RunContext carries what every command needs: the filesystem, the global
// configuration, and the flags shared by all commands.
type RunContext struct {
	FS      fs.FS
	Config  *config.GlobalConfig
	Manager *project.Manager

	DryRun        bool
	Verbose       bool
	Quiet         bool
	NoInteractive bool
}

// loadConfig is swapped in tests.
var loadConfig = config.LoadGlobalOrDefault

func OpenRunContext(cmd *cobra.Command) (*RunContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	return newRunContext(cmd, fs.Default, cfg), nil
}

func newRunContext(cmd *cobra.Command, fsys fs.FS, cfg *config.GlobalConfig) *RunContext {
	return &RunContext{
		FS:            fsys,
		Config:        cfg,
		Manager:       project.NewManager(fsys, cfg),
		DryRun:        mustGetBool(cmd, "dry-run"),
		Verbose:       mustGetBool(cmd, "verbose"),
		Quiet:         mustGetBool(cmd, "quiet"),
		NoInteractive: mustGetBool(cmd, "no-interactive"),
	}
}

// requireArgs accepts exactly the named positional arguments and reports a
// usage error naming the first one missing.
func requireArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < len(names) {
			return pgerrors.New(pgerrors.EUsage, fmt.Sprintf("missing argument %s (see '%s --help')", names[len(args)], cmd.CommandPath()))
		}
		if len(args) > len(names) {
			return pgerrors.New(pgerrors.EUsage, fmt.Sprintf("unexpected argument %q", args[len(names)]))
		}
		return nil
	}
}
