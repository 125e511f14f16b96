package cli

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artisanexperiences/pgen/internal/capture"
	"github.com/artisanexperiences/pgen/internal/config"
	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/fs"
	"github.com/artisanexperiences/pgen/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Setup global configuration",
	Long: `Sets up the global pgen.yaml configuration file.

The file lives in the XDG config directory (usually ~/.config/pgen) and
holds the default template format, strict mode, capture excludes, the git
ignore setting and the interactive prompt setting. Variable defaults can be added to it by hand
under generate.defaults.`,
	Args: requireArgs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd, fs.Default)
	},
}

func runInstall(cmd *cobra.Command, fsys fs.FS) error {
	title := ui.HeaderStyle.Render("pgen Installation")

	configDir, err := config.GetGlobalConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}
	configPath := filepath.Join(configDir, config.ConfigFileName+"."+config.ConfigFileType)

	exists, err := fs.Exists(fsys, configPath)
	if err != nil {
		return pgerrors.WrapPath(pgerrors.EInputUnreadable, "cannot inspect global config", configPath, err)
	}
	if exists && !mustGetBool(cmd, "force") {
		overwrite := false
		if ui.ShouldPrompt(cmd, true) {
			overwrite, err = ui.Confirm(fmt.Sprintf("%s already exists. Overwrite it?", configPath))
			if err != nil {
				return err
			}
		}
		if !overwrite {
			return pgerrors.NewPath(pgerrors.EDestinationConflict, "global config already exists (use --force to overwrite)", configPath)
		}
	}

	globalCfg := config.Default()
	globalCfg.DefaultFormat = strings.ToLower(mustGetString(cmd, "format"))
	globalCfg.Strict = mustGetBool(cmd, "strict")
	globalCfg.Generate.Prompt = mustGetBool(cmd, "prompt")
	globalCfg.Capture.Exclude = mustGetStringSlice(cmd, "exclude")
	globalCfg.Capture.GitIgnore = mustGetBool(cmd, "gitignore")

	if err := config.ValidateFormat(globalCfg.DefaultFormat); err != nil {
		return pgerrors.Wrap(pgerrors.EUsage, "invalid --format", err)
	}
	if err := capture.ValidatePatterns(globalCfg.Capture.Exclude); err != nil {
		return err
	}

	if mustGetBool(cmd, "dry-run") {
		ui.PrintInfo(fmt.Sprintf("[DRY RUN] Would write %s", configPath))
		return nil
	}

	if _, err := config.CreateGlobalConfig(globalCfg); err != nil {
		return fmt.Errorf("saving global config: %w", err)
	}

	if mustGetBool(cmd, "quiet") {
		return nil
	}

	rows := [][]string{
		{"default_format", globalCfg.DefaultFormat},
		{"strict", strconv.FormatBool(globalCfg.Strict)},
		{"capture.exclude", strings.Join(globalCfg.Capture.Exclude, ", ")},
		{"capture.gitignore", strconv.FormatBool(globalCfg.Capture.GitIgnore)},
		{"generate.prompt", strconv.FormatBool(globalCfg.Generate.Prompt)},
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Platform: %s\n", runtime.GOOS)
	fmt.Fprintf(out, "Config: %s\n", configPath)
	fmt.Fprintln(out, ui.RenderTable([]string{"SETTING", "VALUE"}, rows))
	ui.PrintDone("Configuration saved")
	ui.PrintInfo("Run `pgen capture <dir> -o template.yaml` to get started")

	return nil
}

func init() {
	installCmd.Flags().String("format", config.FormatYAML, "Default template format (yaml, json, toml)")
	installCmd.Flags().Bool("strict", false, "Fail generation when a placeholder has no definition")
	installCmd.Flags().Bool("prompt", false, "Ask for undefined variables when generating")
	installCmd.Flags().StringSlice("exclude", []string{".git"}, "Base-name globs skipped by capture")
	installCmd.Flags().Bool("gitignore", false, "Skip git-ignored paths when capturing")
	installCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(installCmd)
}
