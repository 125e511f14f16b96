package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/project"
	"github.com/artisanexperiences/pgen/internal/ui"
)

var captureCmd = &cobra.Command{
	Use:     "capture DIRECTORY",
	Aliases: []string{"fd"},
	Short:   "Capture a directory as a template",
	Long: `Captures every directory and text file under DIRECTORY into a template file.

Directory names, file names and file contents are stored as-is, so any
{@ name @} placeholders they contain become template variables. Symlinks
and special files are rejected; use --exclude to skip them. With --gitignore,
paths ignored by git in DIRECTORY are skipped too.

The output format follows the file extension (.yaml, .yml, .json, .toml),
falling back to the configured default format.`,
	Args: requireArgs("DIRECTORY"),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := OpenRunContext(cmd)
		if err != nil {
			return err
		}
		return runCapture(cmd, rc, args[0])
	},
}

func runCapture(cmd *cobra.Command, rc *RunContext, source string) error {
	output := mustGetString(cmd, "output")
	if output == "" {
		return pgerrors.New(pgerrors.EUsage, "an output file is required (--output)")
	}

	req := project.CaptureRequest{
		Source:  source,
		Output:  output,
		Force:   mustGetBool(cmd, "force"),
		Exclude: mustGetStringSlice(cmd, "exclude"),
		DryRun:  rc.DryRun,

		GitIgnore: mustGetBool(cmd, "gitignore"),
	}

	var result *project.CaptureResult
	run := func() error {
		var err error
		result, err = rc.Manager.Capture(req)
		return err
	}

	var err error
	if rc.Quiet {
		err = run()
	} else {
		err = ui.RunWithSpinner(fmt.Sprintf("Capturing %s...", source), run)
	}
	if err != nil {
		return err
	}

	if rc.Quiet {
		return nil
	}

	tmpl := result.Template
	if rc.DryRun {
		ui.PrintInfo(fmt.Sprintf("[DRY RUN] Would write %s template to %s", result.Format, result.Output))
	} else {
		ui.PrintSuccess(fmt.Sprintf("Wrote %s template to %s", result.Format, result.Output))
	}
	ui.PrintInfo(fmt.Sprintf("%d directories, %d files", len(tmpl.Directories), len(tmpl.Files)))
	if len(tmpl.Variables) > 0 {
		ui.PrintInfo(fmt.Sprintf("Variables: %s", joinNames(tmpl.Variables)))
	}
	if rc.Verbose {
		rows := make([][]string, 0, len(tmpl.Files))
		for _, f := range tmpl.Files {
			rows = append(rows, []string{f.Path, fmt.Sprintf("%d", len(f.Content))})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTable([]string{"PATH", "BYTES"}, rows))
	}

	return nil
}

func init() {
	captureCmd.Flags().StringP("output", "o", "", "Template file to write")
	captureCmd.Flags().BoolP("force", "f", false, "Overwrite the output file if it exists")
	captureCmd.Flags().StringSlice("exclude", nil, "Base-name glob to skip (repeatable)")
	captureCmd.Flags().Bool("gitignore", false, "Skip paths ignored by git")
	rootCmd.AddCommand(captureCmd)
}
