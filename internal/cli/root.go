package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "pgen",
	Short: "Capture directories as templates and generate projects from them",
	Long: `pgen turns an existing directory into a reusable project template and
generates new projects from templates by filling in {@ name @} placeholders.

Placeholders may appear in directory names, file names and file contents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.ConfigureOutput(mustGetBool(cmd, "verbose"), mustGetBool(cmd, "quiet"), noColor)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if noColor || !ui.IsInteractive() {
			return cmd.Help()
		}
		printBanner()
		return nil
	},
}

var noColor bool

func printBanner() {
	// Big block letters for "PGEN" with gradient colors
	blockLetters := [][]string{
		// P
		{
			"██████╗ ",
			"██╔══██╗",
			"██████╔╝",
			"██╔═══╝ ",
			"██║     ",
			"╚═╝     ",
		},
		// G
		{
			" ██████╗ ",
			"██╔════╝ ",
			"██║  ███╗",
			"██║   ██║",
			"╚██████╔╝",
			" ╚═════╝ ",
		},
		// E
		{
			"███████╗",
			"██╔════╝",
			"█████╗  ",
			"██╔══╝  ",
			"███████╗",
			"╚══════╝",
		},
		// N
		{
			"███╗   ██╗",
			"████╗  ██║",
			"██╔██╗ ██║",
			"██║╚██╗██║",
			"██║ ╚████║",
			"╚═╝  ╚═══╝",
		},
	}

	// Gradient colors, one per letter
	colors := []lipgloss.Color{
		lipgloss.Color("#C4B5FD"),
		lipgloss.Color("#A78BFA"),
		lipgloss.Color("#8B5CF6"),
		lipgloss.Color("#7C3AED"),
	}

	// Render each row of the block letters
	for row := 0; row < 6; row++ {
		var lineParts []string
		for letterIdx := 0; letterIdx < len(blockLetters); letterIdx++ {
			style := lipgloss.NewStyle().
				Foreground(colors[letterIdx]).
				Bold(true)
			lineParts = append(lineParts, style.Render(blockLetters[letterIdx][row]))
		}
		fmt.Println(lipgloss.JoinHorizontal(lipgloss.Left, lineParts...))
	}

	versionStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginBottom(1)

	commandsStyle := lipgloss.NewStyle().
		Foreground(ui.Text)

	commands := `
Commands:
  capture   Capture a directory as a template
  generate  Generate a project from a template
  vars      List the variables a template uses
  install   Setup global configuration
  version   Show pgen version

Run 'pgen <command> --help' for more information.`

	versionLine := fmt.Sprintf("Version %s (commit: %s, built: %s)", Version, Commit, BuildDate)
	fmt.Println(versionStyle.Render(versionLine))
	fmt.Println(subtitleStyle.Render("Project templates with {@ placeholders @}"))
	fmt.Println(commandsStyle.Render(commands))
}

// Execute runs the root command. Errors are printed here, so callers only
// need to turn them into an exit status.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if ui.IsAbort(err) {
			ui.PrintInfo("Aborted")
			return nil
		}
		ui.PrintErrorWithHint(err.Error(), hintFor(err))
		return err
	}
	return nil
}

func hintFor(err error) string {
	switch pgerrors.GetCode(err) {
	case pgerrors.EDestinationConflict:
		return "Choose a different destination, or pass --force when capturing"
	case pgerrors.EUnresolvedVariables:
		return "Add the variables to the definitions file, or run with --prompt"
	case pgerrors.ESerialization:
		return "Check the file is valid YAML, JSON, TOML or dotenv"
	case pgerrors.EUnsafeRenderTarget:
		return "Rendered paths must stay inside the destination and must not overwrite anything"
	case pgerrors.EUnsupportedEntry:
		return "Use --exclude to skip symlinks and special files"
	case pgerrors.ECleanupFailed:
		return "The partially generated project could not be removed; delete it manually"
	default:
		return ""
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("dry-run", false, "Preview operations without executing")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Bool("no-interactive", false, "Disable interactive prompts")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return pgerrors.Wrap(pgerrors.EUsage, "invalid flags for "+cmd.CommandPath(), err)
	})
}

func mustGetString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: flag %q not defined: %v", name, err))
	}
	return value
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: flag %q not defined: %v", name, err))
	}
	return value
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	value, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: flag %q not defined: %v", name, err))
	}
	return value
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
