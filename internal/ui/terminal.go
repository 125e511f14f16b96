package ui

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

// ShouldPrompt reports whether a command may ask the user for input. needed
// says whether there is anything to ask for at all.
func ShouldPrompt(cmd *cobra.Command, needed bool) bool {
	if !needed || !IsInteractive() {
		return false
	}
	noInteractive, err := cmd.Flags().GetBool("no-interactive")
	if err != nil {
		return true
	}
	return !noInteractive
}

// ConfigureOutput sets up colours and the default logger. Logs go to stderr
// so that command output stays pipeable.
func ConfigureOutput(verbose, quiet, noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "pgen",
		ReportTimestamp: false,
	})
	if noColor {
		logger.SetColorProfile(termenv.Ascii)
	}

	switch {
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	case verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}

	log.SetDefault(logger)
}
