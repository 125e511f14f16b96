package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects the Print helpers. Nil leaves a stream unchanged.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func PrintSuccess(msg string) {
	fmt.Fprintf(stdout, "%s %s\n", successMark, msg)
}

func PrintInfo(msg string) {
	fmt.Fprintf(stdout, "%s %s\n", infoMark, MutedStyle.Render(msg))
}

func PrintStep(msg string) {
	fmt.Fprintf(stdout, "%s %s\n", stepMark, msg)
}

// PrintDone prints a closing summary line.
func PrintDone(msg string) {
	fmt.Fprintf(stdout, "\n%s %s\n", SuccessBadge.Render("DONE"), msg)
}

func PrintWarning(msg string) {
	fmt.Fprintf(stderr, "%s %s\n", warningMark, warningText.Render(msg))
}

func PrintError(msg string) {
	fmt.Fprintf(stderr, "%s %s\n", errorMark, errorText.Render(msg))
}

// PrintWarningWithHint prints a warning badge, the message, and a muted hint
// underneath.
func PrintWarningWithHint(msg, hint string) {
	fmt.Fprintf(stderr, "%s %s\n", WarningBadge.Render("WARN"), msg)
	if hint != "" {
		fmt.Fprintf(stderr, "  %s\n", MutedStyle.Render(hint))
	}
}

// PrintErrorWithHint prints an error badge, the message, and a muted hint
// underneath.
func PrintErrorWithHint(msg, hint string) {
	fmt.Fprintf(stderr, "%s %s\n", ErrorBadge.Render("ERROR"), msg)
	if hint != "" {
		fmt.Fprintf(stderr, "  %s\n", MutedStyle.Render(hint))
	}
}
