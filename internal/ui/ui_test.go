package ui

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(prevOut, prevErr) })
	return &out, &errOut
}

func TestPrintHelpers(t *testing.T) {
	out, errOut := captureOutput(t)

	PrintSuccess("captured 3 files")
	PrintInfo("using template.yaml")
	PrintStep("rendering")
	PrintDone("project ready")
	PrintWarning("variable has no definition")
	PrintWarningWithHint("placeholders left unresolved", "add them to the definitions file")
	PrintErrorWithHint("generation failed", "check the definitions file")
	PrintError("plain failure")

	stdoutText := out.String()
	assert.Contains(t, stdoutText, "captured 3 files")
	assert.Contains(t, stdoutText, "using template.yaml")
	assert.Contains(t, stdoutText, "rendering")
	assert.Contains(t, stdoutText, "DONE")
	assert.NotContains(t, stdoutText, "generation failed")

	stderrText := errOut.String()
	assert.Contains(t, stderrText, "variable has no definition")
	assert.Contains(t, stderrText, "WARN")
	assert.Contains(t, stderrText, "placeholders left unresolved")
	assert.Contains(t, stderrText, "add them to the definitions file")
	assert.Contains(t, stderrText, "ERROR")
	assert.Contains(t, stderrText, "check the definitions file")
	assert.Contains(t, stderrText, "plain failure")
}

func TestIsAbort(t *testing.T) {
	assert.True(t, IsAbort(huh.ErrUserAborted))
	assert.True(t, IsAbort(fmt.Errorf("prompting: %w", huh.ErrUserAborted)))
	assert.True(t, IsAbort(ErrAborted))
	assert.False(t, IsAbort(errors.New("boom")))
	assert.False(t, IsAbort(nil))
}

func TestNormalizeAbort(t *testing.T) {
	assert.Equal(t, ErrAborted, NormalizeAbort(huh.ErrUserAborted))

	other := errors.New("boom")
	assert.Equal(t, other, NormalizeAbort(other))
	assert.NoError(t, NormalizeAbort(nil))
}

func TestShouldPrompt(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("no-interactive", false, "")

	assert.False(t, ShouldPrompt(cmd, false))

	// Tests never run attached to a terminal on both stdin and stdout.
	if !IsInteractive() {
		assert.False(t, ShouldPrompt(cmd, true))
	}
}

func TestRunWithSpinner_NonInteractive(t *testing.T) {
	if IsInteractive() {
		t.Skip("requires a non-interactive session")
	}

	called := false
	err := RunWithSpinner("working", func() error {
		called = true
		return errors.New("failed")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "failed")
}

func TestPromptVariables_NoNames(t *testing.T) {
	answers, err := PromptVariables(nil)
	assert.NoError(t, err)
	assert.Empty(t, answers)
}

func TestRenderStatusTable(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	rendered := RenderStatusTable([][]string{
		{"namespace", StatusDefined, "definitions", "acme"},
		{"year", StatusMissing, "", ""},
	})

	for _, want := range []string{"VARIABLE", "STATUS", "namespace", "acme", "year", StatusMissing} {
		assert.Contains(t, rendered, want)
	}
}

func TestRenderTable(t *testing.T) {
	rendered := RenderTable([]string{"PATH"}, [][]string{{"src/main.go"}})
	assert.Contains(t, rendered, "PATH")
	assert.Contains(t, rendered, "src/main.go")
}
