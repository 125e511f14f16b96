package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner runs fn while showing a spinner with the given title.
// Without a terminal fn simply runs.
func RunWithSpinner(title string, fn func() error) error {
	if !IsInteractive() {
		return fn()
	}

	var fnErr error
	if err := spinner.New().
		Title(title).
		Action(func() { fnErr = fn() }).
		Run(); err != nil {
		return err
	}
	return fnErr
}

// IsAbort reports whether err comes from the user cancelling a prompt.
func IsAbort(err error) bool {
	return errors.Is(err, huh.ErrUserAborted) || errors.Is(err, ErrAborted)
}

// ErrAborted is returned when the user cancels an interactive prompt.
var ErrAborted = errors.New("aborted by user")

// NormalizeAbort maps huh's abort error to ErrAborted and leaves any other
// error untouched.
func NormalizeAbort(err error) error {
	if IsAbort(err) {
		return ErrAborted
	}
	return err
}
