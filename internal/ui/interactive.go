package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// PromptVariables asks for a value for each named variable in a single form.
// Empty answers are returned as empty strings.
func PromptVariables(names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	values := make([]string, len(names))
	fields := make([]huh.Field, len(names))
	for i, name := range names {
		fields[i] = huh.NewInput().
			Title(name).
			Description(fmt.Sprintf("Value for {@ %s @}", name)).
			Value(&values[i])
	}

	form := huh.NewForm(
		huh.NewGroup(fields...).
			Title("Undefined variables").
			Description("These placeholders have no definition"),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return nil, NormalizeAbort(err)
	}

	answers := make(map[string]string, len(names))
	for i, name := range names {
		answers[name] = values[i]
	}
	return answers, nil
}

func Confirm(title string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return false, NormalizeAbort(err)
	}

	return confirmed, nil
}
