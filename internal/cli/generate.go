package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/project"
	"github.com/artisanexperiences/pgen/internal/template"
	"github.com/artisanexperiences/pgen/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:     "generate ROOT",
	Aliases: []string{"gen"},
	Short:   "Generate a project from a template",
	Long: `Generates a new project at ROOT from a template file.

Every {@ name @} placeholder in directory names, file names and file
contents is replaced with the value from the definitions file. ROOT must not
exist yet. If writing fails partway, the partial project is removed.

Placeholders without a definition are left in the output and reported as
warnings. Use --strict to fail instead, or --prompt to be asked for values.`,
	Args: requireArgs("ROOT"),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := OpenRunContext(cmd)
		if err != nil {
			return err
		}
		return runGenerate(cmd, rc, args[0])
	},
}

// promptVariables is swapped in tests.
var promptVariables = func(missing []string) (template.Definitions, error) {
	answers, err := ui.PromptVariables(missing)
	if err != nil {
		return nil, err
	}
	return template.Definitions(answers), nil
}

func runGenerate(cmd *cobra.Command, rc *RunContext, root string) error {
	templatePath := mustGetString(cmd, "template")
	if templatePath == "" {
		return pgerrors.New(pgerrors.EUsage, "a template file is required (--template)")
	}
	definitionsPath := mustGetString(cmd, "definitions")
	if definitionsPath == "" {
		return pgerrors.New(pgerrors.EUsage, "a definitions file is required (--definitions)")
	}

	req := project.GenerateRequest{
		Root:            root,
		TemplatePath:    templatePath,
		DefinitionsPath: definitionsPath,
		Strict:          mustGetBool(cmd, "strict") || rc.Config.Strict,
		DryRun:          rc.DryRun,
	}

	wantPrompt := mustGetBool(cmd, "prompt") || rc.Config.Generate.Prompt
	if !rc.NoInteractive && ui.ShouldPrompt(cmd, wantPrompt) {
		req.Prompt = promptVariables
	}

	result, err := rc.Manager.Generate(req)
	if err != nil {
		return err
	}

	if rc.Quiet {
		return nil
	}

	written := result.Written
	if written.DryRun {
		ui.PrintInfo(fmt.Sprintf("[DRY RUN] Would create %s", written.Root))
		for _, dir := range written.Directories {
			ui.PrintStep(dir + "/")
		}
		for _, file := range written.Files {
			ui.PrintStep(file)
		}
	} else {
		ui.PrintSuccess(fmt.Sprintf("Created %d directories and %d files", len(written.Directories), len(written.Files)))
	}

	if len(result.Unresolved) > 0 {
		ui.PrintWarningWithHint(
			fmt.Sprintf("Unresolved placeholders left in output: %s", joinNames(result.Unresolved)),
			"Add them to the definitions file, or rerun with --strict to fail instead",
		)
	}

	if !written.DryRun {
		ui.PrintDone(fmt.Sprintf("Project ready at %s", written.Root))
	}
	return nil
}

func init() {
	generateCmd.Flags().StringP("template", "t", "", "Template file to generate from")
	generateCmd.Flags().StringP("definitions", "d", "", "Variable definitions (YAML, JSON, TOML or .env)")
	generateCmd.Flags().Bool("strict", false, "Fail when a placeholder has no definition")
	generateCmd.Flags().Bool("prompt", false, "Ask for values of undefined variables")
	rootCmd.AddCommand(generateCmd)
}
