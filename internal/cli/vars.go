package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/ui"
)

var varsCmd = &cobra.Command{
	Use:   "vars TEMPLATE",
	Short: "List the variables a template uses",
	Long: `Lists every variable referenced by placeholders in TEMPLATE.

With --definitions, each variable is shown with its value and where the value
comes from (the definitions file or the global config defaults). With
--check, the command fails if any variable has no value.`,
	Args: requireArgs("TEMPLATE"),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := OpenRunContext(cmd)
		if err != nil {
			return err
		}
		return runVars(cmd, rc, args[0])
	},
}

func runVars(cmd *cobra.Command, rc *RunContext, templatePath string) error {
	inspection, err := rc.Manager.Inspect(templatePath, mustGetString(cmd, "definitions"))
	if err != nil {
		return err
	}

	if !rc.Quiet {
		if len(inspection.Variables) == 0 {
			ui.PrintInfo("Template has no variables")
		} else {
			rows := make([][]string, 0, len(inspection.Variables))
			for _, v := range inspection.Variables {
				status := ui.StatusDefined
				if !v.Defined {
					status = ui.StatusMissing
				}
				rows = append(rows, []string{v.Name, status, v.Source, v.Value})
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderStatusTable(rows))
		}

		for _, name := range inspection.Template.Undeclared() {
			ui.PrintWarning(fmt.Sprintf("%s is used but not listed under variables", name))
		}
	}

	if mustGetBool(cmd, "check") && len(inspection.Missing) > 0 {
		return pgerrors.New(pgerrors.EUnresolvedVariables, "no definition for "+joinNames(inspection.Missing))
	}
	return nil
}

func init() {
	varsCmd.Flags().StringP("definitions", "d", "", "Variable definitions to check against")
	varsCmd.Flags().Bool("check", false, "Fail if any variable has no value")
	rootCmd.AddCommand(varsCmd)
}
