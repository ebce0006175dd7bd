package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage templates",
}

var installName string

var templateInstallCmd = &cobra.Command{
	Use:   "install <path>",
	Short: "Install a custom template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		report, err := orch.Installer().InstallFromPath(args[0], installName)
		if err != nil {
			return err
		}
		for _, w := range report.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if !report.Valid {
			for _, e := range report.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
			}
			return fmt.Errorf("template rejected: %s", report.Summary())
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Template installed")
		return nil
	},
}

var templateValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a template file without installing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		report, err := orch.Installer().ValidateFromPath(args[0])
		if err != nil {
			return err
		}
		for _, w := range report.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if !report.Valid {
			for _, e := range report.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
			}
			return fmt.Errorf("template invalid: %s", report.Summary())
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Template is valid")
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator()
		if err != nil {
			return err
		}
		templates, err := o.Templates().List()
		if err != nil {
			return err
		}
		for _, t := range templates {
			origin := "custom"
			if t.BuiltIn {
				origin = "built-in"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-10s v%-8s %s\n", t.Name, t.Type, t.Version, origin)
		}
		return nil
	},
}

func init() {
	templateInstallCmd.Flags().StringVarP(&installName, "name", "n", "", "Expected template name (must match frontmatter)")
	templateCmd.AddCommand(templateInstallCmd)
	templateCmd.AddCommand(templateValidateCmd)
	templateCmd.AddCommand(templateListCmd)
}
