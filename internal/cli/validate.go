package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iDorgham/DocGen-sub001/internal/config"
	"github.com/iDorgham/DocGen-sub001/internal/store"
	"github.com/iDorgham/DocGen-sub001/internal/validate"
)

var validateLevel string

var validateCmd = &cobra.Command{
	Use:   "validate <project-id>",
	Short: "Validate a project without generating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st := store.NewStore(cfg.StorageRoot())
		p, err := st.LoadProject(args[0])
		if err != nil {
			return err
		}
		taken, err := st.TakenNames(p.ID)
		if err != nil {
			return err
		}

		level, err := validate.ParseLevel(validateLevel)
		if err != nil {
			return err
		}
		report := validate.New(validate.Options{
			Level:      level,
			TakenNames: taken,
		}).Validate(p)

		for _, e := range report.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
		}
		for _, w := range report.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if !report.Valid {
			return fmt.Errorf("project %s is invalid (%s)", p.Name, report.Summary())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Project %s is %s\n", p.Name, report.Summary())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateLevel, "level", "l", "comprehensive", "Validation level: basic, comprehensive, strict")
}
