package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iDorgham/DocGen-sub001/internal/config"
	"github.com/iDorgham/DocGen-sub001/internal/generate"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "docgen",
		Short: "DocGen - structured project documents from one data model",
		Long: `DocGen generates technical specifications, project plans, and marketing
collateral from a single project record, rendered through templates into
markdown, HTML, or PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command
func Execute(version string) error {
	// Add subcommands here to ensure proper initialization order
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	cliVersion = version
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newOrchestrator loads config and wires the pipeline for a command.
func newOrchestrator() (*generate.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = logrus.DebugLevel.String()
	}
	return generate.New(cfg), nil
}
