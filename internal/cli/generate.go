package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iDorgham/DocGen-sub001/internal/generate"
	"github.com/iDorgham/DocGen-sub001/internal/model"
)

var (
	generateFormat   string
	generateTemplate string
	generateVars     []string
	generateStrict   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <project-id> <spec|plan|marketing>",
	Short: "Generate a document for a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "markdown", "Output format: markdown, html, pdf")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Template name override")
	generateCmd.Flags().StringArrayVar(&generateVars, "var", nil, "Extra variable as key=value (repeatable)")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "Escalate strict validation findings to errors")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	orch, err := newOrchestrator()
	if err != nil {
		return err
	}

	extra := make(map[string]any, len(generateVars))
	for _, kv := range generateVars {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --var %q, expected key=value", kv)
		}
		extra[key] = value
	}

	result := orch.Generate(cmd.Context(), generate.Options{
		ProjectID:        args[0],
		DocumentType:     model.DocumentType(args[1]),
		Format:           model.OutputFormat(generateFormat),
		TemplateOverride: generateTemplate,
		ExtraVariables:   extra,
		StrictValidation: generateStrict,
	})

	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	switch result.Status {
	case generate.StatusFailed:
		if result.Err != nil && result.Err.Remediation != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "hint: %s\n", result.Err.Remediation)
		}
		return result.Err
	case generate.StatusPartial:
		fmt.Fprintf(cmd.OutOrStdout(), "Partial: wrote %s (requested format unavailable)\n", result.Document.Path)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", result.Document.Path)
	}
	return nil
}
