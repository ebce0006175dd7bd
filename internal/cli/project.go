package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectDescription string

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		p := model.NewProject(args[0], projectDescription)
		if !model.ValidName(p.Name) {
			return fmt.Errorf("invalid project name %q: must be 1-%d characters, starting and ending alphanumeric",
				p.Name, model.NameMaxLen)
		}
		if err := orch.Store().CreateProject(p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		projects, err := orch.Store().ListProjects(false)
		if err != nil {
			return err
		}
		for _, p := range projects {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %s\n", p.ID, p.Status, p.Name)
		}
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project and its generated documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		p, err := orch.Store().LoadProject(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\nStatus: %s\nFeatures: %d  Phases: %d\n",
			p.Name, p.ID, p.Status, len(p.Features), len(p.Phases))

		docs, err := orch.Store().ListDocuments(p.ID)
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s  %s (%d bytes)\n",
				d.Type, d.Format, d.GeneratedAt.Format("2006-01-02 15:04"), d.SizeBytes)
		}
		return nil
	},
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <project-id>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return orch.Store().ArchiveProject(args[0])
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Soft-delete a project (documents remain inspectable)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := newOrchestrator()
		if err != nil {
			return err
		}
		return orch.Store().DeleteProject(args[0])
	},
}

func init() {
	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectArchiveCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}
