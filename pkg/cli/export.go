package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowlet/studio/pkg/storage"
	"github.com/flowlet/studio/pkg/workflow"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <workflow-id>",
		Short: "Export a stored workflow to YAML",
		Long: `Export a workflow from the workflows directory as YAML, to stdout or a
file.

Examples:
  flowstudio export 7c9e6679-7425-40de-944b-e07fc1f90ae7
  flowstudio export 7c9e6679-7425-40de-944b-e07fc1f90ae7 -o payments.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewFilesystemWorkflowRepositoryWithPath(GlobalConfig.ConfigDir)
			if err != nil {
				return err
			}

			doc, err := repo.Load(workflow.WorkflowID(args[0]))
			if err != nil {
				return err
			}

			data, err := workflow.Export(doc)
			if err != nil {
				return err
			}

			if output == "" {
				_, _ = cmd.OutOrStdout().Write(data)
				return nil
			}

			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported workflow %q to %s\n", doc.Name, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
