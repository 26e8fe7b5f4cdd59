package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flowlet/studio/pkg/storage"
	"github.com/flowlet/studio/pkg/workflow"
)

// NewNewCommand creates the new command.
func NewNewCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new workflow document",
		Long: `Create an empty draft workflow and save it to the workflows directory.
If no name is given, the default "New Workflow" is used.

Examples:
  flowstudio new
  flowstudio new "Payment Alerts" --description "Notify on large payments"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := workflow.DefaultName
			if len(args) == 1 {
				name = args[0]
			}

			doc, err := workflow.NewDocument(name, description)
			if err != nil {
				return err
			}

			repo, err := storage.NewFilesystemWorkflowRepositoryWithPath(GlobalConfig.ConfigDir)
			if err != nil {
				return err
			}
			if err := repo.Save(doc); err != nil {
				return err
			}

			path := filepath.Join(GetWorkflowsDir(), doc.ID.String()+".yaml")
			if _, err := os.Stat(path); err == nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Created workflow %q (%s)\n  %s\n", doc.Name, doc.ID, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Workflow description")

	return cmd
}
