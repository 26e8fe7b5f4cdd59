package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowlet/studio/pkg/catalog"
	"github.com/flowlet/studio/pkg/storage"
	"github.com/flowlet/studio/pkg/workflow"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var skipValidation bool

	cmd := &cobra.Command{
		Use:   "import <workflow-file>",
		Short: "Import a workflow YAML file",
		Long: `Validate a workflow YAML file and store it in the workflows directory.

Examples:
  flowstudio import payments.yaml
  flowstudio import payments.yaml --skip-validation`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read workflow file: %w", err)
			}

			if !skipValidation {
				if err := workflow.ValidateAgainstSchema(data); err != nil {
					return err
				}
			}

			doc, err := workflow.Parse(data)
			if err != nil {
				return err
			}

			if !skipValidation {
				if err := workflow.Validate(doc, catalog.Default()); err != nil {
					return err
				}
			}

			repo, err := storage.NewFilesystemWorkflowRepositoryWithPath(GlobalConfig.ConfigDir)
			if err != nil {
				return err
			}
			if err := repo.Save(doc); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported workflow %q (%s): %d nodes, %d connections\n",
				doc.Name, doc.ID, len(doc.Nodes), len(doc.Connections))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Skip schema and structure validation")

	return cmd
}
