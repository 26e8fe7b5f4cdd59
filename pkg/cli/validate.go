package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowlet/studio/pkg/catalog"
	flowerrors "github.com/flowlet/studio/pkg/errors"
	"github.com/flowlet/studio/pkg/nodeconfig"
	"github.com/flowlet/studio/pkg/workflow"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate <workflow-file>",
		Short: "Validate a workflow file",
		Long: `Validate a workflow YAML file for correctness.

This checks:
- Document schema (field types, statuses)
- Node ids unique, node types present in the catalog
- Connections reference existing nodes, no duplicates or self-loops
- No connection cycles
- Node configurations against their per-type schema

Examples:
  flowstudio validate payments.yaml
  flowstudio validate payments.yaml --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read workflow file: %w", err)
			}

			out := cmd.OutOrStdout()
			errOut := cmd.OutOrStderr()

			if err := workflow.ValidateAgainstSchema(data); err != nil {
				_, _ = fmt.Fprintln(errOut, "✗ Document schema validation failed")
				if verbose {
					_, _ = fmt.Fprintf(errOut, "  Error: %v\n", err)
				}
				return err
			}
			_, _ = fmt.Fprintln(out, "✓ Document schema valid")

			doc, err := workflow.Parse(data)
			if err != nil {
				_, _ = fmt.Fprintln(errOut, "✗ Failed to parse workflow YAML")
				return err
			}
			_, _ = fmt.Fprintln(out, "✓ Workflow YAML parsed successfully")

			cat := catalog.Default()
			if err := workflow.Validate(doc, cat); err != nil {
				_, _ = fmt.Fprintln(errOut, "✗ Workflow validation failed")
				if verbose {
					_, _ = fmt.Fprintf(errOut, "  Error: %v\n", err)
				}
				return err
			}
			_, _ = fmt.Fprintln(out, "✓ Workflow structure valid")

			if _, err := workflow.TopologicalOrder(doc); err != nil {
				_, _ = fmt.Fprintln(errOut, "✗ Connection graph contains a cycle")
				return err
			}
			_, _ = fmt.Fprintln(out, "✓ No connection cycles")

			for _, node := range doc.Nodes {
				if err := nodeconfig.ValidateConfig(node.Type, node.Data.Config); err != nil {
					_, _ = fmt.Fprintf(errOut, "✗ Node %s has invalid configuration\n", node.ID)
					return flowerrors.NewOperationalError("validating node config", doc.ID.String(), node.ID.String(), err)
				}
			}
			_, _ = fmt.Fprintln(out, "✓ Node configurations valid")

			_, _ = fmt.Fprintf(out, "\nWorkflow %q is valid (%d nodes, %d connections)\n",
				doc.Name, len(doc.Nodes), len(doc.Connections))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed error output")

	return cmd
}
