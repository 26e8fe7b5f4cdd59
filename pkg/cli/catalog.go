package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowlet/studio/pkg/catalog"
	"github.com/flowlet/studio/pkg/nodeconfig"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand() *cobra.Command {
	var showConfig bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the node catalog",
		Long: `List all node types available in the designer palette, grouped by
category.

Examples:
  flowstudio catalog
  flowstudio catalog --config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			out := cmd.OutOrStdout()

			for _, group := range cat.Categories() {
				_, _ = fmt.Fprintf(out, "%s\n", group.Category.Label())
				for _, nt := range group.Items {
					_, _ = fmt.Fprintf(out, "  %s %-20s %s\n", nt.Icon, nt.TypeID, nt.Description)
					if !showConfig {
						continue
					}
					for _, spec := range nodeconfig.Resolve(nt.TypeID) {
						line := fmt.Sprintf("      %s (%s)", spec.Key, spec.Kind)
						if len(spec.Options) > 0 {
							line += fmt.Sprintf(" options=%v", spec.Options)
						}
						if spec.Default != nil {
							line += fmt.Sprintf(" default=%v", spec.Default)
						}
						_, _ = fmt.Fprintln(out, line)
					}
				}
				_, _ = fmt.Fprintln(out)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showConfig, "config", false, "Show configuration fields per node type")

	return cmd
}
