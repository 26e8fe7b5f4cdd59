package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/flowlet/studio/pkg/simulate"
	"github.com/flowlet/studio/pkg/storage"
	"github.com/flowlet/studio/pkg/workflow"
)

// NewRunsCommand creates the runs command group.
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect simulation run history",
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <workflow-id>",
		Short: "List simulation runs for a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewSQLiteRunRepositoryWithPath(GetDatabasePath())
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			runs, err := repo.ListByWorkflow(workflow.WorkflowID(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				_, _ = fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			for _, run := range runs {
				duration := ""
				if !run.CompletedAt.IsZero() {
					duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
				}
				_, _ = fmt.Fprintf(out, "%s  %-10s  %s  %s\n",
					run.ID, run.Status, run.StartedAt.Format(time.RFC3339), duration)
			}
			return nil
		},
	}
}

func newRunsShowCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one simulation run",
		Long: `Show a simulation run as JSON. With --query, a gjson path is applied to
the run document instead of printing the whole record.

Examples:
  flowstudio runs show 3f1c...
  flowstudio runs show 3f1c... --query transitions.#
  flowstudio runs show 3f1c... --query 'transitions.#(status=="completed")#.node_id'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewSQLiteRunRepositoryWithPath(GetDatabasePath())
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			run, err := repo.Load(simulate.RunID(args[0]))
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal run: %w", err)
			}

			out := cmd.OutOrStdout()
			if query == "" {
				_, _ = fmt.Fprintln(out, string(data))
				return nil
			}

			result := gjson.GetBytes(data, query)
			if !result.Exists() {
				return fmt.Errorf("query matched nothing: %s", query)
			}
			_, _ = fmt.Fprintln(out, result.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "gjson path to extract from the run record")

	return cmd
}
