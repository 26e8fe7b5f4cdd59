package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowlet/studio/pkg/catalog"
	flowerrors "github.com/flowlet/studio/pkg/errors"
	"github.com/flowlet/studio/pkg/simulate"
	"github.com/flowlet/studio/pkg/storage"
	"github.com/flowlet/studio/pkg/workflow"
)

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand() *cobra.Command {
	var (
		stepDelay   time.Duration
		topological bool
		noHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <workflow-file>",
		Short: "Replay a workflow through the execution simulator",
		Long: `Load a workflow file and replay it through the in-process execution
simulator: each node is transitioned idle -> running -> completed in
sequence with a fixed delay. No real dispatch happens; this is the same
mock replay the designer canvas animates.

Nodes replay in document list order. Pass --topological to order by the
connection graph instead (fails on cycles).

Examples:
  flowstudio simulate payments.yaml
  flowstudio simulate payments.yaml --step-delay 200ms --topological`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := workflow.ParseFile(args[0])
			if err != nil {
				return err
			}
			if err := workflow.Validate(doc, catalog.Default()); err != nil {
				return err
			}

			coll := workflow.NewCollection()
			if err := coll.Add(doc); err != nil {
				return err
			}

			opts := []simulate.Option{simulate.WithStepDelay(stepDelay)}
			if topological {
				opts = append(opts, simulate.WithOrder(simulate.OrderTopological))
			}
			if !noHistory {
				repo, err := storage.NewSQLiteRunRepositoryWithPath(GetDatabasePath())
				if err != nil {
					return fmt.Errorf("failed to open run history: %w", err)
				}
				defer func() { _ = repo.Close() }()
				opts = append(opts, simulate.WithRepository(repo))
			}

			runner := simulate.NewRunner(coll, opts...)
			events := runner.Monitor().Subscribe()
			done := make(chan struct{})
			out := cmd.OutOrStdout()

			go func() {
				defer close(done)
				for event := range events {
					switch event.Type {
					case simulate.EventRunStarted:
						_, _ = fmt.Fprintf(out, "Run %s started (%d nodes)\n", event.RunID, event.Total)
					case simulate.EventNodeStarted:
						_, _ = fmt.Fprintf(out, "  ▶ %s running\n", event.NodeID)
					case simulate.EventNodeCompleted:
						_, _ = fmt.Fprintf(out, "  ✓ %s completed (%d/%d)\n", event.NodeID, event.Completed, event.Total)
					case simulate.EventRunCompleted:
						_, _ = fmt.Fprintln(out, "Run completed")
					case simulate.EventRunCancelled:
						_, _ = fmt.Fprintln(out, "Run cancelled")
					case simulate.EventRunFailed:
						_, _ = fmt.Fprintln(out, "Run failed")
					}
				}
			}()

			run, err := runner.Run(cmd.Context(), doc.ID)
			runner.Monitor().Close()
			<-done
			if err != nil {
				return flowerrors.NewOperationalError("simulating workflow", doc.ID.String(), "", err)
			}

			_, _ = fmt.Fprintf(out, "\nRun %s: %s in %s\n",
				run.ID, run.Status, run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&stepDelay, "step-delay", simulate.DefaultStepDelay, "Delay per node transition")
	cmd.Flags().BoolVar(&topological, "topological", false, "Replay in connection order instead of list order")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording the run to history")

	return cmd
}
