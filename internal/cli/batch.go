package cli

import (
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"toolchest/internal/reconcile"
	"toolchest/internal/trace"
	"toolchest/internal/tui"
)

var batchOrdered bool

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch ACTION",
		Short: "Apply an action to every auto-managed tool",
		Long: "Apply install, update, reconcile or status to every auto-managed tool.\n" +
			"Tools are processed independently; one failure does not abort the rest.",
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}
	cmd.Flags().BoolVar(&batchOrdered, "ordered", false, "Process tools in dependency order instead of catalog order")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	action, err := reconcile.ParseAction(args[0])
	if err != nil {
		return err
	}
	if action == reconcile.ActionUninstall {
		return fmt.Errorf("batch uninstall is not supported; remove tools individually")
	}

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)

	var summary reconcile.Summary
	switch mode {
	case tui.ModeTUI:
		summary, err = runBatchTUI(cmd, sess, action)
	default:
		summary, err = sess.Service.RunAll(cmd.Context(), action, batchOrdered, nil, func(o reconcile.Outcome) {
			if mode == tui.ModePlain {
				writeOutcomeLine(cmd, o)
			}
		})
	}
	if err != nil {
		return err
	}

	if outputJSON {
		return writeSummaryJSON(cmd.OutOrStdout(), summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d tools: %d changed, %d unchanged, %d skipped, %d failed\n",
		summary.Total, summary.Succeeded, summary.Unchanged, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d tools failed", summary.Failed)
	}
	return nil
}

// runBatchTUI drives the live progress table. The audit trace still has
// to land somewhere useful, so it is redirected to the run log while
// the table owns the terminal.
func runBatchTUI(cmd *cobra.Command, sess *session, action reconcile.Action) (reconcile.Summary, error) {
	tools := sess.Catalog.AutoManaged()
	model := tui.NewProgressModel("toolchest batch "+string(action), tui.BatchColumns())
	for _, desc := range tools {
		model.AddRow(desc.Name, []string{desc.Name, "", "", "pending", ""})
	}

	sess.Service.Trace = trace.New(io.Discard, sess.Logger)
	sess.Service.Resolver.Trace = sess.Service.Trace

	var summary reconcile.Summary
	var runErr error
	err := tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
		reporter := tui.NewBatchReporter(send)
		summary, runErr = sess.Service.RunAll(cmd.Context(), action, batchOrdered, reporter.Working, func(o reconcile.Outcome) {
			reporter.Report(o)
		})
	})
	if err != nil {
		return summary, err
	}
	return summary, runErr
}

func writeSummaryJSON(w io.Writer, summary reconcile.Summary) error {
	type outcomeJSON struct {
		reconcile.Outcome
		Error string `json:"error,omitempty"`
	}
	payload := struct {
		Total     int           `json:"total"`
		Succeeded int           `json:"succeeded"`
		Failed    int           `json:"failed"`
		Skipped   int           `json:"skipped"`
		Unchanged int           `json:"unchanged"`
		Outcomes  []outcomeJSON `json:"outcomes"`
	}{
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Skipped:   summary.Skipped,
		Unchanged: summary.Unchanged,
	}
	for _, o := range summary.Outcomes {
		payload.Outcomes = append(payload.Outcomes, outcomeJSON{Outcome: o, Error: o.ErrorText()})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
