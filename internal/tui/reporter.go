package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"toolchest/internal/reconcile"
)

// OutcomeFields maps a reconcile outcome onto the batch table columns.
func OutcomeFields(o reconcile.Outcome) map[string]string {
	fields := map[string]string{
		"CURRENT": string(o.Current),
		"BEST":    string(o.Best),
		"STATUS":  outcomeStatus(o),
		"DETAIL":  outcomeDetail(o),
	}
	return fields
}

func outcomeStatus(o reconcile.Outcome) string {
	switch {
	case o.Failed():
		return "failed"
	case o.Skipped:
		return "skipped"
	case o.Action == reconcile.ActionUninstall && o.Changed:
		return "removed"
	case o.Changed && o.Current == o.Best:
		return "refreshed"
	case o.Changed && o.Current == "none":
		return "installed"
	case o.Changed:
		return "converged"
	default:
		return "optimal"
	}
}

func outcomeDetail(o reconcile.Outcome) string {
	switch {
	case o.Failed():
		return o.Err.Error()
	case o.Skipped:
		return o.SkipReason
	case o.RemovalFailure != "":
		return o.RemovalFailure
	default:
		return ""
	}
}

// BatchReporter adapts outcome delivery to bubbletea message sending.
type BatchReporter struct {
	send func(tea.Msg)
}

func NewBatchReporter(send func(tea.Msg)) *BatchReporter {
	return &BatchReporter{send: send}
}

// Working marks a tool's row active before its reconciliation starts.
func (r *BatchReporter) Working(tool string) {
	r.send(RowUpdateMsg{Key: tool, Fields: map[string]string{"STATUS": "working"}})
}

// Report publishes a finished outcome to the table.
func (r *BatchReporter) Report(o reconcile.Outcome) {
	r.send(RowUpdateMsg{Key: o.Tool, Fields: OutcomeFields(o)})
}
