package reconcile

import (
	"fmt"

	"toolchest/internal/method"
)

// Action selects what a reconciliation call is allowed to do.
type Action string

const (
	ActionStatus    Action = "status"
	ActionReconcile Action = "reconcile"
	ActionInstall   Action = "install"
	ActionUpdate    Action = "update"
	ActionUninstall Action = "uninstall"
)

// ParseAction validates an action tag from the CLI.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionStatus, ActionReconcile, ActionInstall, ActionUpdate, ActionUninstall:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Mutating reports whether the action may invoke executors.
func (a Action) Mutating() bool {
	return a != ActionStatus
}

// Verdict summarizes current-vs-best for status reporting.
type Verdict string

const (
	VerdictOptimal        Verdict = "already-optimal"
	VerdictWouldInstall   Verdict = "would-install"
	VerdictNeedsReconcile Verdict = "needs-reconciliation"
)

// Outcome is the per-tool result of one reconciliation call.
type Outcome struct {
	Tool    string        `json:"tool"`
	Action  Action        `json:"action"`
	Current method.Method `json:"current"`
	Best    method.Method `json:"best,omitempty"`
	Verdict Verdict       `json:"verdict,omitempty"`

	// Changed records that an executor ran and verified.
	Changed bool `json:"changed"`

	// Skipped tools were never handed to an executor (pin, routing).
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`

	// RemovalFailure carries a non-fatal uninstall error from the
	// convergence path; the tool still converged.
	RemovalFailure string `json:"removalFailure,omitempty"`

	Err error `json:"-"`
}

// Failed reports whether this tool's reconciliation failed outright.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// ErrorText is the JSON-facing form of Err.
func (o Outcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Summary aggregates batch outcomes. One tool's failure never aborts
// the others; it just lands here.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Unchanged int
	Outcomes  []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Total++
	s.Outcomes = append(s.Outcomes, o)
	switch {
	case o.Failed():
		s.Failed++
	case o.Skipped:
		s.Skipped++
	case o.Changed:
		s.Succeeded++
	default:
		s.Unchanged++
	}
}

// VerificationError means a binary stayed absent after an installer
// reported success. Exit status alone is not trusted; the re-probe is.
type VerificationError struct {
	Tool   string
	Method method.Method
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: binary not found after install via %s", e.Tool, e.Method)
}

// RemovalError wraps a failed uninstall of a superseded method. It is
// logged, not fatal: the replacement install takes precedence anyway.
type RemovalError struct {
	Tool   string
	Method method.Method
	Err    error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("%s: remove via %s: %v", e.Tool, e.Method, e.Err)
}

func (e *RemovalError) Unwrap() error { return e.Err }
