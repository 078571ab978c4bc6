package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"toolchest/internal/reconcile"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install TOOL",
		Short: "Install a tool via its policy-chosen best method",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolAction(reconcile.ActionInstall),
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update TOOL",
		Short: "Update a tool, refreshing through its best method",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolAction(reconcile.ActionUpdate),
	}
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile TOOL",
		Short: "Converge a tool's installation to its best method",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolAction(reconcile.ActionReconcile),
	}
}

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall TOOL",
		Short: "Remove a tool via its currently-detected method",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolAction(reconcile.ActionUninstall),
	}
}

func runToolAction(action reconcile.Action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		out := sess.Service.Run(cmd.Context(), args[0], action)
		if outputJSON {
			if err := writeOutcomeJSON(cmd, out); err != nil {
				return err
			}
		} else {
			writeOutcomeLine(cmd, out)
		}
		return out.Err
	}
}

func writeOutcomeLine(cmd *cobra.Command, out reconcile.Outcome) {
	switch {
	case out.Failed():
		// The error itself is returned; the trace already carries the steps.
	case out.Skipped:
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] done: skipped (%s)\n", out.Tool, out.SkipReason)
	case out.Changed:
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] done: now installed via %s\n", out.Tool, out.Best)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] done: no change needed\n", out.Tool)
	}
}

func writeOutcomeJSON(cmd *cobra.Command, out reconcile.Outcome) error {
	payload := struct {
		reconcile.Outcome
		Error string `json:"error,omitempty"`
	}{Outcome: out, Error: out.ErrorText()}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
