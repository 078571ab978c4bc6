package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var (
	catalogDir  string
	policyFile  string
	outputJSON  bool
	noProgress  bool
	execTimeout time.Duration
)

// Execute runs the root cobra command. SIGINT cancels the run context;
// in-flight executor invocations and the batch loop both observe it.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolchest",
		Short: "Reconcile developer-tool installations against a method catalog",
	}

	cmd.PersistentFlags().StringVar(&catalogDir, "catalog", "", "Path to the tool catalog directory")
	cmd.PersistentFlags().StringVar(&policyFile, "policy", "", "Path to the user policy file")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress rendering")
	cmd.PersistentFlags().DurationVar(&execTimeout, "timeout", 10*time.Minute, "Timeout for each external installer invocation")

	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newReconcileCmd())
	cmd.AddCommand(newUninstallCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newOrderCmd())
	cmd.AddCommand(newCapabilitiesCmd())
	cmd.AddCommand(newLintCmd())

	return cmd
}
