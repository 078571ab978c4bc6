package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"toolchest/internal/method"
)

var (
	availableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	unavailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func newCapabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Show which installation methods this host supports",
		RunE:  runCapabilities,
	}
}

func runCapabilities(cmd *cobra.Command, _ []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	if outputJSON {
		payload := map[string]bool{}
		for _, m := range method.Installable() {
			payload[string(m)] = sess.Caps.Has(m)
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tAVAILABLE")
	for _, m := range method.Installable() {
		state := unavailableStyle.Render("no")
		if sess.Caps.Has(m) {
			state = availableStyle.Render("yes")
		}
		fmt.Fprintf(w, "%s\t%s\n", m, state)
	}
	w.Flush()

	if !sess.Caps.Has(method.Apt) && !sess.Policy.AllowApt {
		fmt.Fprintln(cmd.OutOrStdout(), "\napt requires allowApt: true in the policy file plus a cached sudo grant")
	}
	return nil
}
