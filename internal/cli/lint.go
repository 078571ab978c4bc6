package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"toolchest/internal/graph"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type lintFinding struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Validate the catalog and dependency graph",
		RunE:  runLint,
	}
}

func runLint(cmd *cobra.Command, _ []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var findings []lintFinding
	for _, result := range sess.Catalog.Validate() {
		findings = append(findings, lintFinding{Level: result.Level, Message: result.Message})
	}
	if _, err := graph.Build(sess.Catalog).TopoSort(); err != nil {
		findings = append(findings, lintFinding{Level: "error", Message: err.Error()})
	}
	// Display-order disagreements are advisory only.
	for _, finding := range graph.ValidateOrderConsistency(sess.Catalog) {
		findings = append(findings, lintFinding{Level: "warning", Message: finding.Message})
	}

	errors := 0
	for _, f := range findings {
		if f.Level == "error" {
			errors++
		}
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		payload := struct {
			Tools    int           `json:"tools"`
			Errors   int           `json:"errors"`
			Findings []lintFinding `json:"findings"`
		}{Tools: len(sess.Catalog.Tools), Errors: errors, Findings: findings}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, f := range findings {
			label := warnStyle.Render("warning:")
			if f.Level == "error" {
				label = errorStyle.Render("error:")
			}
			fmt.Fprintf(out, "%s %s\n", label, f.Message)
		}
		if errors == 0 {
			fmt.Fprintf(out, "catalog ok: %d tools\n", len(sess.Catalog.Tools))
		}
	}

	if errors > 0 {
		return fmt.Errorf("catalog has %d errors", errors)
	}
	return nil
}
