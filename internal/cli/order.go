package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"toolchest/internal/graph"
)

func newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order [TOOL...]",
		Short: "Print the dependency-respecting install order",
		Long: "Print the full topological install order, or the order for the\n" +
			"requested tools plus their transitive dependency closure.",
		RunE: runOrder,
	}
}

func runOrder(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	g := graph.Build(sess.Catalog)

	var order []string
	if len(args) > 0 {
		order, err = g.InstallOrder(args)
	} else {
		order, err = g.TopoSort()
	}
	if err != nil {
		return err
	}

	if outputJSON {
		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	for i, tool := range order {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, tool)
	}
	return nil
}
