package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"toolchest/internal/catalog"
	"toolchest/internal/graph"
	"toolchest/internal/reconcile"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [TOOL]",
		Short: "Report current vs. best installation method",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatus,
	}
}

type statusRow struct {
	Tool    string `json:"tool"`
	Current string `json:"current"`
	Best    string `json:"best,omitempty"`
	Verdict string `json:"verdict,omitempty"`
	Path    string `json:"path,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Version string `json:"version,omitempty"`
	Pinned  string `json:"pinnedVersion,omitempty"`
	Missing string `json:"missingDependencies,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var tools []catalog.Descriptor
	if len(args) == 1 {
		desc, ok := sess.Catalog.Get(args[0])
		if !ok {
			return fmt.Errorf("tool %q not in catalog", args[0])
		}
		tools = []catalog.Descriptor{desc}
	} else {
		tools = sess.Catalog.AutoManaged()
	}

	var rows []statusRow
	failures := 0
	for _, desc := range tools {
		out := sess.Service.Run(cmd.Context(), desc.Name, reconcile.ActionStatus)
		row := statusRow{
			Tool:    desc.Name,
			Current: string(out.Current),
			Best:    string(out.Best),
			Verdict: string(out.Verdict),
			Error:   out.ErrorText(),
		}
		if out.Failed() {
			failures++
		} else {
			details := sess.Detector.CurrentDetails(cmd.Context(), desc.Name, desc.Binary())
			row.Path = details.Path
			row.Owner = details.Owner
			row.Version = details.Version
		}
		if missing := graph.CheckDependencies(sess.Service.Env, sess.Catalog, desc.Name); len(missing) > 0 {
			row.Missing = strings.Join(missing, ", ")
		}
		if desc.PinnedNever() {
			row.Pinned = catalog.PinNever
		} else if pin, ok := desc.Pin(); ok {
			row.Pinned = pin
		}
		row.Notes = descriptorNotes(desc)
		rows = append(rows, row)
	}

	if outputJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
	} else {
		writeStatusTable(cmd, rows)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d tools failed resolution", failures, len(rows))
	}
	return nil
}

// descriptorNotes summarizes catalog-declared caveats for a tool: pin
// state first, then deprecation.
func descriptorNotes(desc catalog.Descriptor) string {
	var notes []string
	if desc.PinnedNever() {
		notes = append(notes, `pinned "never"`)
	} else if pin, ok := desc.Pin(); ok {
		notes = append(notes, "pinned to "+pin)
	}
	if desc.Deprecated {
		notes = append(notes, deprecationNote(desc))
	}
	return strings.Join(notes, "; ")
}

func deprecationNote(desc catalog.Descriptor) string {
	if desc.SupersededBy != "" {
		return fmt.Sprintf("deprecated (use %s)", desc.SupersededBy)
	}
	return "deprecated"
}

func writeStatusTable(cmd *cobra.Command, rows []statusRow) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tCURRENT\tBEST\tVERDICT\tVERSION\tNOTES")
	for _, row := range rows {
		notes := row.Notes
		if row.Error != "" {
			notes = row.Error
		}
		if row.Missing != "" {
			if notes != "" {
				notes += "; "
			}
			notes += "missing deps: " + row.Missing
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Tool, row.Current, row.Best, row.Verdict, row.Version, notes)
	}
	w.Flush()
}
