package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Status prints every owned node and its canonical status.
func Status(ctx context.Context, configPath string, out io.Writer, verbosity int) error {
	d, err := buildDeps(configPath, verbosity, false)
	if err != nil {
		return err
	}

	statuses, err := d.reconciler.Status(ctx)
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Fprintf(out, "no nodes found for fleet %q\n", d.cfg.FleetName)
		return nil
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tSTATUS")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, statuses[name])
	}
	return w.Flush()
}
