package internal

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Report prints a per-content-type summary of the asset ledger.
func Report(ctx context.Context, opts ...Option) error {
	_, rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	summary, err := rt.db.Summary()
	if err != nil {
		return fmt.Errorf("ledger summary: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tASSETS\tBYTES\tLAST FETCH")
	var count int
	var bytes int64
	for _, row := range summary {
		last := "-"
		if !row.LastFetch.IsZero() {
			last = row.LastFetch.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", row.ContentType, row.Count, row.Bytes, last)
		count += row.Count
		bytes += row.Bytes
	}
	fmt.Fprintf(w, "total\t%d\t%d\t\n", count, bytes)
	return w.Flush()
}
