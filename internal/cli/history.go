package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/scrub/internal/errmsg"
	"github.com/llehouerou/scrub/internal/history"
	"github.com/llehouerou/scrub/internal/probe"
)

func newHistoryCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently probed and played sources",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := e.setup(""); err != nil {
				return err
			}
			return e.runHistory(limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}

func (e *env) runHistory(limit int) error {
	store, err := e.openHistory()
	if err != nil {
		return errmsg.Wrap(errmsg.OpOpenHistory, err)
	}
	if store == nil {
		fmt.Fprintln(e.opts.Out, "history is disabled")
		return nil
	}
	defer store.Close()

	entries, err := store.Recent(limit)
	if err != nil {
		return errmsg.Wrap(errmsg.OpReadHistory, err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(e.opts.Out, "no history yet")
		return nil
	}

	w := tabwriter.NewWriter(e.opts.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEEN\tKIND\tDURATION\tVIDEO\tSIZE\tSOURCE")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(entry.SeenAt),
			entry.Kind,
			probe.FormatSeconds(entry.Duration),
			videoSummary(entry),
			humanize.IBytes(uint64(max(entry.Size, 0))), //nolint:gosec // clamped non-negative
			source(entry),
		)
	}
	return w.Flush()
}

func videoSummary(e history.Entry) string {
	if e.Width == 0 || e.Height == 0 {
		return "-"
	}
	if e.Framerate > 0 {
		return fmt.Sprintf("%dx%d@%.2f", e.Width, e.Height, e.Framerate)
	}
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

func source(e history.Entry) string {
	if e.Path != "" {
		return e.Path
	}
	return e.URI
}
