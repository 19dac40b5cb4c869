package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/scrub/internal/caps"
	"github.com/llehouerou/scrub/internal/errmsg"
	"github.com/llehouerou/scrub/internal/history"
	"github.com/llehouerou/scrub/internal/probe"
)

func newProbeCmd(e *env) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Print duration, stream caps and tags of media files as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.setup(""); err != nil {
				return err
			}
			return e.runProbe(cmd.Context(), args, text)
		},
	}
	cmd.Flags().BoolVarP(&text, "text", "t", false, "Print a human readable summary instead of JSON")
	return cmd
}

func (e *env) runProbe(ctx context.Context, paths []string, text bool) error {
	engine, err := e.newEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	r := probe.NewReader(engine, e.log)
	r.Fs = e.opts.Fs
	r.Timeout = e.cfg.GetProbeConfig().Timeout

	infos := make([]*probe.Info, 0, len(paths))
	var failed []string
	for _, p := range paths {
		info, err := r.Read(ctx, p)
		if err != nil {
			e.log.WithField("path", p).Warn(errmsg.FormatWith(errmsg.OpProbe, p, err))
			failed = append(failed, p)
			continue
		}
		infos = append(infos, info)
	}

	e.record(infos)

	if text {
		for _, info := range infos {
			fmt.Fprint(e.opts.Out, info.String())
		}
	} else {
		enc := json.NewEncoder(e.opts.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files could not be probed", len(failed), len(paths))
	}
	return nil
}

// record stores probed files; history failures are logged, not returned.
func (e *env) record(infos []*probe.Info) {
	store, err := e.openHistory()
	if err != nil {
		e.log.Warn(errmsg.Format(errmsg.OpOpenHistory, err))
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	for _, info := range infos {
		if err := store.Record(entryFromInfo(info)); err != nil {
			e.log.Warn(errmsg.Format(errmsg.OpRecordHistory, err))
		}
	}
}

func entryFromInfo(info *probe.Info) history.Entry {
	entry := history.Entry{
		URI:      info.URI,
		Path:     info.Path,
		Kind:     history.KindProbe,
		Size:     info.Size,
		Duration: info.Duration,
	}
	if v, ok := lo.First(info.Video); ok {
		entry.Width, _ = v[caps.FieldWidth].(int)
		entry.Height, _ = v[caps.FieldHeight].(int)
		if fr, ok := v[caps.FieldFramerate].([2]int); ok && fr[1] != 0 {
			entry.Framerate = float64(fr[0]) / float64(fr[1])
		}
	}
	return entry
}
