package probe

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// String renders a one-file human readable summary.
func (i *Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", i.Path)
	fmt.Fprintf(&b, "  size:     %s\n", humanize.IBytes(uint64(max(i.Size, 0)))) //nolint:gosec // clamped non-negative
	fmt.Fprintf(&b, "  duration: %s\n", FormatSeconds(i.Duration))
	for _, v := range i.Video {
		fmt.Fprintf(&b, "  video:    %s\n", formatStream(v))
	}
	for _, a := range i.Audio {
		fmt.Fprintf(&b, "  audio:    %s\n", formatStream(a))
	}
	if i.Tags != nil && i.Tags.Title != "" {
		fmt.Fprintf(&b, "  title:    %s\n", i.Tags.Title)
	}
	if !i.Started {
		b.WriteString("  (pipeline did not start)\n")
	}
	return b.String()
}

// FormatSeconds renders seconds as H:MM:SS.mmm, dropping the hour when zero.
func FormatSeconds(secs float64) string {
	d := time.Duration(secs * float64(time.Second)).Round(time.Millisecond)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	ms := int(d/time.Millisecond) % 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%d:%02d.%03d", m, s, ms)
}

func formatStream(d map[string]any) string {
	parts := make([]string, 0, 3)
	if w, ok := d["width"]; ok {
		parts = append(parts, fmt.Sprintf("%vx%v", w, d["height"]))
	}
	if fr, ok := d["framerate"].([2]int); ok && fr[1] != 0 {
		parts = append(parts, fmt.Sprintf("%.3f fps", float64(fr[0])/float64(fr[1])))
	}
	if rate, ok := d["rate"]; ok {
		parts = append(parts, fmt.Sprintf("%v Hz", rate))
	}
	if ch, ok := d["channels"]; ok {
		parts = append(parts, fmt.Sprintf("%v ch", ch))
	}
	if f, ok := d["format"]; ok {
		parts = append(parts, fmt.Sprint(f))
	}
	return strings.Join(parts, ", ")
}
