package decode

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FormatEntry renders one display line: timestamp column, module column,
// message, tab separated. Column toggles come from the decode options.
func FormatEntry(e Entry, opts Options) string {
	var parts []string
	if !opts.NoTimestamps {
		parts = append(parts, fmt.Sprintf("%-12s", fmt.Sprintf("%dms", e.TimestampMS)))
	}
	if !opts.NoModules && e.Module != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Module))
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, "\t")
}

// WriteText writes one formatted display line per surviving entry.
func (r *Result) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range r.Entries {
		if _, err := fmt.Fprintln(bw, FormatEntry(e, r.opts)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
