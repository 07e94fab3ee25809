package syncer

import (
	"fmt"
	"strings"

	"github.com/hawk-tools/hawk-hooks/internal/tool"
)

// FormatSyncResults renders one pass's results as human-readable text:
// "<tool>: no changes", "+n linked"/"-n unlinked" with named entries, and
// "!n errors" followed by the error lines.
func FormatSyncResults(results []*tool.SyncResult) string {
	var b strings.Builder
	for _, r := range results {
		if !r.Changed() {
			fmt.Fprintf(&b, "%s: no changes\n", r.Tool)
			continue
		}

		var parts []string
		if len(r.Linked) > 0 {
			parts = append(parts, fmt.Sprintf("+%d linked (%s)", len(r.Linked), strings.Join(r.Linked, ", ")))
		}
		if len(r.Unlinked) > 0 {
			parts = append(parts, fmt.Sprintf("-%d unlinked (%s)", len(r.Unlinked), strings.Join(r.Unlinked, ", ")))
		}
		if len(r.Errors) > 0 {
			parts = append(parts, fmt.Sprintf("!%d errors", len(r.Errors)))
		}
		fmt.Fprintf(&b, "%s: %s\n", r.Tool, strings.Join(parts, ", "))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  ! %s\n", e)
		}
	}
	return b.String()
}
