// ABOUTME: Non-fatal per-item warnings collected by the bulk-edit operations.
// ABOUTME: Operations return warnings alongside their result instead of aborting on skippable items.
package ops

import (
	"fmt"
	"strings"
)

// Warning records one skipped item during an otherwise successful operation,
// such as an attribute that could not be copied or an edge that could not be
// re-created.
type Warning struct {
	Op      string `json:"op"`      // operation that produced the warning
	Subject string `json:"subject"` // the skipped attribute, edge, or node
	Detail  string `json:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Op, w.Subject, w.Detail)
}

// Summary formats warnings as a line-per-item report for user display.
// Returns an empty string when there are none.
func Summary(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, 0, len(warnings)+1)
	lines = append(lines, fmt.Sprintf("%d item(s) skipped:", len(warnings)))
	for _, w := range warnings {
		lines = append(lines, "  "+w.String())
	}
	return strings.Join(lines, "\n")
}
