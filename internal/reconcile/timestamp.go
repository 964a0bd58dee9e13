package reconcile

import (
	"time"

	"github.com/tyrakriv/schooldays/internal/model"
)

// The export writes timestamps like "1/30/2026 2:05:09 PM"; manual edits
// show up in a handful of other shapes, so parsing is strict-first with
// fallbacks.
var defaultLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339,
}

type stampedRow struct {
	row model.RawRow
	at  time.Time
	// invalid means the cell held something that parsed as no known layout.
	// Distinct from absent: an empty cell sorts as the zero time and is not
	// an error by itself.
	invalid bool
}

func parseAll(rows []model.RawRow, layouts []string) []stampedRow {
	if len(layouts) == 0 {
		layouts = defaultLayouts
	}

	stamped := make([]stampedRow, len(rows))
	for i, r := range rows {
		stamped[i] = stampedRow{row: r}
		if r.Timestamp == "" {
			continue
		}
		at, ok := parseTimestamp(r.Timestamp, layouts)
		if !ok {
			stamped[i].invalid = true
			continue
		}
		stamped[i].at = at
	}
	return stamped
}

func parseTimestamp(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if at, err := time.Parse(layout, s); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}
