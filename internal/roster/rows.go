package roster

import (
	"strconv"
	"strings"

	"github.com/tyrakriv/schooldays/internal/model"
)

// ExtractRows converts a Table's data rows into RawRows using a resolved
// field mapping. Rows whose person key is empty after trimming carry no
// identity and are skipped, mirroring how blank export lines are dropped.
func ExtractRows(t *Table, resolved map[string]string) []model.RawRow {
	idx := columnIndex(t.Columns)

	cell := func(row []string, field string) string {
		col, ok := resolved[field]
		if !ok {
			return ""
		}
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var rows []model.RawRow
	for i, raw := range t.Rows {
		key := strings.TrimSpace(cell(raw, FieldPersonKey))
		if key == "" {
			continue
		}

		payload := cell(raw, FieldPayload)
		if _, ok := resolved[FieldPayload]; !ok {
			// Classification datasets carry their text in the description
			// column instead of a selection column.
			payload = cell(raw, FieldDescription)
		}

		rows = append(rows, model.RawRow{
			PersonKey:    key,
			DisplayName:  strings.TrimSpace(cell(raw, FieldDisplayName)),
			Timestamp:    strings.TrimSpace(cell(raw, FieldTimestamp)),
			Payload:      payload,
			SecondaryKey: strings.TrimSpace(cell(raw, FieldSecondaryKey)),
			Quantity:     parseQuantity(cell(raw, FieldQuantity)),
			Index:        i,
		})
	}
	return rows
}

// parseQuantity reads a quantity cell, tolerating float formatting like
// "2.0". Anything absent, unparseable, or below 1 falls back to 1.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	q := int(f)
	if q < 1 {
		return 1
	}
	return q
}

func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, seen := idx[c]; !seen {
			idx[c] = i
		}
	}
	return idx
}
