// Package report flattens decisions and rejections into the tabular shapes
// the external driver and the error-report collaborator consume.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/tyrakriv/schooldays/internal/model"
)

// decisionColumns is the ordered driver-facing record shape.
var decisionColumns = []string{
	"person_key",
	"display_name",
	"payload",
	"decided_at",
}

// groupColumns is the ordered per-choice-group record shape for the
// classification flow.
var groupColumns = []string{
	"person_key",
	"secondary_key",
	"standard_codes",
	"line_items",
}

// errorColumns is the uniform error-report shape: one row per offending
// input row, reason last before the log timestamp.
var errorColumns = []string{
	"person_key",
	"display_name",
	"payload",
	"row_index",
	"error_reason",
	"logged_at",
}

// DecisionHeader returns the driver-facing column order.
func DecisionHeader() []string { return append([]string(nil), decisionColumns...) }

// GroupHeader returns the per-group column order.
func GroupHeader() []string { return append([]string(nil), groupColumns...) }

// ErrorHeader returns the error-report column order.
func ErrorHeader() []string { return append([]string(nil), errorColumns...) }

// DecisionRows flattens decisions in their given order.
func DecisionRows(decisions []model.Decision) [][]string {
	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		at := ""
		if !d.At.IsZero() {
			at = d.At.Format(time.RFC3339)
		}
		rows = append(rows, []string{d.PersonKey, d.DisplayName, d.Payload, at})
	}
	return rows
}

// GroupRows flattens choice groups, one row per group. Line items render as
// "code@target" pairs joined with "|" so the driver can replay them in order.
func GroupRows(groups []model.ChoiceGroup) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		items := make([]string, 0, len(g.Items))
		for _, it := range g.Items {
			items = append(items, it.Code+"@"+string(it.Target))
		}
		rows = append(rows, []string{
			g.PersonKey,
			g.SecondaryKey,
			g.StandardCodes,
			strings.Join(items, "|"),
		})
	}
	return rows
}

// ErrorRows flattens rejections, one row per offending input row. now stamps
// when the entry was logged, not when the offending row was submitted.
func ErrorRows(entries []model.RejectedEntry, now time.Time) [][]string {
	rows := make([][]string, 0, len(entries))
	stamp := now.Format("2006-01-02 15:04:05")
	for _, e := range entries {
		rows = append(rows, []string{
			e.Row.PersonKey,
			e.Row.DisplayName,
			e.Row.Payload,
			strconv.Itoa(e.Row.Index),
			e.Reason,
			stamp,
		})
	}
	return rows
}
