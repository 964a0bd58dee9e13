package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyrakriv/schooldays/internal/model"
)

func TestDecisionRows(t *testing.T) {
	at := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	decisions := []model.Decision{
		{PersonKey: "1001", DisplayName: "Smith", Payload: "b", At: at},
		{PersonKey: "1002", DisplayName: "Jones", Payload: "a"},
	}

	rows := DecisionRows(decisions)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1001", "Smith", "b", "2026-01-05T09:00:00Z"}, rows[0])
	// Zero provenance timestamp renders empty, not as the zero time.
	assert.Equal(t, []string{"1002", "Jones", "a", ""}, rows[1])
}

func TestGroupRows(t *testing.T) {
	groups := []model.ChoiceGroup{
		{
			PersonKey:     "1001",
			SecondaryKey:  "a",
			StandardCodes: "ff",
			HasPrimary:    true,
			Items: []model.LineItem{
				{Code: "Pending", Category: model.CategoryService, Target: model.TargetService},
				{Code: "ml", Category: model.CategoryGrouped, Target: model.TargetGroupedWithPrimary},
			},
		},
	}

	rows := GroupRows(groups)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"1001", "a", "ff",
		"Pending@service_box|ml@grouped_with_primary_box",
	}, rows[0])
}

func TestErrorRows(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 30, 0, 0, time.UTC)
	entries := []model.RejectedEntry{
		{
			Row:    model.RawRow{PersonKey: "1001", DisplayName: "Smith", Payload: "z", Index: 4},
			Kind:   model.KindInvalidPayloadValue,
			Reason: "invalid payload value",
		},
	}

	rows := ErrorRows(entries, now)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1001", "Smith", "z", "4", "invalid payload value", "2026-01-10 12:30:00"}, rows[0])
}

func TestHeadersAreCopies(t *testing.T) {
	h := ErrorHeader()
	h[0] = "mutated"
	assert.Equal(t, "person_key", ErrorHeader()[0])
}
