package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyrakriv/schooldays/internal/model"
)

var letterOpts = Options{
	HasTimestampField: true,
	PayloadAlphabet:   []string{"a", "b", "c", "d"},
	DefaultPayload:    "d",
}

func run(t *testing.T, rows []model.RawRow, opts Options) Result {
	t.Helper()
	return Reconcile(context.Background(), rows, opts)
}

func TestReconcile_LatestWins(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "1/1/2026 9:00:00 AM", Payload: "a", Index: 0},
		{PersonKey: "P", Timestamp: "1/5/2026 9:00:00 AM", Payload: "b", Index: 1},
	}

	res := run(t, rows, letterOpts)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, "P", res.Decisions[0].PersonKey)
	assert.Equal(t, "b", res.Decisions[0].Payload)
	assert.Empty(t, res.Rejected)
}

func TestReconcile_ConflictAtLatestTimestamp(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "Q", Timestamp: "1/5/2026 9:00:00 AM", Payload: "a", Index: 0},
		{PersonKey: "Q", Timestamp: "1/5/2026 9:00:00 AM", Payload: "c", Index: 1},
	}

	res := run(t, rows, letterOpts)

	assert.Empty(t, res.Decisions)
	require.Len(t, res.Rejected, 2)
	for _, rej := range res.Rejected {
		assert.Equal(t, model.KindConflictingPayload, rej.Kind)
		assert.Contains(t, rej.Reason, "conflicting payload")
		assert.Len(t, rej.Siblings, 2)
	}
}

func TestReconcile_TieWithAgreeingPayloadAccepted(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "1/5/2026 9:00:00 AM", Payload: "B", Index: 0},
		{PersonKey: "P", Timestamp: "1/5/2026 9:00:00 AM", Payload: "b", Index: 1},
	}

	res := run(t, rows, letterOpts)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, "b", res.Decisions[0].Payload)
	assert.Empty(t, res.Rejected)
}

func TestReconcile_SingleRowAcceptedDespiteBadTimestamp(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "not-a-date", Payload: "a", Index: 0},
	}

	res := run(t, rows, letterOpts)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, "a", res.Decisions[0].Payload)
	assert.True(t, res.Decisions[0].At.IsZero())
	assert.Empty(t, res.Rejected)
}

func TestReconcile_MultiRowInvalidTimestampRejectsGroup(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "1/5/2026 9:00:00 AM", Payload: "a", Index: 0},
		{PersonKey: "P", Timestamp: "not-a-date", Payload: "b", Index: 1},
	}

	res := run(t, rows, letterOpts)

	assert.Empty(t, res.Decisions)
	require.Len(t, res.Rejected, 2)
	for _, rej := range res.Rejected {
		assert.Equal(t, model.KindUnparseableTimestamp, rej.Kind)
	}
}

func TestReconcile_MultiRowWithoutOrderingFieldRejectsGroup(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Payload: "a", Index: 0},
		{PersonKey: "P", Payload: "b", Index: 1},
	}

	opts := letterOpts
	opts.HasTimestampField = false
	res := run(t, rows, opts)

	assert.Empty(t, res.Decisions)
	require.Len(t, res.Rejected, 2)
	for _, rej := range res.Rejected {
		assert.Equal(t, model.KindDuplicateWithoutOrdering, rej.Kind)
	}
}

func TestReconcile_SingleRowWithoutOrderingFieldAccepted(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Payload: "c", Index: 0},
	}

	opts := letterOpts
	opts.HasTimestampField = false
	res := run(t, rows, opts)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, "c", res.Decisions[0].Payload)
}

func TestReconcile_InvalidPayloadValue(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "1/5/2026 9:00:00 AM", Payload: "z", Index: 0},
	}

	res := run(t, rows, letterOpts)

	assert.Empty(t, res.Decisions)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.KindInvalidPayloadValue, res.Rejected[0].Kind)
}

func TestReconcile_AbsentPayloadFallsBackToDefault(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "1/5/2026 9:00:00 AM", Payload: "", Index: 0},
	}

	res := run(t, rows, letterOpts)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, "d", res.Decisions[0].Payload)
}

func TestReconcile_AtMostOneDecisionPerPerson(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "1/1/2026 9:00:00 AM", Payload: "a", Index: 0},
		{PersonKey: "P", Timestamp: "1/2/2026 9:00:00 AM", Payload: "b", Index: 1},
		{PersonKey: "P", Timestamp: "1/3/2026 9:00:00 AM", Payload: "c", Index: 2},
		{PersonKey: "Q", Timestamp: "1/1/2026 9:00:00 AM", Payload: "d", Index: 3},
	}

	res := run(t, rows, letterOpts)

	counts := map[string]int{}
	for _, d := range res.Decisions {
		counts[d.PersonKey]++
	}
	for key, n := range counts {
		assert.Equal(t, 1, n, "person %s", key)
	}
	assert.Equal(t, 2, res.Persons)
}

// Re-running reconciliation over its own accepted output changes nothing:
// each person is down to a single agreeing row.
func TestReconcile_Idempotent(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "1/1/2026 9:00:00 AM", Payload: "a", Index: 0},
		{PersonKey: "P", Timestamp: "1/5/2026 9:00:00 AM", Payload: "b", Index: 1},
		{PersonKey: "Q", Timestamp: "1/2/2026 9:00:00 AM", Payload: "c", Index: 2},
	}

	first := run(t, rows, letterOpts)
	require.Len(t, first.Decisions, 2)

	again := make([]model.RawRow, 0, len(first.Decisions))
	for i, d := range first.Decisions {
		again = append(again, model.RawRow{
			PersonKey: d.PersonKey,
			Timestamp: d.At.Format("1/2/2006 3:04:05 PM"),
			Payload:   d.Payload,
			Index:     i,
		})
	}

	second := run(t, again, letterOpts)
	assert.Equal(t, first.Decisions, second.Decisions)
	assert.Empty(t, second.Rejected)
}

func TestReconcile_ParallelMatchesSequential(t *testing.T) {
	var rows []model.RawRow
	for i := 0; i < 40; i++ {
		key := string(rune('A' + i%10))
		rows = append(rows, model.RawRow{
			PersonKey: key,
			Timestamp: "1/5/2026 9:00:00 AM",
			Payload:   "a",
			Index:     i,
		})
	}

	seq := run(t, rows, letterOpts)

	par := letterOpts
	par.Concurrency = 8
	assert.Equal(t, seq, run(t, rows, par))
}

func TestReconcile_FallbackTimestampLayouts(t *testing.T) {
	rows := []model.RawRow{
		{PersonKey: "P", Timestamp: "2026-01-01 08:00:00", Payload: "a", Index: 0},
		{PersonKey: "P", Timestamp: "1/5/2026", Payload: "b", Index: 1},
	}

	res := run(t, rows, letterOpts)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, "b", res.Decisions[0].Payload)
}
