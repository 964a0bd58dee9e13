// Package reconcile collapses raw export rows into at most one authoritative
// decision per person. Anything ambiguous is rejected with a reason instead
// of guessed at.
package reconcile

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tyrakriv/schooldays/internal/model"
)

// Options configures one reconciliation pass. The dataset is treated as an
// immutable snapshot; Reconcile never mutates its input.
type Options struct {
	// HasTimestampField reports whether the dataset resolved an ordering
	// column at all. Without one, multi-row groups cannot be ordered and are
	// rejected wholesale.
	HasTimestampField bool

	// PayloadAlphabet, when non-empty, is the set of payload values a winning
	// row may carry (compared after trim+lower). Values outside it reject the
	// person.
	PayloadAlphabet []string

	// DefaultPayload substitutes for a legitimately absent payload. Absence
	// is not an error; it is simply not provided.
	DefaultPayload string

	// Layouts overrides the timestamp parse layouts. Empty means the
	// default strict-then-fallback list.
	Layouts []string

	// Concurrency bounds the per-group fan-out. Zero or negative means
	// sequential.
	Concurrency int
}

// Result carries everything one pass produced. Accepted and Rejected
// together account for every person key in the input.
type Result struct {
	Decisions []model.Decision
	Rejected  []model.RejectedEntry
	// Persons is the number of distinct person keys considered.
	Persons int
}

// Reconcile groups rows by person key and resolves the authoritative row per
// person. Person groups are independent, so the fold may run them in
// parallel; output order is deterministic regardless (decisions sorted by
// person key, rejections by person key then row index).
func Reconcile(ctx context.Context, rows []model.RawRow, opts Options) Result {
	groups := groupByPerson(rows)

	outcomes := make([]groupOutcome, len(groups))

	g, _ := errgroup.WithContext(ctx)
	if opts.Concurrency > 1 {
		g.SetLimit(opts.Concurrency)
	} else {
		g.SetLimit(1)
	}
	for i := range groups {
		i := i
		g.Go(func() error {
			outcomes[i] = resolveGroup(groups[i], opts)
			return nil
		})
	}
	_ = g.Wait() // group workers never fail; rejections are data

	res := Result{Persons: len(groups)}
	for _, out := range outcomes {
		if out.decision != nil {
			res.Decisions = append(res.Decisions, *out.decision)
		}
		res.Rejected = append(res.Rejected, out.rejected...)
	}

	sort.Slice(res.Decisions, func(i, j int) bool {
		return res.Decisions[i].PersonKey < res.Decisions[j].PersonKey
	})
	sort.Slice(res.Rejected, func(i, j int) bool {
		a, b := res.Rejected[i], res.Rejected[j]
		if a.Row.PersonKey != b.Row.PersonKey {
			return a.Row.PersonKey < b.Row.PersonKey
		}
		return a.Row.Index < b.Row.Index
	})

	return res
}

type group struct {
	key  string
	rows []model.RawRow
}

type groupOutcome struct {
	decision *model.Decision
	rejected []model.RejectedEntry
}

// groupByPerson buckets rows by person key, preserving first-appearance
// order of keys and row order within each bucket.
func groupByPerson(rows []model.RawRow) []group {
	index := make(map[string]int)
	var groups []group
	for _, r := range rows {
		i, ok := index[r.PersonKey]
		if !ok {
			i = len(groups)
			index[r.PersonKey] = i
			groups = append(groups, group{key: r.PersonKey})
		}
		groups[i].rows = append(groups[i].rows, r)
	}
	return groups
}

func resolveGroup(grp group, opts Options) groupOutcome {
	var out groupOutcome

	if len(grp.rows) > 1 && !opts.HasTimestampField {
		for _, r := range grp.rows {
			out.rejected = append(out.rejected, model.RejectedEntry{
				Row:    r,
				Kind:   model.KindDuplicateWithoutOrdering,
				Reason: "duplicate rows, no ordering field",
			})
		}
		return out
	}

	stamped := parseAll(grp.rows, opts.Layouts)

	if len(grp.rows) > 1 {
		for _, s := range stamped {
			if s.invalid {
				for _, r := range grp.rows {
					out.rejected = append(out.rejected, model.RejectedEntry{
						Row:    r,
						Kind:   model.KindUnparseableTimestamp,
						Reason: "multiple rows with invalid/unparseable date",
					})
				}
				return out
			}
		}

		// Newest first; stable so input order breaks exact ties.
		sort.SliceStable(stamped, func(i, j int) bool {
			return stamped[i].at.After(stamped[j].at)
		})

		top := stamped[0]
		tied := []stampedRow{top}
		for _, s := range stamped[1:] {
			if s.at.Equal(top.at) {
				tied = append(tied, s)
			}
		}

		if len(tied) > 1 && conflicting(tied) {
			for _, s := range tied {
				out.rejected = append(out.rejected, model.RejectedEntry{
					Row:      s.row,
					Kind:     model.KindConflictingPayload,
					Reason:   "conflicting payload at identical latest timestamp",
					Siblings: rowsOf(tied),
				})
			}
			return out
		}

		return acceptWinner(top, opts)
	}

	// Single-row group: ordering is moot, the row is accepted even when its
	// timestamp is invalid or absent.
	return acceptWinner(stamped[0], opts)
}

func conflicting(tied []stampedRow) bool {
	seen := make(map[string]struct{}, len(tied))
	for _, s := range tied {
		seen[normalizePayload(s.row.Payload)] = struct{}{}
	}
	return len(seen) > 1
}

func acceptWinner(win stampedRow, opts Options) groupOutcome {
	payload := normalizePayload(win.row.Payload)

	if payload == "" {
		payload = opts.DefaultPayload
	} else if len(opts.PayloadAlphabet) > 0 && !inAlphabet(payload, opts.PayloadAlphabet) {
		return groupOutcome{rejected: []model.RejectedEntry{{
			Row:    win.row,
			Kind:   model.KindInvalidPayloadValue,
			Reason: "invalid payload value",
		}}}
	}

	return groupOutcome{decision: &model.Decision{
		PersonKey:   win.row.PersonKey,
		DisplayName: win.row.DisplayName,
		Payload:     payload,
		At:          win.at,
	}}
}

func inAlphabet(payload string, alphabet []string) bool {
	for _, a := range alphabet {
		if payload == strings.ToLower(strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

func normalizePayload(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rowsOf(tied []stampedRow) []model.RawRow {
	rows := make([]model.RawRow, len(tied))
	for i, s := range tied {
		rows[i] = s.row
	}
	return rows
}
