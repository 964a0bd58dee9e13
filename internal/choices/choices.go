// Package choices folds one person's classified line items into choice
// groups and enforces the per-group cardinality rules: one addon, one
// service, at most two distinct group-print types.
package choices

import (
	"fmt"
	"strings"

	"github.com/tyrakriv/schooldays/internal/classify"
	"github.com/tyrakriv/schooldays/internal/model"
)

// CombinedGroupedText labels the single synthesized line item that carries a
// group's accumulated group-print codes.
const CombinedGroupedText = "combined group prints"

// Options tunes the limits engine.
type Options struct {
	// MaxDistinctGrouped caps distinct group-print codes per choice group.
	// Zero means the default of 2.
	MaxDistinctGrouped int
}

// GroupAndLimit classifies each of a person's rows and buckets them by
// secondary key. An absent secondary key lands every item in a single
// implicit group (empty key). Groups come back in first-appearance order;
// rejections accumulate per person and never abort the fold.
func GroupAndLimit(rows []model.RawRow, cls *classify.Classifier, opts Options) ([]model.ChoiceGroup, []model.RejectedEntry) {
	maxGrouped := opts.MaxDistinctGrouped
	if maxGrouped <= 0 {
		maxGrouped = 2
	}

	var (
		order    []string
		groups   = make(map[string]*accum)
		seen     = make(map[[2]string]struct{})
		rejected []model.RejectedEntry
	)

	reject := func(row model.RawRow, kind model.Kind, reason string) {
		rejected = append(rejected, model.RejectedEntry{Row: row, Kind: kind, Reason: reason})
	}

	for _, row := range rows {
		res := cls.Classify(row.Payload)
		if res.Category == model.CategoryIgnored {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(row.SecondaryKey))

		dupKey := [2]string{key, res.Normalized}
		if _, dup := seen[dupKey]; dup {
			reject(row, model.KindDuplicateLineItem, "duplicate line item")
			continue
		}
		seen[dupKey] = struct{}{}

		grp, ok := groups[key]
		if !ok {
			grp = &accum{key: key, person: row.PersonKey, groupedSet: make(map[string]struct{})}
			groups[key] = grp
			order = append(order, key)
		}

		qty := row.Quantity
		if qty < 1 {
			qty = 1
		}

		switch res.Category {
		case model.CategoryStandard:
			grp.standard += strings.Repeat(res.Code, qty)
			grp.hasPrimary = true

		case model.CategoryGrouped:
			if _, known := grp.groupedSet[res.Code]; !known && len(grp.groupedSet) >= maxGrouped {
				reject(row, model.KindTooManyDistinctGrouped, "too many distinct grouped-item types")
				continue
			}
			grp.groupedSet[res.Code] = struct{}{}
			grp.groupedCodes += strings.Repeat(res.Code, qty)

		case model.CategoryAddon, model.CategoryService:
			if row.Quantity > 1 {
				reject(row, model.KindQuantityNotAllowed, "quantity not allowed for this category")
				continue
			}
			if grp.hasCategory(res.Category) {
				reject(row, model.KindDuplicateAddonOrService,
					fmt.Sprintf("duplicate %s item (only one allowed)", res.Category))
				continue
			}
			grp.items = append(grp.items, model.LineItem{
				Code:     res.Code,
				Category: res.Category,
				RawText:  row.Payload,
				Target:   fixedTarget(res.Category),
			})

		default: // CategoryUnknown
			reject(row, model.KindUnrecognizedItem, "unrecognized item")
		}
	}

	out := make([]model.ChoiceGroup, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key].finalize())
	}
	return out, rejected
}

type accum struct {
	key          string
	person       string
	standard     string
	hasPrimary   bool
	groupedSet   map[string]struct{}
	groupedCodes string
	items        []model.LineItem
}

func (a *accum) hasCategory(c model.Category) bool {
	for _, it := range a.items {
		if it.Category == c {
			return true
		}
	}
	return false
}

// finalize synthesizes the single combined grouped line item, routed by
// whether the group also holds a standard package.
func (a *accum) finalize() model.ChoiceGroup {
	items := a.items
	if a.groupedCodes != "" {
		items = append(items, model.LineItem{
			Code:     a.groupedCodes,
			Category: model.CategoryGrouped,
			RawText:  CombinedGroupedText,
			Target:   groupedTarget(a.hasPrimary),
		})
	}
	return model.ChoiceGroup{
		PersonKey:     a.person,
		SecondaryKey:  a.key,
		StandardCodes: a.standard,
		HasPrimary:    a.hasPrimary,
		Items:         items,
	}
}

func fixedTarget(c model.Category) model.Target {
	if c == model.CategoryAddon {
		return model.TargetAddon
	}
	return model.TargetService
}

// groupedTarget is a pure function of hasPrimary: grouped items share a box
// with the standard package when one exists, otherwise they go to the
// standalone box.
func groupedTarget(hasPrimary bool) model.Target {
	if hasPrimary {
		return model.TargetGroupedWithPrimary
	}
	return model.TargetGroupedAlone
}
