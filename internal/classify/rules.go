package classify

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/tyrakriv/schooldays/internal/model"
)

// DefaultRules is the built-in classification table, in evaluation order.
// "mini wallet" precedes the wallet rule so it is not swallowed by it, and
// the "group print" family precedes the plain size-token rules so a group
// print never classifies as a standard package.
func DefaultRules() []Rule {
	return []Rule{
		// Explicit opt-outs carry no code and produce no rejection.
		{Exact: []string{"", "no photo package wanted"}, Category: model.CategoryIgnored},

		{Any: []string{"mini wallet"}, Code: "m", Category: model.CategoryStandard},
		{Any: []string{"wallets", "wallet prints"}, Code: "w", Category: model.CategoryStandard},

		{All: []string{"group print", "5", "7"}, Code: "m", Category: model.CategoryGrouped},
		{All: []string{"group print", "8", "10"}, Code: "l", Category: model.CategoryGrouped},
		// Any other group print size is not orderable.
		{All: []string{"group print"}, Category: model.CategoryUnknown},

		{Any: []string{"3x5", "3 x 5"}, Code: "f", Category: model.CategoryStandard},
		{Any: []string{"5x7", "5 x 7"}, Code: "s", Category: model.CategoryStandard},
		{Any: []string{"8x10", "8 x 10"}, Code: "t", Category: model.CategoryStandard},

		{Any: []string{"basic"}, Code: "b", Category: model.CategoryStandard},
		{Any: []string{"classic"}, Code: "c", Category: model.CategoryStandard},
		{Any: []string{"deluxe"}, Code: "d", Category: model.CategoryStandard},
		{Any: []string{"economy"}, Code: "e", Category: model.CategoryStandard},
		{Any: []string{"ultimate"}, Code: "u", Category: model.CategoryStandard},

		{All: []string{"digital", "portraits"}, Code: "CD", Category: model.CategoryAddon},
		{Any: []string{"cd"}, Code: "CD", Category: model.CategoryAddon},

		{Any: []string{"touch up"}, Code: "Pending", Category: model.CategoryService},
	}
}

// LoadRules reads a rule table from a YAML file, replacing the built-in
// table. The file is a list of rules in evaluation order.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "classify: read rules file")
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrap(err, "classify: parse rules file")
	}

	for i, r := range rules {
		switch r.Category {
		case model.CategoryStandard, model.CategoryGrouped, model.CategoryAddon,
			model.CategoryService, model.CategoryIgnored, model.CategoryUnknown:
		default:
			return nil, eris.Errorf("classify: rule %d has unknown category %q", i, r.Category)
		}
	}
	return rules, nil
}
