// Package classify maps free-text product descriptions to typed package
// codes. Policy lives in an ordered rule table evaluated first-match-wins;
// rule order matters because categories overlap lexically ("group print"
// phrases must be tested before the generic size tokens).
package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tyrakriv/schooldays/internal/model"
)

// Rule is one classification pattern. Matching is by substring containment
// against the normalized input: every All entry must be present and, when Any
// is non-empty, at least one Any entry must be present. Exact short-circuits
// both and matches the whole normalized string.
type Rule struct {
	Exact    []string       `yaml:"exact,omitempty"`
	All      []string       `yaml:"all,omitempty"`
	Any      []string       `yaml:"any,omitempty"`
	Code     string         `yaml:"code"`
	Category model.Category `yaml:"category"`
}

// Result is the classifier's verdict for one description.
type Result struct {
	Code       string
	Category   model.Category
	Normalized string
}

// Classifier evaluates an ordered rule table.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over the given rules, evaluated in order.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns a classifier over the built-in rule table.
func Default() *Classifier {
	return New(DefaultRules())
}

// Classify normalizes text and returns the first matching rule's code and
// category. Unmatched text comes back as CategoryUnknown with an empty code.
// Deterministic and side-effect-free.
func (c *Classifier) Classify(text string) Result {
	p := Normalize(text)

	for _, r := range c.rules {
		if r.matches(p) {
			return Result{Code: r.Code, Category: r.Category, Normalized: p}
		}
	}
	return Result{Category: model.CategoryUnknown, Normalized: p}
}

func (r Rule) matches(p string) bool {
	if len(r.Exact) > 0 {
		for _, e := range r.Exact {
			if p == e {
				return true
			}
		}
		return false
	}

	for _, s := range r.All {
		if !strings.Contains(p, s) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return len(r.All) > 0
	}
	for _, s := range r.Any {
		if strings.Contains(p, s) {
			return true
		}
	}
	return false
}

// Normalize lowers, trims, and NFKC-folds a description so typographic
// quotes and primes from the export ("8″ x 10″", "3x5’s") compare cleanly.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
