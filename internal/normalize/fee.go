// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// FeeRule pairs a case-insensitive pattern with its canonical outcome. An
// empty Outcome means the matched text itself is the fee.
type FeeRule struct {
	Name    string
	Pattern *regexp.Regexp
	Outcome string
}

const amount = `\d+(?:[.,]\d+)?`

// FeeRules is the default fee table. Order is the tie-break: amounts are
// checked before free and loan phrasing, so "wypożyczenie za 2.5M €"
// resolves to the amount.
var FeeRules = []FeeRule{
	{
		Name:    "millions",
		Pattern: regexp.MustCompile(`(?i)` + amount + `\s*(?:mln\.?|milion\w*|million\w*|m)\s*(?:€|euro|eur)`),
	},
	{
		Name:    "thousands",
		Pattern: regexp.MustCompile(`(?i)` + amount + `\s*(?:tys\.?|tysięcy|thousand|k)\s*(?:€|euro|eur)`),
	},
	{
		Name:    "free",
		Pattern: regexp.MustCompile(`(?i)bezpłatnie|za darmo|bez odstępnego|bez opłaty|wolny transfer|^\s*wolny\s*$|free transfer|free of charge`),
		Outcome: types.FeeFree,
	},
	{
		Name:    "free agent",
		Pattern: regexp.MustCompile(`(?i)wolny(?:m)?\s+agent\w*|free agent`),
		Outcome: types.FeeFree,
	},
	{
		Name:    "loan",
		Pattern: regexp.MustCompile(`(?i)wypożycz\w*|on loan|loan`),
		Outcome: types.FeeLoan,
	},
}

// FeeNormalizer maps fee phrasing onto a canonical fee.
type FeeNormalizer struct {
	// Rules overrides FeeRules when non-nil.
	Rules []FeeRule
}

func (n FeeNormalizer) rules() []FeeRule {
	if n.Rules != nil {
		return n.Rules
	}
	return FeeRules
}

// Normalize returns the outcome of the first rule matching text, or
// types.UnknownFee.
func (n FeeNormalizer) Normalize(text string) string {
	fee, _ := n.Match(text)
	return fee
}

// Match is Normalize that also returns the name of the winning rule, empty
// when nothing matched.
func (n FeeNormalizer) Match(text string) (fee, rule string) {
	for _, r := range n.rules() {
		m := r.Pattern.FindString(text)
		if m == "" {
			continue
		}
		if r.Outcome != "" {
			return r.Outcome, r.Name
		}
		return m, r.Name
	}
	return types.UnknownFee, ""
}

// freeAgent is the rule that also decides the FreeAgent sentinel.
var freeAgent = regexp.MustCompile(`(?i)wolny(?:m)?\s+agent\w*|free agent|bez klubu`)

// IsFreeAgent reports whether text describes a player joining without a club.
func IsFreeAgent(text string) bool {
	return freeAgent.MatchString(text)
}
