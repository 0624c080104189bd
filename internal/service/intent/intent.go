// Package intent maps transcript text to a coarse customer intent using an
// ordered keyword rule table.
package intent

import (
	"strings"

	"speech-analyzer-service/internal/models"
)

// Rule assigns Intent when any keyword occurs in the lowercased text.
type Rule struct {
	Intent   models.Intent
	Keywords []string
}

// Matches reports whether any keyword is a substring of lowered.
// lowered must already be lowercase.
func (r Rule) Matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// rules is evaluated top to bottom, first match wins.
var rules = []Rule{
	{Intent: models.IntentPurchaseInterest, Keywords: []string{"buy", "purchase", "interested", "get a new"}},
	{Intent: models.IntentAskForPrice, Keywords: []string{"price", "cost", "how much", "expensive"}},
	{Intent: models.IntentComplaint, Keywords: []string{"not working", "issue", "problem", "complaint"}},
	{Intent: models.IntentProductComparison, Keywords: []string{"compare", "specs", "camera", "battery"}},
	{Intent: models.IntentAskForOffers, Keywords: []string{"offer", "discount", "deal"}},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Intent: r.Intent, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classify returns the intent of the first matching rule, or General.
func Classify(text string) models.Intent {
	lowered := strings.ToLower(text)
	for _, r := range rules {
		if r.Matches(lowered) {
			return r.Intent
		}
	}
	return models.IntentGeneral
}
