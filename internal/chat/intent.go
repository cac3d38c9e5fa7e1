// Package chat answers free-text questions against the latest stored analysis.
package chat

import "strings"

type Intent string

const (
	IntentSummary   Intent = "summary"
	IntentGaps      Intent = "gaps"
	IntentWeek      Intent = "week"
	IntentProjects  Intent = "projects"
	IntentResources Intent = "resources"
	IntentScore     Intent = "score"
	IntentHelp      Intent = "help"
)

type rule struct {
	intent   Intent
	keywords []string
}

// rules are evaluated top to bottom; the first rule with a matching keyword wins.
var rules = []rule{
	{intent: IntentSummary, keywords: []string{"summary", "profile"}},
	{intent: IntentGaps, keywords: []string{"gap", "missing"}},
	{intent: IntentWeek, keywords: []string{"week", "roadmap", "plan"}},
	{intent: IntentProjects, keywords: []string{"project"}},
	{intent: IntentResources, keywords: []string{"resource"}},
	{intent: IntentScore, keywords: []string{"score", "alignment", "readiness"}},
}

// Classify maps text to an intent by substring search in fixed priority order.
func Classify(text string) Intent {
	text = strings.ToLower(text)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(text, keyword) {
				return r.intent
			}
		}
	}
	return IntentHelp
}
