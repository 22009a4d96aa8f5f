package search

import "strings"

const suggestionLimit = 5

// conceptExpansions maps common query terms to the curriculum topics a
// learner is usually reaching for.
var conceptExpansions = []struct {
	keyword    string
	expansions []string
}{
	{"adm", []string{"Architecture Development Method", "ADM phases", "ADM guidelines"}},
	{"architecture", []string{"Business Architecture", "Data Architecture", "Application Architecture", "Technology Architecture"}},
	{"governance", []string{"Architecture Governance", "Architecture Board", "Architecture Compliance"}},
	{"stakeholder", []string{"Stakeholder Management", "Stakeholder Requirements", "Stakeholder Concerns"}},
	{"gap", []string{"Gap Analysis", "Architecture Gap", "Solution Gap"}},
	{"migration", []string{"Migration Planning", "Implementation Migration", "Transition Architecture"}},
}

// Suggestions expands a query into related curriculum search terms,
// capped at five.
func Suggestions(queryText string) []string {
	lower := strings.ToLower(queryText)

	var suggestions []string
	for _, c := range conceptExpansions {
		if strings.Contains(lower, c.keyword) {
			suggestions = append(suggestions, c.expansions...)
		}
	}
	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}
	return suggestions
}
