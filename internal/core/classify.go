package core

import "strings"

// Classify resolves a free-text transaction description, plus an optional
// category hint supplied by the ingestion source, to a canonical category.
//
// Priority order, first match wins:
//  1. empty description resolves to Unknown immediately
//  2. item rules, in table order, by substring containment
//  3. general category rules, same test
//  4. the hint, if it names one of the six substantive categories
//  5. Unknown
//
// Containment is deliberately not anchored on word boundaries: bank exports
// abbreviate and concatenate merchant names, so a phrase matching inside a
// longer token still counts.
func Classify(description, hint string) Category {
	if description == "" {
		return CategoryUnknown
	}

	normalized := strings.ToLower(description)

	for _, rule := range itemRules {
		if strings.Contains(normalized, rule.Phrase) {
			return rule.Category
		}
	}
	for _, rule := range categoryRules {
		if strings.Contains(normalized, rule.Phrase) {
			return rule.Category
		}
	}

	if c := Category(hint); c.Substantive() {
		return c
	}
	return CategoryUnknown
}
