package domain

import "regexp"

// Date formats seen on Polish medical documents. Matching is purely textual;
// "32.13.2024" still matches.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}[-./]\d{2}[-./]\d{4}`),
	regexp.MustCompile(`\d{4}[-./]\d{2}[-./]\d{2}`),
	regexp.MustCompile(`(?i)\d{2}\s+(?:stycznia|lutego|marca|kwietnia|maja|czerwca|lipca|sierpnia|września|października|listopada|grudnia)\s+\d{4}`),
}

// ExtractDates returns the deduplicated date-like substrings of text, in
// order of first appearance per pattern. Empty text yields an empty slice.
func ExtractDates(text string) []string {
	seen := make(map[string]struct{})
	dates := []string{}
	for _, pattern := range datePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			dates = append(dates, match)
		}
	}
	return dates
}
