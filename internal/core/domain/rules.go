package domain

import "strings"

// ClassifyByRules scores the text against every keyword rule and returns the
// best type, its confidence and the keywords that matched.
//
// Per type: score = number of keywords found as case-insensitive substrings,
// confidence = min(score/len(keywords), 1.0). A strictly higher confidence
// wins; ties keep the earlier type in enumeration order. A winning score gets
// a final min(confidence*1.2, 1.0) boost. Zero matches anywhere yields the
// catch-all with confidence 0 and no keywords.
func ClassifyByRules(text string) (DocumentType, float64, []string) {
	textLower := strings.ToLower(text)

	bestType := TypeInne
	bestScore := 0.0
	var bestKeywords []string

	for _, rule := range ClassificationRules {
		if len(rule.Keywords) == 0 {
			continue
		}

		var found []string
		for _, keyword := range rule.Keywords {
			if strings.Contains(textLower, strings.ToLower(keyword)) {
				found = append(found, keyword)
			}
		}
		if len(found) == 0 {
			continue
		}

		confidence := float64(len(found)) / float64(len(rule.Keywords))
		if confidence > 1.0 {
			confidence = 1.0
		}
		if confidence > bestScore {
			bestScore = confidence
			bestType = rule.Type
			bestKeywords = found
		}
	}

	if bestScore > 0 {
		bestScore = bestScore * 1.2
		if bestScore > 1.0 {
			bestScore = 1.0
		}
	}
	if bestKeywords == nil {
		bestKeywords = []string{}
	}
	return bestType, bestScore, bestKeywords
}
