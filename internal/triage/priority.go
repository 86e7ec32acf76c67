package triage

import (
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Keyword lists for priority scoring. Matching is case-insensitive
// substring containment; multi-word entries must appear verbatim.
var (
	highSignalKeywords = []string{
		"urgent", "emergency", "dangerous", "severe", "critical",
		"hazardous", "injury", "accident", "blocked", "broken",
	}
	mediumSignalKeywords = []string{
		"repair", "fix", "problem", "issue", "concern", "needs attention", "damaged",
	}
	lowSignalKeywords = []string{
		"minor", "small", "request", "suggestion", "maintenance",
	}
)

// ClassifyPriority derives a priority level from free-text complaint
// descriptions. Any high-signal hit wins outright; otherwise medium hits
// must strictly outnumber low hits. Text without keywords is Low, as is
// the empty string.
func ClassifyPriority(text string) domain.ComplaintPriority {
	lowered := strings.ToLower(text)

	if countHits(lowered, highSignalKeywords) > 0 {
		return domain.ComplaintPriorityHigh
	}
	if countHits(lowered, mediumSignalKeywords) > countHits(lowered, lowSignalKeywords) {
		return domain.ComplaintPriorityMedium
	}
	return domain.ComplaintPriorityLow
}

func countHits(lowered string, keywords []string) int {
	hits := 0
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			hits++
		}
	}
	return hits
}
