package mcq

import "strings"

// DuplicateReport lists generated questions whose normalized text matches
// a question from an earlier part. Duplicate avoidance is a soft prompt
// constraint; this check observes, it never rejects.
type DuplicateReport struct {
	// IDs of the new questions that duplicate prior ones.
	IDs []string
}

// Empty reports whether no duplicates were found.
func (r DuplicateReport) Empty() bool { return len(r.IDs) == 0 }

// FindDuplicates compares a new batch against prior questions using
// normalized text equality (case-folded, whitespace-collapsed, trailing
// punctuation dropped).
func FindDuplicates(batch, prior []MCQ) DuplicateReport {
	seen := make(map[string]bool, len(prior))
	for _, q := range prior {
		seen[normalizeQuestion(q.Question)] = true
	}

	var report DuplicateReport
	for _, q := range batch {
		if seen[normalizeQuestion(q.Question)] {
			report.IDs = append(report.IDs, q.ID)
		}
	}
	return report
}

func normalizeQuestion(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, ".?! ")
	return strings.Join(strings.Fields(s), " ")
}
