package analysis

import "fmt"

// Validate checks the structural invariants of an analysis beyond what the
// response schema enforces: exactly four parts, unique chapter titles,
// every part reference resolving, and every chapter assigned to at least
// one part (overlap is tolerated, omission is not).
func Validate(a *TextbookAnalysis) error {
	if len(a.Chapters) == 0 {
		return fmt.Errorf("analysis contains no chapters")
	}
	if len(a.Parts) != PartCount {
		return fmt.Errorf("analysis must contain exactly %d parts, got %d", PartCount, len(a.Parts))
	}

	titles := make(map[string]bool, len(a.Chapters))
	for _, c := range a.Chapters {
		if c.Title == "" {
			return fmt.Errorf("chapter with empty title")
		}
		if titles[c.Title] {
			return fmt.Errorf("duplicate chapter title %q", c.Title)
		}
		titles[c.Title] = true
	}

	covered := make(map[string]bool, len(titles))
	for i, p := range a.Parts {
		if p.Name == "" {
			return fmt.Errorf("part %d has an empty name", i+1)
		}
		if len(p.ChapterTitles) == 0 {
			return fmt.Errorf("part %q contains no chapters", p.Name)
		}
		for _, t := range p.ChapterTitles {
			if !titles[t] {
				return fmt.Errorf("part %q references unknown chapter %q", p.Name, t)
			}
			covered[t] = true
		}
	}

	for _, c := range a.Chapters {
		if !covered[c.Title] {
			return fmt.Errorf("chapter %q is not assigned to any part", c.Title)
		}
	}

	return nil
}
