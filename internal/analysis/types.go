package analysis

import "fmt"

// PartCount is the fixed number of curriculum parts a textbook is split
// into. Each part is later targeted for one batch of questions.
const PartCount = 4

// Chapter is a single textbook chapter with its topics in book order.
type Chapter struct {
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

// Part is one of exactly four logical curriculum groupings. ChapterTitles
// reference Chapter.Title values from the same analysis.
type Part struct {
	Name          string   `json:"name"`
	ChapterTitles []string `json:"chapterTitles"`
}

// TextbookAnalysis is the one-time structural decomposition of an uploaded
// textbook. Created once per session and immutable thereafter.
type TextbookAnalysis struct {
	Chapters    []Chapter `json:"chapters"`
	Parts       []Part    `json:"parts"`
	TotalTopics int       `json:"totalTopics"`
	Summary     string    `json:"summary"`
}

// ChapterByTitle returns the chapter with the given title.
func (a *TextbookAnalysis) ChapterByTitle(title string) (Chapter, bool) {
	for _, c := range a.Chapters {
		if c.Title == title {
			return c, true
		}
	}
	return Chapter{}, false
}

// PartChapters resolves the chapter subset belonging to parts[partIndex],
// in the part's declared order.
func (a *TextbookAnalysis) PartChapters(partIndex int) ([]Chapter, error) {
	if partIndex < 0 || partIndex >= len(a.Parts) {
		return nil, fmt.Errorf("part index %d out of range", partIndex)
	}

	part := a.Parts[partIndex]
	chapters := make([]Chapter, 0, len(part.ChapterTitles))
	for _, title := range part.ChapterTitles {
		c, ok := a.ChapterByTitle(title)
		if !ok {
			return nil, fmt.Errorf("part %q references unknown chapter %q", part.Name, title)
		}
		chapters = append(chapters, c)
	}
	return chapters, nil
}
