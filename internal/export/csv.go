package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sranjan/examforge/internal/mcq"
)

// csvHeader is the fixed export header row.
var csvHeader = []string{
	"Part", "Chapter", "Question",
	"Option A", "Option B", "Option C", "Option D",
	"Correct Answer",
}

// WriteCSV writes the accumulated questions as CSV in sequence order:
// header row first, then one row per question. encoding/csv applies
// RFC 4180 quoting, so embedded double quotes are doubled and the field
// wrapped in quotes.
func WriteCSV(w io.Writer, questions []mcq.MCQ) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, q := range questions {
		row := []string{
			q.PartName,
			q.ChapterTitle,
			q.Question,
			q.Options.A,
			q.Options.B,
			q.Options.C,
			q.Options.D,
			string(q.CorrectAnswer),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FilterPart returns the slice of questions belonging to the given part
// index by position: rows where floor(index/PartSize) == partIndex.
func FilterPart(questions []mcq.MCQ, partIndex int) []mcq.MCQ {
	var out []mcq.MCQ
	for i, q := range questions {
		if i/mcq.PartSize == partIndex {
			out = append(out, q)
		}
	}
	return out
}
