package export

import (
	"encoding/json"
	"io"

	"github.com/sranjan/examforge/internal/mcq"
)

// WriteJSON serializes the full accumulated question sequence verbatim.
func WriteJSON(w io.Writer, questions []mcq.MCQ) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(questions)
}
