package mcq

import "fmt"

// PartSize is the target number of questions per part. The generation
// contract aims for this count but a short batch is still a success.
const PartSize = 100

// Difficulty is the question difficulty label.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "Easy"
	DifficultyModerate    Difficulty = "Moderate"
	DifficultyChallenging Difficulty = "Challenging"
)

// AnswerKey is a multiple-choice option letter.
type AnswerKey string

const (
	AnswerA AnswerKey = "A"
	AnswerB AnswerKey = "B"
	AnswerC AnswerKey = "C"
	AnswerD AnswerKey = "D"
)

// Options holds the four answer options for a question.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the option text for the given key.
func (o Options) Get(key AnswerKey) string {
	switch key {
	case AnswerA:
		return o.A
	case AnswerB:
		return o.B
	case AnswerC:
		return o.C
	case AnswerD:
		return o.D
	}
	return ""
}

// MCQ is a single generated multiple-choice question. Records are created
// in batches, appended to the session sequence, and never mutated.
type MCQ struct {
	// ID is session-unique and deterministic: "p<part>-q<position>",
	// both one-based.
	ID string `json:"id"`

	// PartName is the curriculum part this question belongs to.
	PartName string `json:"partName"`

	// ChapterTitle references a chapter within the assigned part.
	ChapterTitle string `json:"chapterTitle"`

	Question string `json:"question"`

	Options Options `json:"options"`

	// CorrectAnswer is one of A, B, C, D.
	CorrectAnswer AnswerKey `json:"correctAnswer"`

	// Topic is the specific topic within the chapter.
	Topic string `json:"topic"`

	Difficulty Difficulty `json:"difficulty"`

	// Explanation is an optional short justification of the answer.
	Explanation string `json:"explanation,omitempty"`
}

// QuestionID builds the deterministic session-unique id for a question at
// the given zero-based part index and position within the part.
func QuestionID(partIndex, position int) string {
	return fmt.Sprintf("p%d-q%d", partIndex+1, position+1)
}
