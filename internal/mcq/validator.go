package mcq

import "fmt"

// ValidationError describes why a generated record failed structural
// validation. Position is the zero-based index within the batch.
type ValidationError struct {
	Position int
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s", e.Position+1, e.Message)
}

// validateRecord checks a single record's structural invariants: required
// fields present, enums valid, and the chapter reference within the
// assigned part. Mathematical correctness is the model's responsibility
// and is not re-checked here.
func validateRecord(q MCQ, pos int, partTitles map[string]bool) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Position: pos, Message: msg}
	}

	if q.Question == "" {
		return fail("question text is empty")
	}
	if q.Options.A == "" || q.Options.B == "" || q.Options.C == "" || q.Options.D == "" {
		return fail("all four options must be non-empty")
	}
	switch q.CorrectAnswer {
	case AnswerA, AnswerB, AnswerC, AnswerD:
	default:
		return fail(fmt.Sprintf("correct_answer %q is not one of A, B, C, D", q.CorrectAnswer))
	}
	switch q.Difficulty {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
	default:
		return fail(fmt.Sprintf("difficulty %q is not one of Easy, Moderate, Challenging", q.Difficulty))
	}
	if q.ChapterTitle == "" {
		return fail("chapter_title is empty")
	}
	if !partTitles[q.ChapterTitle] {
		return fail(fmt.Sprintf("chapter %q does not belong to this part", q.ChapterTitle))
	}
	return nil
}
