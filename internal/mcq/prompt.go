package mcq

import (
	"fmt"
	"strings"

	"github.com/sranjan/examforge/internal/analysis"
)

const systemPrompt = `You are an expert exam author writing multiple-choice questions from textbook content.

Rules:
- Every question must be factually and mathematically correct.
- Each question has exactly 4 options and exactly one correct option. Distractors must be plausible, reflecting common misconceptions, never joke answers.
- Distribute questions fairly across ALL listed chapters. No chapter may dominate the batch.
- Mix question types: conceptual understanding, formula recall, numerical problems, and application to new scenarios.
- Balance difficulty across Easy, Moderate, and Challenging.
- Do not repeat or trivially rephrase any question from the "already generated" list.
- Chapter titles in your output must match the provided list exactly, character for character.`

// buildUserMessage constructs the generation instruction for one part:
// the part's chapter subset (not the full book), the target count, and a
// capped tail of prior question texts as a soft novelty constraint.
func buildUserMessage(part analysis.Part, chapters []analysis.Chapter, count int, prior []MCQ, maxPrior int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Part: %s\n", part.Name)
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions covering these chapters:\n\n", count)

	for _, c := range chapters {
		fmt.Fprintf(&b, "Chapter: %s\n", c.Title)
		if len(c.Topics) > 0 {
			fmt.Fprintf(&b, "Topics: %s\n", strings.Join(c.Topics, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("Already generated in earlier parts (do not repeat):\n")
	b.WriteString(buildPriorList(prior, maxPrior))

	return b.String()
}

// buildPriorList formats prior question texts for the prompt, keeping only
// the most recent entries up to the limit. Returns "None" when empty.
func buildPriorList(prior []MCQ, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
	}
	return strings.TrimRight(b.String(), "\n")
}
