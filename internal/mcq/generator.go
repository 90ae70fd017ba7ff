package mcq

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/analysis"
	"github.com/sranjan/examforge/internal/llm"
)

// Config controls the behavior of the Generator.
type Config struct {
	// Count is the target number of questions per part.
	Count int

	// MaxTokens is the token budget for a batch response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many prior question texts are embedded
	// in the prompt as the novelty constraint.
	MaxPriorQuestions int
}

// DefaultConfig returns the recommended generation configuration.
func DefaultConfig() Config {
	return Config{
		Count:             PartSize,
		MaxTokens:         32768,
		Temperature:       0.7,
		MaxPriorQuestions: 60,
	}
}

// Generator produces one part's worth of questions per call.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewGenerator creates a Generator with the given provider and config.
func NewGenerator(provider llm.Provider, cfg Config, log *zap.Logger) *Generator {
	return &Generator{provider: provider, cfg: cfg, log: log}
}

// recordOutput is a raw record shape before validation and stamping.
type recordOutput struct {
	ChapterTitle  string `json:"chapter_title"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Topic         string `json:"topic"`
	Difficulty    string `json:"difficulty"`
	Explanation   string `json:"explanation"`
}

type batchOutput struct {
	Questions []recordOutput `json:"questions"`
}

// GeneratePart generates the question batch for analysis.Parts[partIndex].
// Prior questions inform the prompt's novelty constraint only. On success
// every record is structurally validated and stamped with its
// session-unique id and the resolved part name — stamping is the only
// post-processing. A batch shorter than the target count is a success;
// callers record the actual count.
func (g *Generator) GeneratePart(ctx context.Context, a *analysis.TextbookAnalysis, partIndex int, prior []MCQ) ([]MCQ, error) {
	chapters, err := a.PartChapters(partIndex)
	if err != nil {
		return nil, err
	}
	part := a.Parts[partIndex]

	ctx = llm.WithPurpose(ctx, "part-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(part, chapters, g.cfg.Count, prior, g.cfg.MaxPriorQuestions)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("part %d generation: %w", partIndex+1, err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse part %d response: %w", partIndex+1, err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("part %d response contains no questions", partIndex+1)
	}

	partTitles := make(map[string]bool, len(part.ChapterTitles))
	for _, t := range part.ChapterTitles {
		partTitles[t] = true
	}

	batch := make([]MCQ, 0, len(out.Questions))
	for i, r := range out.Questions {
		q := MCQ{
			ID:           QuestionID(partIndex, i),
			PartName:     part.Name,
			ChapterTitle: r.ChapterTitle,
			Question:     r.Question,
			Options: Options{
				A: r.OptionA,
				B: r.OptionB,
				C: r.OptionC,
				D: r.OptionD,
			},
			CorrectAnswer: AnswerKey(r.CorrectAnswer),
			Topic:         r.Topic,
			Difficulty:    Difficulty(r.Difficulty),
			Explanation:   r.Explanation,
		}
		if verr := validateRecord(q, i, partTitles); verr != nil {
			return nil, fmt.Errorf("part %d: %w", partIndex+1, verr)
		}
		batch = append(batch, q)
	}

	if len(batch) < g.cfg.Count {
		g.log.Warn("short batch",
			zap.Int("part", partIndex+1),
			zap.Int("want", g.cfg.Count),
			zap.Int("got", len(batch)),
		)
	}

	// Duplicate detection is best-effort: report, never reject.
	if dup := FindDuplicates(batch, prior); !dup.Empty() {
		g.log.Warn("duplicate questions detected",
			zap.Int("part", partIndex+1),
			zap.Strings("ids", dup.IDs),
		)
	}

	return batch, nil
}
