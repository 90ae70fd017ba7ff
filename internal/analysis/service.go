package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sranjan/examforge/internal/llm"
)

// Service performs the one-shot structural analysis of a textbook.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// Config controls the analysis request.
type Config struct {
	// MaxTokens is the token budget for the analysis response.
	MaxTokens int

	// Temperature controls output randomness. Analysis wants determinism.
	Temperature float64
}

// DefaultConfig returns the recommended analysis configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.2,
	}
}

// NewService creates an analysis service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// analysisOutput is the raw response shape before invariant validation.
type analysisOutput struct {
	Chapters []struct {
		Title  string   `json:"title"`
		Topics []string `json:"topics"`
	} `json:"chapters"`
	Parts []struct {
		Name          string   `json:"name"`
		ChapterTitles []string `json:"chapter_titles"`
	} `json:"parts"`
	TotalTopics int    `json:"total_topics"`
	Summary     string `json:"summary"`
}

// Analyze issues exactly one request combining all content blocks with the
// analysis instruction and returns a validated TextbookAnalysis. The call
// is idempotent but expensive; callers invoke it at most once per session.
func (s *Service) Analyze(ctx context.Context, blocks []llm.ContentBlock) (*TextbookAnalysis, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no content blocks to analyze")
	}

	ctx = llm.WithPurpose(ctx, "analysis")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userInstruction},
		},
		Blocks:      blocks,
		Schema:      AnalysisSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}

	var out analysisOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	a := &TextbookAnalysis{
		TotalTopics: out.TotalTopics,
		Summary:     out.Summary,
	}
	for _, c := range out.Chapters {
		a.Chapters = append(a.Chapters, Chapter{Title: c.Title, Topics: c.Topics})
	}
	for _, p := range out.Parts {
		a.Parts = append(a.Parts, Part{Name: p.Name, ChapterTitles: p.ChapterTitles})
	}

	if err := Validate(a); err != nil {
		return nil, fmt.Errorf("analysis rejected: %w", err)
	}

	return a, nil
}
