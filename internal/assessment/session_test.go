package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/analysis"
	"github.com/sranjan/examforge/internal/llm"
	"github.com/sranjan/examforge/internal/mcq"
	"github.com/sranjan/examforge/internal/textbook"
)

type analyzerFunc func(ctx context.Context, blocks []llm.ContentBlock) (*analysis.TextbookAnalysis, error)

func (f analyzerFunc) Analyze(ctx context.Context, blocks []llm.ContentBlock) (*analysis.TextbookAnalysis, error) {
	return f(ctx, blocks)
}

type generatorFunc func(ctx context.Context, a *analysis.TextbookAnalysis, partIndex int, prior []mcq.MCQ) ([]mcq.MCQ, error)

func (f generatorFunc) GeneratePart(ctx context.Context, a *analysis.TextbookAnalysis, partIndex int, prior []mcq.MCQ) ([]mcq.MCQ, error) {
	return f(ctx, a, partIndex, prior)
}

func stubAnalysis() *analysis.TextbookAnalysis {
	return &analysis.TextbookAnalysis{
		Chapters: []analysis.Chapter{
			{Title: "Mechanics", Topics: []string{"Kinematics"}},
			{Title: "Waves", Topics: []string{"Sound"}},
			{Title: "Thermodynamics", Topics: []string{"Heat"}},
			{Title: "Electricity", Topics: []string{"Circuits"}},
		},
		Parts: []analysis.Part{
			{Name: "Part 1", ChapterTitles: []string{"Mechanics"}},
			{Name: "Part 2", ChapterTitles: []string{"Waves"}},
			{Name: "Part 3", ChapterTitles: []string{"Thermodynamics"}},
			{Name: "Part 4", ChapterTitles: []string{"Electricity"}},
		},
		TotalTopics: 4,
	}
}

func okAnalyzer() Analyzer {
	return analyzerFunc(func(context.Context, []llm.ContentBlock) (*analysis.TextbookAnalysis, error) {
		return stubAnalysis(), nil
	})
}

// batchOf builds a batch of n stamped questions for a part, mirroring what
// the real generator produces.
func batchOf(a *analysis.TextbookAnalysis, partIndex, n int) []mcq.MCQ {
	part := a.Parts[partIndex]
	batch := make([]mcq.MCQ, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, mcq.MCQ{
			ID:            mcq.QuestionID(partIndex, i),
			PartName:      part.Name,
			ChapterTitle:  part.ChapterTitles[0],
			Question:      fmt.Sprintf("%s question %d?", part.Name, i+1),
			Options:       mcq.Options{A: "a", B: "b", C: "c", D: "d"},
			CorrectAnswer: mcq.AnswerA,
			Topic:         "Topic",
			Difficulty:    mcq.DifficultyEasy,
		})
	}
	return batch
}

func okGenerator(perPart int) PartGenerator {
	return generatorFunc(func(_ context.Context, a *analysis.TextbookAnalysis, partIndex int, _ []mcq.MCQ) ([]mcq.MCQ, error) {
		return batchOf(a, partIndex, perPart), nil
	})
}

func pdfFile() textbook.UploadedFile {
	return textbook.UploadedFile{
		Name:       "book.pdf",
		MIMEType:   "application/pdf",
		RawContent: "JVBERi0xLjQ=",
	}
}

func newTestSession(an Analyzer, gen PartGenerator) *Session {
	return NewSession(an, gen, 0, zap.NewNop())
}

func TestSession_FullPipeline(t *testing.T) {
	s := newTestSession(okAnalyzer(), okGenerator(5))
	ctx := context.Background()

	if s.Status() != StatusIdle {
		t.Fatalf("new session should be idle, got %s", s.Status())
	}
	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	a, err := s.StartAnalysis(ctx)
	if err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}
	if len(a.Parts) != analysis.PartCount {
		t.Fatalf("expected %d parts, got %d", analysis.PartCount, len(a.Parts))
	}
	if s.Status() != StatusReadyToGenerate {
		t.Fatalf("expected ready after analysis, got %s", s.Status())
	}

	for part := 0; part < analysis.PartCount; part++ {
		batch, err := s.GenerateNextPart(ctx)
		if err != nil {
			t.Fatalf("part %d: %v", part+1, err)
		}
		if len(batch) != 5 {
			t.Fatalf("part %d: expected 5 questions, got %d", part+1, len(batch))
		}
	}

	if s.Status() != StatusCompleted {
		t.Fatalf("expected completed after 4 parts, got %s", s.Status())
	}

	questions := s.Questions()
	if len(questions) != 4*5 {
		t.Fatalf("expected 20 questions total, got %d", len(questions))
	}

	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		if ids[q.ID] {
			t.Errorf("duplicate question id %q", q.ID)
		}
		ids[q.ID] = true
	}

	// Question order follows part order.
	if questions[0].PartName != "Part 1" || questions[19].PartName != "Part 4" {
		t.Errorf("questions out of part order: first %s, last %s",
			questions[0].PartName, questions[19].PartName)
	}

	if _, err := s.GenerateNextPart(ctx); !errors.Is(err, ErrInvalidState) {
		t.Errorf("generation after completion should be invalid, got %v", err)
	}
}

func TestSession_AnalysisRequiresFiles(t *testing.T) {
	s := newTestSession(okAnalyzer(), okGenerator(1))

	_, err := s.StartAnalysis(context.Background())
	if err == nil {
		t.Fatal("expected error with no files")
	}
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Errorf("expected AnalysisError, got %T", err)
	}
	if s.Status() != StatusIdle {
		t.Errorf("session should stay idle, got %s", s.Status())
	}
}

func TestSession_AnalysisFailureRollsBack(t *testing.T) {
	boom := errors.New("model unavailable")
	calls := 0
	an := analyzerFunc(func(context.Context, []llm.ContentBlock) (*analysis.TextbookAnalysis, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return stubAnalysis(), nil
	})

	s := newTestSession(an, okGenerator(1))
	ctx := context.Background()
	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	_, err := s.StartAnalysis(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped analyzer error, got %v", err)
	}
	if s.Status() != StatusIdle {
		t.Fatalf("failed analysis should return to idle, got %s", s.Status())
	}
	if s.Files() != 1 {
		t.Errorf("files must survive a failed analysis, got %d", s.Files())
	}
	if s.Err() == nil {
		t.Error("last error should be recorded")
	}

	// Retry succeeds without re-uploading.
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if s.Status() != StatusReadyToGenerate {
		t.Errorf("expected ready after retry, got %s", s.Status())
	}
	if s.Err() != nil {
		t.Errorf("last error should be cleared by the new attempt, got %v", s.Err())
	}
}

func TestSession_GenerationFailureRetriesSamePart(t *testing.T) {
	boom := errors.New("rate limited")
	var partsSeen []int
	calls := 0
	gen := generatorFunc(func(_ context.Context, a *analysis.TextbookAnalysis, partIndex int, _ []mcq.MCQ) ([]mcq.MCQ, error) {
		calls++
		partsSeen = append(partsSeen, partIndex)
		if calls == 2 {
			return nil, boom
		}
		return batchOf(a, partIndex, 2), nil
	})

	s := newTestSession(okAnalyzer(), gen)
	ctx := context.Background()
	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	if _, err := s.GenerateNextPart(ctx); err != nil {
		t.Fatalf("part 1: %v", err)
	}

	// Part 2 fails: state stays ready, index does not advance.
	_, err := s.GenerateNextPart(ctx)
	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if gerr.PartIndex != 1 {
		t.Errorf("expected failure on part index 1, got %d", gerr.PartIndex)
	}
	if s.Status() != StatusReadyToGenerate {
		t.Fatalf("failed generation should stay ready, got %s", s.Status())
	}
	if s.CurrentPart() != 1 {
		t.Fatalf("part index must not advance on failure, got %d", s.CurrentPart())
	}
	if got := len(s.Questions()); got != 2 {
		t.Fatalf("failed batch must not be appended, got %d questions", got)
	}

	// Remaining calls retry part 2 and continue to completion.
	for s.Status() != StatusCompleted {
		if _, err := s.GenerateNextPart(ctx); err != nil {
			t.Fatalf("retry: %v", err)
		}
	}

	want := []int{0, 1, 1, 2, 3}
	if len(partsSeen) != len(want) {
		t.Fatalf("expected %d generation calls, got %d (%v)", len(want), len(partsSeen), partsSeen)
	}
	for i, p := range want {
		if partsSeen[i] != p {
			t.Fatalf("call sequence %v, want %v", partsSeen, want)
		}
	}
}

func TestSession_PriorQuestionsGrowAcrossParts(t *testing.T) {
	var priorCounts []int
	gen := generatorFunc(func(_ context.Context, a *analysis.TextbookAnalysis, partIndex int, prior []mcq.MCQ) ([]mcq.MCQ, error) {
		priorCounts = append(priorCounts, len(prior))
		return batchOf(a, partIndex, 3), nil
	})

	s := newTestSession(okAnalyzer(), gen)
	ctx := context.Background()
	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}
	for part := 0; part < analysis.PartCount; part++ {
		if _, err := s.GenerateNextPart(ctx); err != nil {
			t.Fatalf("part %d: %v", part+1, err)
		}
	}

	want := []int{0, 3, 6, 9}
	for i, w := range want {
		if priorCounts[i] != w {
			t.Fatalf("prior counts %v, want %v", priorCounts, want)
		}
	}
}

func TestSession_BusyRejection(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gen := generatorFunc(func(_ context.Context, a *analysis.TextbookAnalysis, partIndex int, _ []mcq.MCQ) ([]mcq.MCQ, error) {
		close(started)
		<-release
		return batchOf(a, partIndex, 1), nil
	})

	s := newTestSession(okAnalyzer(), gen)
	ctx := context.Background()
	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.GenerateNextPart(ctx); err != nil {
			t.Errorf("in-flight generation: %v", err)
		}
	}()

	<-started
	if s.Status() != StatusGenerating {
		t.Errorf("expected generating while in flight, got %s", s.Status())
	}
	if _, err := s.GenerateNextPart(ctx); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent generation should be busy, got %v", err)
	}
	if _, err := s.StartAnalysis(ctx); !errors.Is(err, ErrBusy) {
		t.Errorf("analysis during generation should be busy, got %v", err)
	}

	// Reset is refused while a call is in flight.
	s.Reset()
	if s.Status() != StatusGenerating {
		t.Errorf("reset must not interrupt an in-flight call, got %s", s.Status())
	}

	close(release)
	wg.Wait()

	if s.Status() != StatusReadyToGenerate {
		t.Errorf("expected ready after completion, got %s", s.Status())
	}
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := newTestSession(okAnalyzer(), okGenerator(1))
	ctx := context.Background()

	// Generation before analysis.
	if _, err := s.GenerateNextPart(ctx); !errors.Is(err, ErrInvalidState) {
		t.Errorf("generation while idle should be invalid, got %v", err)
	}

	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	// Second analysis without a reset.
	if _, err := s.StartAnalysis(ctx); !errors.Is(err, ErrInvalidState) {
		t.Errorf("re-analysis should be invalid, got %v", err)
	}
	// File upload after analysis.
	if err := s.AddFile(pdfFile()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("upload after analysis should be invalid, got %v", err)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession(okAnalyzer(), okGenerator(2))
	ctx := context.Background()

	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}
	if _, err := s.GenerateNextPart(ctx); err != nil {
		t.Fatalf("GenerateNextPart: %v", err)
	}

	s.Reset()

	if s.Status() != StatusIdle {
		t.Errorf("expected idle after reset, got %s", s.Status())
	}
	if s.Files() != 0 || s.Analysis() != nil || len(s.Questions()) != 0 || s.CurrentPart() != 0 {
		t.Error("reset should discard all session state")
	}

	// The session is usable again from scratch.
	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile after reset: %v", err)
	}
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("StartAnalysis after reset: %v", err)
	}
}

func TestSession_StageTimeout(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, a *analysis.TextbookAnalysis, partIndex int, _ []mcq.MCQ) ([]mcq.MCQ, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return batchOf(a, partIndex, 1), nil
		}
	})

	s := NewSession(okAnalyzer(), gen, 20*time.Millisecond, zap.NewNop())
	ctx := context.Background()
	if err := s.AddFile(pdfFile()); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := s.StartAnalysis(ctx); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	_, err := s.GenerateNextPart(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if s.Status() != StatusReadyToGenerate {
		t.Errorf("timeout should leave session ready for retry, got %s", s.Status())
	}
}
