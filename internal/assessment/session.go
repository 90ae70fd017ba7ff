package assessment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/analysis"
	"github.com/sranjan/examforge/internal/llm"
	"github.com/sranjan/examforge/internal/mcq"
	"github.com/sranjan/examforge/internal/textbook"
)

// Analyzer is the analysis stage as the session consumes it.
type Analyzer interface {
	Analyze(ctx context.Context, blocks []llm.ContentBlock) (*analysis.TextbookAnalysis, error)
}

// PartGenerator is the part-generation stage as the session consumes it.
type PartGenerator interface {
	GeneratePart(ctx context.Context, a *analysis.TextbookAnalysis, partIndex int, prior []mcq.MCQ) ([]mcq.MCQ, error)
}

// Session is the pipeline state machine for one assessment. All state is
// in memory and discarded when the session is dropped; it is mutated only
// through StartAnalysis, GenerateNextPart, AddFile, and Reset, and at most
// one stage call is in flight at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	analyzer  Analyzer
	generator PartGenerator

	// stageTimeout bounds each stage call. Zero means no timeout.
	stageTimeout time.Duration

	log *zap.Logger

	mu          sync.Mutex
	status      Status
	files       []textbook.UploadedFile
	analysis    *analysis.TextbookAnalysis
	questions   []mcq.MCQ
	currentPart int
	lastErr     error
}

// NewSession creates an Idle session with no files.
func NewSession(analyzer Analyzer, generator PartGenerator, stageTimeout time.Duration, log *zap.Logger) *Session {
	return &Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		analyzer:     analyzer,
		generator:    generator,
		stageTimeout: stageTimeout,
		log:          log,
		status:       StatusIdle,
	}
}

// AddFile registers an uploaded file. Valid only while Idle.
func (s *Session) AddFile(f textbook.UploadedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusIdle {
		return ErrInvalidState
	}
	s.files = append(s.files, f)
	return nil
}

// Reset discards all session state and returns to Idle. Required before
// re-running analysis: the analysis call is at most once per session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusAnalyzing || s.status == StatusGenerating {
		// An in-flight call owns the state; its completion handler will
		// observe whatever it finds. Refuse to yank state out from under it.
		return
	}
	s.files = nil
	s.analysis = nil
	s.questions = nil
	s.currentPart = 0
	s.lastErr = nil
	s.status = StatusIdle
}

// StartAnalysis runs the one-shot structural analysis. Valid only from
// Idle with at least one file present. On success the session moves to
// ReadyToGenerate with the part index at zero; on failure it records the
// error and returns to Idle, keeping the files.
func (s *Session) StartAnalysis(ctx context.Context) (*analysis.TextbookAnalysis, error) {
	s.mu.Lock()
	if s.status == StatusAnalyzing || s.status == StatusGenerating {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.status != StatusIdle {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	if len(s.files) == 0 {
		s.mu.Unlock()
		return nil, &AnalysisError{Err: errNoFiles}
	}
	files := make([]textbook.UploadedFile, len(s.files))
	copy(files, s.files)
	s.status = StatusAnalyzing
	s.lastErr = nil
	s.mu.Unlock()

	result, err := s.runAnalysis(ctx, files)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		aerr := &AnalysisError{Err: err}
		s.lastErr = aerr
		s.status = StatusIdle
		s.log.Warn("analysis failed", zap.String("session", s.ID), zap.Error(err))
		return nil, aerr
	}

	s.analysis = result
	s.currentPart = 0
	s.status = StatusReadyToGenerate
	s.log.Info("analysis complete",
		zap.String("session", s.ID),
		zap.Int("chapters", len(result.Chapters)),
		zap.Int("topics", result.TotalTopics),
	)
	return result, nil
}

func (s *Session) runAnalysis(ctx context.Context, files []textbook.UploadedFile) (*analysis.TextbookAnalysis, error) {
	blocks, err := textbook.Extract(files)
	if err != nil {
		return nil, err
	}
	if s.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.stageTimeout)
		defer cancel()
	}
	return s.analyzer.Analyze(ctx, blocks)
}

// GenerateNextPart generates the batch for the current part index. Valid
// only from ReadyToGenerate. On success the batch is appended, the index
// advances, and the session moves to Completed when the index reaches the
// part count, otherwise back to ReadyToGenerate. On failure the index does
// not advance, so the same part is retried next call.
func (s *Session) GenerateNextPart(ctx context.Context) ([]mcq.MCQ, error) {
	s.mu.Lock()
	if s.status == StatusAnalyzing || s.status == StatusGenerating {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.status != StatusReadyToGenerate || s.currentPart >= analysis.PartCount {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	a := s.analysis
	part := s.currentPart
	prior := make([]mcq.MCQ, len(s.questions))
	copy(prior, s.questions)
	s.status = StatusGenerating
	s.lastErr = nil
	s.mu.Unlock()

	genCtx := ctx
	if s.stageTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.stageTimeout)
		defer cancel()
	}
	batch, err := s.generator.GeneratePart(genCtx, a, part, prior)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		gerr := &GenerationError{PartIndex: part, Err: err}
		s.lastErr = gerr
		s.status = StatusReadyToGenerate
		s.log.Warn("part generation failed",
			zap.String("session", s.ID),
			zap.Int("part", part+1),
			zap.Error(err),
		)
		return nil, gerr
	}

	s.questions = append(s.questions, batch...)
	s.currentPart++
	if s.currentPart >= analysis.PartCount {
		s.status = StatusCompleted
	} else {
		s.status = StatusReadyToGenerate
	}
	s.log.Info("part generated",
		zap.String("session", s.ID),
		zap.Int("part", part+1),
		zap.Int("count", len(batch)),
		zap.Int("total", len(s.questions)),
	)
	return batch, nil
}

// Status returns the current pipeline status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Files returns the number of uploaded files.
func (s *Session) Files() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Analysis returns the textbook analysis, or nil before analysis has run.
func (s *Session) Analysis() *analysis.TextbookAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// Questions returns a copy of the accumulated question sequence.
func (s *Session) Questions() []mcq.MCQ {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mcq.MCQ, len(s.questions))
	copy(out, s.questions)
	return out
}

// CurrentPart returns the number of successfully completed
// part-generation calls, which is also the next part index.
func (s *Session) CurrentPart() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPart
}

// Err returns the error recorded by the most recent failed operation, or
// nil. It is cleared when a new operation starts.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
