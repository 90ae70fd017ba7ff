package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner    Provider
	eventLog store.EventLog
	log      *zap.Logger
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, eventLog store.EventLog, log *zap.Logger) Provider {
	return &LoggingProvider{inner: p, eventLog: eventLog, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMEventData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latencyMs,
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Record the event but never fail the request over logging.
	if logErr := l.eventLog.AppendLLMRequest(ctx, data); logErr != nil {
		l.log.Warn("failed to record LLM request event", zap.Error(logErr))
	}

	l.log.Debug("llm request",
		zap.String("purpose", purpose),
		zap.String("model", data.Model),
		zap.Int64("latency_ms", latencyMs),
		zap.Bool("success", err == nil),
	)

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
