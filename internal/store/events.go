package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
)

// LLMEventData captures the data for a single LLM request event.
type LLMEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID           string    `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	Provider     string    `db:"provider"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = 50)
	Purpose string // filter by purpose label ("" = all)
}

// EventLog provides append and query access to the LLM request log.
type EventLog interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMEventData) error

	// QueryLLMEvents returns events newest-first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
}

type eventLog struct {
	db *sqlx.DB
}

func (l *eventLog) AppendLLMRequest(ctx context.Context, data LLMEventData) error {
	ev := LLMEvent{
		ID:           newEventID(),
		CreatedAt:    time.Now().UTC(),
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
	}

	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO llm_events
			(id, created_at, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES
			(:id, :created_at, :provider, :model, :purpose, :input_tokens, :output_tokens, :latency_ms, :success, :error_message)`,
		ev)
	if err != nil {
		return fmt.Errorf("insert llm event: %w", err)
	}
	return nil
}

func (l *eventLog) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT * FROM llm_events`
	args := []any{}
	if opts.Purpose != "" {
		query += ` WHERE purpose = ?`
		args = append(args, opts.Purpose)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	var events []LLMEvent
	if err := l.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	return events, nil
}

// newEventID returns a ULID: sortable by creation time, unique under
// concurrent appends.
func newEventID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
