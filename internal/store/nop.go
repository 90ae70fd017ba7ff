package store

import "context"

// NopEventLog discards all events. Used when no database is configured.
type NopEventLog struct{}

func (NopEventLog) AppendLLMRequest(_ context.Context, _ LLMEventData) error {
	return nil
}

func (NopEventLog) QueryLLMEvents(_ context.Context, _ QueryOpts) ([]LLMEvent, error) {
	return nil, nil
}
