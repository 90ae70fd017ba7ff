package assessment

// Status enumerates the pipeline states. Transitions happen only through
// the named Session operations.
type Status string

const (
	// StatusIdle: files may be added; analysis has not run.
	StatusIdle Status = "idle"

	// StatusAnalyzing: the one-shot analysis call is in flight.
	StatusAnalyzing Status = "analyzing"

	// StatusReadyToGenerate: analysis exists; the next part can be generated.
	StatusReadyToGenerate Status = "ready"

	// StatusGenerating: a part-generation call is in flight.
	StatusGenerating Status = "generating"

	// StatusCompleted: all four parts have been generated.
	StatusCompleted Status = "completed"
)
