package driven

import "github.com/custodia-labs/wikicorpus/internal/core/domain"

// ProgressReporter receives per-unit progress from long-running stages.
type ProgressReporter interface {
	// Start begins a unit-of-work sequence. total is zero when unknown.
	Start(label string, total int)

	// Step records one completed unit with a short detail string.
	Step(detail string)

	// Finish ends the sequence and prints the stage summary.
	Finish(summary domain.StageSummary)
}

// MetricsRecorder accumulates stage counters for export.
type MetricsRecorder interface {
	RecordStage(summary domain.StageSummary)
	Flush() error
}
