package services

import (
	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Observers receives progress and counters from stage services.
// Nil fields are ignored.
type Observers struct {
	Progress driven.ProgressReporter
	Metrics  driven.MetricsRecorder
}

func (o Observers) start(label string, total int) {
	if o.Progress != nil {
		o.Progress.Start(label, total)
	}
}

func (o Observers) step(detail string) {
	if o.Progress != nil {
		o.Progress.Step(detail)
	}
}

func (o Observers) finish(summary domain.StageSummary) {
	if o.Progress != nil {
		o.Progress.Finish(summary)
	}
	if o.Metrics != nil {
		o.Metrics.RecordStage(summary)
	}
}
