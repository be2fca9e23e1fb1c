package domain

import (
	"fmt"
	"strings"
	"time"
)

// Stage names an operator-selectable pipeline step.
type Stage string

// Pipeline stages in their natural order.
const (
	StageHarvest  Stage = "harvest"
	StageClassify Stage = "classify"
	StageFetch    Stage = "fetch"
	StageClean    Stage = "clean"
	StageChunk    Stage = "chunk"
	StageIngest   Stage = "ingest"
)

// AllStages returns every stage in pipeline order.
func AllStages() []Stage {
	return []Stage{StageHarvest, StageClassify, StageFetch, StageClean, StageChunk, StageIngest}
}

// IsValid returns true if the stage is recognised.
func (s Stage) IsValid() bool {
	for _, st := range AllStages() {
		if s == st {
			return true
		}
	}
	return false
}

// ParseStages converts stage names into stages, rejecting unknown names.
// Names are trimmed; blank names are skipped.
func ParseStages(names []string) ([]Stage, error) {
	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		st := Stage(name)
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownStage, name, AllStages())
		}
		stages = append(stages, st)
	}
	return stages, nil
}

// StageSummary holds the terminal counters reported after a stage.
// Counters that do not apply to a stage stay zero.
type StageSummary struct {
	Stage Stage

	// Harvest.
	CategoriesVisited int
	PagesHarvested    int
	CategoryFailures  int

	// Classify.
	PagesKept    int
	PagesIgnored int

	// Fetch.
	BatchesFetched int
	BatchesFailed  int
	PagesFetched   int
	PagesMissing   int

	// Clean.
	DocumentsCleaned int
	DocumentsShort   int
	LinesMalformed   int

	// Chunk.
	ChunksEmitted     int
	DuplicatesDropped int

	// Ingest.
	PointsIngested int

	Duration time.Duration
}
