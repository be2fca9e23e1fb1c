// Package metrics exports stage counters in the Prometheus text format.
// A run owns its registry; Flush writes it to a node-exporter textfile
// when a path is configured.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "wikicorpus"

// Recorder holds the counters of one pipeline run.
type Recorder struct {
	registry *prometheus.Registry
	path     string

	// Per-stage metrics
	StageRuns     *prometheus.CounterVec
	StageDuration *prometheus.GaugeVec
	LastSuccess   *prometheus.GaugeVec

	// Harvest metrics
	CategoriesVisited prometheus.Counter
	CategoryFailures  prometheus.Counter
	PagesHarvested    prometheus.Counter
	PagesClassified   *prometheus.CounterVec

	// Fetch metrics
	Batches      *prometheus.CounterVec
	PagesFetched prometheus.Counter
	PagesMissing prometheus.Counter

	// Clean and chunk metrics
	DocumentsCleaned  prometheus.Counter
	DocumentsShort    prometheus.Counter
	LinesMalformed    *prometheus.CounterVec
	ChunksEmitted     prometheus.Counter
	DuplicatesDropped prometheus.Counter

	// Ingest metrics
	PointsIngested prometheus.Counter
}

// New creates a recorder with a fresh registry. An empty path disables Flush.
func New(path string) *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{registry: reg, path: path}
	initStageMetrics(r, promauto.With(reg))
	initCorpusMetrics(r, promauto.With(reg))
	return r
}

func initStageMetrics(r *Recorder, f promauto.Factory) {
	r.StageRuns = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_runs_total",
		Help:      "Completed stage runs",
	}, []string{"stage"})

	r.StageDuration = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of the last run of each stage",
	}, []string{"stage"})

	r.LastSuccess = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stage_last_success_timestamp_seconds",
		Help:      "Unix time at which each stage last completed",
	}, []string{"stage"})
}

func initCorpusMetrics(r *Recorder, f promauto.Factory) {
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	r.CategoriesVisited = counter("categories_visited_total", "Categories whose members were listed")
	r.CategoryFailures = counter("category_failures_total", "Category listings that ended on an API failure")
	r.PagesHarvested = counter("pages_harvested_total", "Unique page titles written to the index")
	r.PagesClassified = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_classified_total",
		Help:      "Classifier verdicts by status",
	}, []string{"status"})

	r.Batches = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_batches_total",
		Help:      "Content batches by outcome",
	}, []string{"outcome"})
	r.PagesFetched = counter("pages_fetched_total", "Pages with content written to the raw corpus")
	r.PagesMissing = counter("pages_missing_total", "Requested pages returned without content")

	r.DocumentsCleaned = counter("documents_cleaned_total", "Documents passed through a text stage")
	r.DocumentsShort = counter("documents_short_total", "Documents dropped as too short after cleaning")
	r.LinesMalformed = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_malformed_total",
		Help:      "Artifact records skipped as malformed, by stage",
	}, []string{"stage"})
	r.ChunksEmitted = counter("chunks_emitted_total", "Chunks written after deduplication")
	r.DuplicatesDropped = counter("chunks_duplicate_total", "Chunks dropped as duplicates")

	r.PointsIngested = counter("points_ingested_total", "Points upserted into the vector store")
}

// RecordStage adds the counters of one finished stage.
func (r *Recorder) RecordStage(s domain.StageSummary) {
	stage := string(s.Stage)
	r.StageRuns.WithLabelValues(stage).Inc()
	r.StageDuration.WithLabelValues(stage).Set(s.Duration.Seconds())
	r.LastSuccess.WithLabelValues(stage).SetToCurrentTime()

	switch s.Stage {
	case domain.StageHarvest:
		r.CategoriesVisited.Add(float64(s.CategoriesVisited))
		r.CategoryFailures.Add(float64(s.CategoryFailures))
		r.PagesHarvested.Add(float64(s.PagesHarvested))
		r.addVerdicts(s)
	case domain.StageClassify:
		r.addVerdicts(s)
	case domain.StageFetch:
		r.Batches.WithLabelValues("ok").Add(float64(s.BatchesFetched))
		r.Batches.WithLabelValues("failed").Add(float64(s.BatchesFailed))
		r.PagesFetched.Add(float64(s.PagesFetched))
		r.PagesMissing.Add(float64(s.PagesMissing))
	case domain.StageClean:
		r.DocumentsCleaned.Add(float64(s.DocumentsCleaned))
		r.DocumentsShort.Add(float64(s.DocumentsShort))
	case domain.StageChunk:
		r.ChunksEmitted.Add(float64(s.ChunksEmitted))
		r.DuplicatesDropped.Add(float64(s.DuplicatesDropped))
	case domain.StageIngest:
		r.PointsIngested.Add(float64(s.PointsIngested))
	}

	if s.LinesMalformed > 0 {
		r.LinesMalformed.WithLabelValues(stage).Add(float64(s.LinesMalformed))
	}
}

func (r *Recorder) addVerdicts(s domain.StageSummary) {
	r.PagesClassified.WithLabelValues(string(domain.StatusKept)).Add(float64(s.PagesKept))
	r.PagesClassified.WithLabelValues(string(domain.StatusIgnored)).Add(float64(s.PagesIgnored))
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Path returns the textfile path, empty when disabled.
func (r *Recorder) Path() string {
	return r.path
}

// Flush writes the registry to the textfile. It is a no-op without a path.
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
