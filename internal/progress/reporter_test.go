package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

func TestNew_BufferIsNotInteractive(t *testing.T) {
	r := New(new(bytes.Buffer))
	assert.False(t, r.interactive)
}

func TestReporter_PlainLines(t *testing.T) {
	buf := new(bytes.Buffer)
	r := NewPlain(buf)

	r.Start("fetch", 2)
	r.Step("batch 1: 50/50 pages")
	r.Step("batch 2: 7/9 pages")

	out := buf.String()
	assert.Contains(t, out, "▸ fetch")
	assert.Contains(t, out, "[fetch 1/2] batch 1: 50/50 pages\n")
	assert.Contains(t, out, "[fetch 2/2] batch 2: 7/9 pages\n")
	assert.NotContains(t, out, "\r")
}

func TestReporter_UnknownTotal(t *testing.T) {
	buf := new(bytes.Buffer)
	r := NewPlain(buf)

	r.Start("harvest", 0)
	r.Step("Category:Root [depth 0, 4 pages]")

	assert.Contains(t, buf.String(), "[harvest #1] Category:Root [depth 0, 4 pages]")
}

func TestReporter_StartResetsCount(t *testing.T) {
	buf := new(bytes.Buffer)
	r := NewPlain(buf)

	r.Start("clean", 0)
	r.Step("A")
	r.Start("chunk", 0)
	r.Step("A: 2 chunks")

	assert.Contains(t, buf.String(), "[chunk #1] A: 2 chunks")
}

func TestReporter_InteractiveRedrawsInPlace(t *testing.T) {
	buf := new(bytes.Buffer)
	r := newReporter(buf, true)

	r.Start("ingest", 4)
	r.Step("512 points")
	r.Step("1024 points")
	r.Finish(domain.StageSummary{Stage: domain.StageIngest, PointsIngested: 1024})

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\r"))
	assert.Contains(t, out, "2/4")
	assert.Contains(t, out, "ingest complete")
}

func TestReporter_FinishPrintsSummary(t *testing.T) {
	buf := new(bytes.Buffer)
	r := NewPlain(buf)

	r.Finish(domain.StageSummary{
		Stage:             domain.StageHarvest,
		CategoriesVisited: 12,
		PagesHarvested:    40,
		PagesKept:         31,
		PagesIgnored:      9,
		Duration:          1500 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "harvest complete")
	assert.Regexp(t, `Pages kept\s+31`, out)
	assert.Regexp(t, `Categories visited\s+12`, out)
	assert.Contains(t, out, "1.5s")
	assert.NotContains(t, out, "Points ingested")
}

func TestSummaryRows(t *testing.T) {
	rows := summaryRows(domain.StageSummary{
		Stage:          domain.StageFetch,
		BatchesFetched: 3,
		BatchesFailed:  1,
		PagesFetched:   140,
	})

	require.Len(t, rows, 4)
	assert.Equal(t, summaryRow{key: "Batches fetched", value: "3"}, rows[0])
	assert.Equal(t, summaryRow{key: "Batches failed", value: "1", warn: true}, rows[1])
	assert.Equal(t, "Pages fetched", rows[2].key)
	assert.Equal(t, "Duration", rows[3].key)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Fran…", truncate("France–Germany", 5))
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil, nil)

	require.NotNil(t, styles)
	assert.Equal(t, DefaultTheme(), styles.Theme())
}
