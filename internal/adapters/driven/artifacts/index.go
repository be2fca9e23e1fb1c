package artifacts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// Index column names, in the order they are written.
const (
	ColTitle          = "title"
	ColRevID          = "revid"
	ColKeep           = "keep"
	ColReason         = "reason"
	ColSourceCategory = "source_category"
	ColDepth          = "depth"
)

// IndexHeader is the header row of the harvest index.
var IndexHeader = []string{ColTitle, ColRevID, ColKeep, ColReason, ColSourceCategory, ColDepth}

// WriteIndex writes entries as CSV. An unknown revision is an empty cell.
func WriteIndex(w io.Writer, entries []domain.IndexEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(IndexHeader); err != nil {
		return err
	}

	for _, e := range entries {
		revid := ""
		if e.HasRevision() {
			revid = strconv.FormatInt(e.RevisionID, 10)
		}
		record := []string{
			e.Title,
			revid,
			string(e.Status),
			e.Reason,
			e.SourceCategory,
			strconv.Itoa(e.Depth),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadIndex parses a CSV index. Columns are located by header name, so
// indexes carrying only title,revid,keep are accepted. The title column is
// always required; keep is required when requireVerdict is set. A missing
// required column fails with domain.ErrValidation.
func ReadIndex(r io.Reader, requireVerdict bool) ([]domain.IndexEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: index is empty", domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[strings.ToLower(name)] = i
	}
	if _, ok := cols[ColTitle]; !ok {
		return nil, fmt.Errorf("%w: column %q missing", domain.ErrValidation, ColTitle)
	}
	if _, ok := cols[ColKeep]; requireVerdict && !ok {
		return nil, fmt.Errorf("%w: column %q missing", domain.ErrValidation, ColKeep)
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []domain.IndexEntry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		title := field(record, ColTitle)
		if title == "" {
			continue
		}

		entry := domain.IndexEntry{
			Candidate: domain.Candidate{
				Title:          title,
				RevisionID:     parseRevID(field(record, ColRevID)),
				SourceCategory: field(record, ColSourceCategory),
			},
			Verdict: domain.Verdict{
				Status: parseStatus(field(record, ColKeep)),
				Reason: field(record, ColReason),
			},
		}
		if d, err := strconv.Atoi(field(record, ColDepth)); err == nil {
			entry.Depth = d
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseRevID accepts integer and float renderings ("123", "123.0").
// Anything else is an unknown revision.
func parseRevID(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int64(f)
	}
	return 0
}

// parseStatus maps the keep cell onto a status. Blank means unclassified.
func parseStatus(s string) domain.Status {
	switch strings.ToUpper(s) {
	case "":
		return ""
	case string(domain.StatusKept):
		return domain.StatusKept
	default:
		return domain.StatusIgnored
	}
}
