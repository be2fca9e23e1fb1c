package artifacts

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// maxLineSize bounds a single JSON Lines record. Raw wikitext of the
// longest articles stays well under it.
const maxLineSize = 64 << 20

// jsonlWriter appends one JSON object per line.
type jsonlWriter[T any] struct {
	c   io.Closer
	buf *bufio.Writer
	enc *json.Encoder
}

func newJSONLWriter[T any](w io.WriteCloser) *jsonlWriter[T] {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &jsonlWriter[T]{c: w, buf: buf, enc: enc}
}

// Write encodes record followed by a newline.
func (w *jsonlWriter[T]) Write(record T) error {
	return w.enc.Encode(record)
}

// Close flushes buffered records and closes the file.
func (w *jsonlWriter[T]) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.c.Close()
		return fmt.Errorf("flushing: %w", err)
	}
	return w.c.Close()
}

// jsonlReader decodes one JSON object per line, skipping lines that do
// not decode.
type jsonlReader[T any] struct {
	c       io.Closer
	scanner *bufio.Scanner
	line    int
	skipped int
}

func newJSONLReader[T any](r io.ReadCloser) *jsonlReader[T] {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), maxLineSize)
	return &jsonlReader[T]{c: r, scanner: scanner}
}

// Next returns the next record, or io.EOF when the file is exhausted.
func (r *jsonlReader[T]) Next() (T, error) {
	var zero T
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			r.skipped++
			logger.Debug("skipping malformed line %d: %v", r.line, err)
			continue
		}
		return record, nil
	}
	if err := r.scanner.Err(); err != nil {
		return zero, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return zero, io.EOF
}

// Skipped returns the number of malformed lines dropped so far.
func (r *jsonlReader[T]) Skipped() int {
	return r.skipped
}

// Close closes the underlying file.
func (r *jsonlReader[T]) Close() error {
	return r.c.Close()
}
