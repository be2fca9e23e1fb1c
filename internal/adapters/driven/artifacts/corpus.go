package artifacts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// DocStart is the line that introduces each document of the cleaned corpus.
const DocStart = "--- DOC START ---"

var docBodyRegex = regexp.MustCompile(`(?s)TITLE: (.*?)\nCONTENT:\n(.*)`)

// CorpusWriter writes cleaned documents as DOC START blocks.
type CorpusWriter struct {
	c   io.Closer
	buf *bufio.Writer
}

// NewCorpusWriter wraps w. Close closes w.
func NewCorpusWriter(w io.WriteCloser) *CorpusWriter {
	return &CorpusWriter{c: w, buf: bufio.NewWriter(w)}
}

// Write appends one document block.
func (w *CorpusWriter) Write(doc domain.CleanedDocument) error {
	_, err := fmt.Fprintf(w.buf, "%s\nTITLE: %s\nCONTENT:\n%s\n\n", DocStart, doc.Title, doc.Content)
	return err
}

// Close flushes buffered documents and closes the file.
func (w *CorpusWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.c.Close()
		return fmt.Errorf("flushing: %w", err)
	}
	return w.c.Close()
}

// CorpusReader streams DOC START blocks one document at a time.
// Blocks without a TITLE/CONTENT body or with blank content are skipped.
type CorpusReader struct {
	c       io.Closer
	r       *bufio.Reader
	pending strings.Builder
	eof     bool
	skipped int
}

// NewCorpusReader wraps r. Close closes r.
func NewCorpusReader(r io.ReadCloser) *CorpusReader {
	return &CorpusReader{c: r, r: bufio.NewReaderSize(r, 1<<20)}
}

// Next returns the next document, or io.EOF when the corpus is exhausted.
func (r *CorpusReader) Next() (domain.CleanedDocument, error) {
	for {
		block, ok, err := r.nextBlock()
		if err != nil {
			return domain.CleanedDocument{}, err
		}
		if !ok {
			return domain.CleanedDocument{}, io.EOF
		}

		doc, ok := parseBlock(block)
		if !ok {
			r.skipped++
			logger.Debug("skipping malformed corpus block (%d bytes)", len(block))
			continue
		}
		return doc, nil
	}
}

// nextBlock returns the text between the current and the next DOC START
// line. Text before the first marker forms a block of its own.
func (r *CorpusReader) nextBlock() (string, bool, error) {
	for !r.eof {
		line, err := r.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", false, fmt.Errorf("reading corpus: %w", err)
		}
		if errors.Is(err, io.EOF) {
			r.eof = true
		}

		if strings.Contains(line, DocStart) {
			if r.pending.Len() > 0 {
				block := r.pending.String()
				r.pending.Reset()
				return block, true, nil
			}
			continue
		}
		r.pending.WriteString(line)
	}

	if r.pending.Len() == 0 {
		return "", false, nil
	}
	block := r.pending.String()
	r.pending.Reset()
	return block, true, nil
}

// parseBlock extracts the title and content of one block.
func parseBlock(block string) (domain.CleanedDocument, bool) {
	m := docBodyRegex.FindStringSubmatch(block)
	if m == nil {
		return domain.CleanedDocument{}, false
	}
	doc := domain.CleanedDocument{
		Title:   strings.TrimSpace(m[1]),
		Content: strings.TrimSpace(m[2]),
	}
	if doc.Content == "" {
		return domain.CleanedDocument{}, false
	}
	return doc, true
}

// Skipped returns the number of blocks dropped so far.
func (r *CorpusReader) Skipped() int {
	return r.skipped
}

// Close closes the underlying file.
func (r *CorpusReader) Close() error {
	return r.c.Close()
}
