package tokenizer

import (
	"strings"

	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure Words implements the interface.
var _ driven.Tokenizer = Words{}

// WordsEncoding selects the whitespace word counter.
const WordsEncoding = "words"

// Words counts whitespace-separated words.
type Words struct{}

// Count returns the number of words in text.
func (Words) Count(text string) int {
	return len(strings.Fields(text))
}

// Name returns "words".
func (Words) Name() string {
	return WordsEncoding
}

// New returns the tokenizer for encoding. An empty encoding means cl100k_base.
func New(encoding string) (driven.Tokenizer, error) {
	switch encoding {
	case WordsEncoding:
		return Words{}, nil
	case "":
		return NewBPE("cl100k_base")
	default:
		return NewBPE(encoding)
	}
}
