package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure BPE implements the interface.
var _ driven.Tokenizer = (*BPE)(nil)

var loaderOnce sync.Once

// BPE counts tokens with a tiktoken byte-pair encoding.
type BPE struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewBPE loads the named encoding.
func NewBPE(encoding string) (*BPE, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &BPE{name: encoding, enc: enc}, nil
}

// Count returns the number of BPE tokens in text. Special tokens are
// encoded as ordinary text.
func (b *BPE) Count(text string) int {
	return len(b.enc.Encode(text, nil, nil))
}

// Name returns the encoding name.
func (b *BPE) Name() string {
	return b.name
}
