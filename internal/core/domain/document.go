package domain

import (
	"crypto/md5"
	"encoding/hex"
)

// MinCleanedLength is the minimum rune count of a cleaned document.
// Shorter documents are dropped as noise.
const MinCleanedLength = 50

// DefaultChunkType is the type tag written into chunk metadata.
const DefaultChunkType = "geopolitical_event"

// CleanedDocument is page text after markup cleaning.
type CleanedDocument struct {
	Title   string
	Content string
}

// Chunk is a bounded span of cleaned text.
// ID is the md5 hex digest of Text and nothing else, so identical
// passages from different titles share one ID.
type Chunk struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata is the payload metadata carried with every chunk.
type ChunkMetadata struct {
	Source string `json:"source"`
	Type   string `json:"type"`
}

// ContentHash returns the md5 hex digest of text, used as the chunk id.
func ContentHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
