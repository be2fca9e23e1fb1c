package driven

import "github.com/custodia-labs/wikicorpus/internal/core/domain"

// RecordReader streams records from an artifact.
// Next returns io.EOF once the artifact is exhausted.
type RecordReader[T any] interface {
	Next() (T, error)
	Close() error
}

// RecordWriter appends records to an artifact.
type RecordWriter[T any] interface {
	Write(record T) error
	Close() error
}

// ArtifactStore opens the file-based hand-off between pipeline stages.
// Create* truncates the artifact; Open* reads it from the start.
type ArtifactStore interface {
	// SaveIndex writes the harvest index, replacing any previous one.
	SaveIndex(entries []domain.IndexEntry) error

	// LoadIndex reads the harvest index. requireVerdict demands the keep
	// column and fails with domain.ErrValidation when it is absent.
	LoadIndex(requireVerdict bool) ([]domain.IndexEntry, error)

	CreateRaw() (RecordWriter[domain.RawDocument], error)
	OpenRaw() (RecordReader[domain.RawDocument], error)

	CreateClean() (RecordWriter[domain.CleanedDocument], error)
	OpenClean() (RecordReader[domain.CleanedDocument], error)

	CreateChunks() (RecordWriter[domain.Chunk], error)
	OpenChunks() (RecordReader[domain.Chunk], error)
}
