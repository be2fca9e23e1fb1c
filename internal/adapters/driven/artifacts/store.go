package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Skipper is implemented by readers that drop malformed records.
type Skipper interface {
	// Skipped returns the number of records dropped so far.
	Skipped() int
}

// Store opens artifacts at fixed paths.
type Store struct {
	paths domain.PathSettings
}

// NewStore creates a store over the given artifact paths.
func NewStore(paths domain.PathSettings) *Store {
	return &Store{paths: paths}
}

// Paths returns the artifact paths.
func (s *Store) Paths() domain.PathSettings {
	return s.paths
}

// SaveIndex writes the harvest index, replacing any previous one.
func (s *Store) SaveIndex(entries []domain.IndexEntry) error {
	f, err := create(s.paths.Index)
	if err != nil {
		return err
	}
	if err := WriteIndex(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("writing index %s: %w", s.paths.Index, err)
	}
	return f.Close()
}

// LoadIndex reads the harvest index.
func (s *Store) LoadIndex(requireVerdict bool) ([]domain.IndexEntry, error) {
	f, err := open(s.paths.Index)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := ReadIndex(f, requireVerdict)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", s.paths.Index, err)
	}
	return entries, nil
}

// CreateRaw truncates the raw corpus and returns a writer over it.
func (s *Store) CreateRaw() (driven.RecordWriter[domain.RawDocument], error) {
	f, err := create(s.paths.Raw)
	if err != nil {
		return nil, err
	}
	return newJSONLWriter[domain.RawDocument](f), nil
}

// OpenRaw returns a reader over the raw corpus.
func (s *Store) OpenRaw() (driven.RecordReader[domain.RawDocument], error) {
	f, err := open(s.paths.Raw)
	if err != nil {
		return nil, err
	}
	return newJSONLReader[domain.RawDocument](f), nil
}

// CreateClean truncates the cleaned corpus and returns a writer over it.
func (s *Store) CreateClean() (driven.RecordWriter[domain.CleanedDocument], error) {
	f, err := create(s.paths.Clean)
	if err != nil {
		return nil, err
	}
	return NewCorpusWriter(f), nil
}

// OpenClean returns a reader over the cleaned corpus.
func (s *Store) OpenClean() (driven.RecordReader[domain.CleanedDocument], error) {
	f, err := open(s.paths.Clean)
	if err != nil {
		return nil, err
	}
	return NewCorpusReader(f), nil
}

// CreateChunks truncates the chunk file and returns a writer over it.
func (s *Store) CreateChunks() (driven.RecordWriter[domain.Chunk], error) {
	f, err := create(s.paths.Chunks)
	if err != nil {
		return nil, err
	}
	return newJSONLWriter[domain.Chunk](f), nil
}

// OpenChunks returns a reader over the chunk file.
func (s *Store) OpenChunks() (driven.RecordReader[domain.Chunk], error) {
	f, err := open(s.paths.Chunks)
	if err != nil {
		return nil, err
	}
	return newJSONLReader[domain.Chunk](f), nil
}

// create truncates path, creating parent directories as needed.
func create(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty artifact path", domain.ErrInvalidInput)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

// open opens path for reading. A missing file wraps domain.ErrNotFound.
func open(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty artifact path", domain.ErrInvalidInput)
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}
