// Package sqlite provides a SQLite-backed implementation of the driven.VectorStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each point is one row holding its
// vector as a little-endian float32 blob and its payload as JSON.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded at compile time.
//
// # Search
//
// Query is an exact scan: every stored vector is scored by cosine similarity
// against the query vector. This is adequate for corpora of a few hundred
// thousand chunks.
//
// # Data Location
//
// The database file is vectors.db inside the configured store directory
// (default ./vector_storage).
package sqlite
