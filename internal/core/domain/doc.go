// Package domain defines the core business entities for wikicorpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CategoryNode / Member: nodes of the category graph
//   - Candidate: a harvested page title with its revision id
//   - Verdict: the KEPT/IGNORED decision for a title
//   - RawDocument / CleanedDocument: page markup before and after cleaning
//   - Chunk: a content-addressed, deduplicated unit of text
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
