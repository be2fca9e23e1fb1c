// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CategorySource: Paged category member listings (MediaWiki API)
//   - ContentSource: Batched raw wikitext lookups
//   - TitleClassifier: KEPT/IGNORED decision per title
//   - Normaliser: Wikitext to prose cleaning
//   - PostProcessor / PostProcessorPipeline: Chunking and deduplication
//   - Tokenizer: Token counting for chunk sizing
//   - ArtifactStore: File-based hand-off between stages
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, ingest and query are disabled.
//   - VectorStore: Vector storage/search. Only used when EmbeddingService is configured.
//   - ProgressReporter: Per-unit progress output.
//   - MetricsRecorder: Stage counters.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
