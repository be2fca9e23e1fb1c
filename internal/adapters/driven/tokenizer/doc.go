// Package tokenizer provides driven.Tokenizer implementations for chunk sizing.
//
// Encodings:
//
//   - cl100k_base, p50k_base, r50k_base: BPE counts via tiktoken-go, with the
//     rank files served from the embedded offline loader so no download happens
//   - words: whitespace-separated word counts, useful for tests and dry runs
package tokenizer
