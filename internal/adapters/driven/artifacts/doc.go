// Package artifacts provides the file-based hand-off between pipeline stages.
//
// Every stage reads the artifact written by the stage before it:
//
//   - harvest index: CSV with header title,revid,keep,reason,source_category,depth
//   - raw corpus: JSON Lines, one {"title","raw_content"} object per line
//   - cleaned corpus: plain text blocks introduced by a "--- DOC START ---" line
//   - chunks: JSON Lines, one {"id","title","text","metadata"} object per line
//
// Readers stream records one at a time. Malformed records are skipped and
// counted rather than failing the read.
package artifacts
