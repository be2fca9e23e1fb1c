// Package mediawiki provides a client for the MediaWiki Action API.
//
// It covers the two queries the corpus pipeline needs:
//
//   - category member listings (generator=categorymembers) with opaque
//     continuation tokens and a per-node page cap
//   - batched wikitext lookups (prop=revisions, rvslots=main) with a
//     fallback to the legacy content location
//
// Failures are returned as values wrapping domain.ErrTransport or
// domain.ErrDecode; the client never retries. Requests are spaced by a
// fixed interval to stay polite towards the public API.
package mediawiki
