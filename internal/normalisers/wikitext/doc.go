// Package wikitext strips MediaWiki markup down to plain prose.
//
// Cleaning is an ordered list of named rewrite steps. Each step is a pure
// function from string to string and later steps assume the earlier ones
// already ran, so the order in Steps is significant.
package wikitext
