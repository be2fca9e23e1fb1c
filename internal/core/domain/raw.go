package domain

// RawDocument is the unprocessed wikitext of one page, as returned by the API.
type RawDocument struct {
	Title      string `json:"title"`
	RawContent string `json:"raw_content"`
}
