package domain

// Status is the keep/drop decision for a title.
type Status string

const (
	// StatusKept marks a title selected for download.
	StatusKept Status = "KEPT"

	// StatusIgnored marks a title dropped from the corpus.
	StatusIgnored Status = "IGNORED"
)

// IsValid returns true if the status is recognised.
func (s Status) IsValid() bool {
	return s == StatusKept || s == StatusIgnored
}

// Verdict is a classification result. It is always attached to a
// Candidate or an index row, never stored on its own.
type Verdict struct {
	Status Status
	Reason string
}

// Kept reports whether the verdict keeps the title.
func (v Verdict) Kept() bool {
	return v.Status == StatusKept
}

// IndexEntry is one row of the harvest index.
type IndexEntry struct {
	Candidate
	Verdict
}
