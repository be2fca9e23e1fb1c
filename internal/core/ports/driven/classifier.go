package driven

import "github.com/custodia-labs/wikicorpus/internal/core/domain"

// TitleClassifier decides whether a page title belongs in the corpus.
// Implementations must be pure and total: the same title always yields the
// same verdict and no input panics.
type TitleClassifier interface {
	Classify(title string) domain.Verdict
}
