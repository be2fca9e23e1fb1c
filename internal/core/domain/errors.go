package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Pipeline Errors.

	// ErrTransport indicates a network or HTTP failure talking to the API.
	// The unit of work keeps whatever it collected and the run continues.
	ErrTransport = errors.New("transport failure")

	// ErrDecode indicates a malformed API response.
	// Treated the same way as ErrTransport.
	ErrDecode = errors.New("decode failure")

	// ErrValidation indicates a required input column or field is missing.
	// It is fatal to the run.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownStage indicates an operator asked for a stage that does not exist.
	ErrUnknownStage = errors.New("unknown stage")

	// Service Errors.

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)

// IsRecoverable reports whether err degrades a unit of work instead of
// aborting the run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrDecode)
}
