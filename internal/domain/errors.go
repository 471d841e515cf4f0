package domain

import "errors"

// Error taxonomy. Wrap with fmt.Errorf("...: %w", Err...) so callers
// can classify failures with errors.Is across package boundaries.
var (
	// ErrNotFound is returned when a referenced document or persisted
	// index does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyInput is returned when text, a query, or a passage set is
	// empty where non-empty input is required.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidArgument is returned for out-of-range numeric
	// parameters such as chunk size, overlap, or k.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrModelLoad is returned when the embedding backend cannot be
	// resolved or initialized.
	ErrModelLoad = errors.New("model load failed")

	// ErrEmbedding is returned when the backend fails to produce an
	// embedding for a given input. A zero vector is never substituted.
	ErrEmbedding = errors.New("embedding failed")

	// ErrCorruptIndex is returned when a persisted index is unreadable
	// or internally inconsistent.
	ErrCorruptIndex = errors.New("corrupt index")
)
