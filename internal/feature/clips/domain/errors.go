// Package domain defines domain-level errors for the clips feature.
package domain

import "errors"

// Domain errors for clip store operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrInvalidDraft indicates that a draft failed validation:
	// empty code or name, or a rating outside the 1-5 range.
	// The collection is left unchanged; the user must fix the input.
	ErrInvalidDraft = errors.New("draft failed validation")

	// ErrClipNotFound indicates that an operation referenced a clip ID
	// that does not exist where one was required. This is a caller error.
	ErrClipNotFound = errors.New("clip not found")

	// ErrCorruptData indicates that the durable mirror could not be parsed
	// at load time. Callers recover by starting from an empty collection.
	ErrCorruptData = errors.New("durable mirror is corrupt")

	// ErrQuotaExceeded indicates that the storage medium rejected a write
	// because its capacity is exhausted. The in-memory collection is rolled
	// back to its last successfully persisted state.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrInvalidFormat indicates that an import document is not the expected
	// top-level array shape. The whole import is rejected.
	ErrInvalidFormat = errors.New("import document is not an array of clips")
)
