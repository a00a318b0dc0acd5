package seed

import "errors"

var (
	// ErrIndexRequired is returned when a passage index is not provided.
	ErrIndexRequired = errors.New("passage index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
