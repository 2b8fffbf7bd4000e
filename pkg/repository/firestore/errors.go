package firestore

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidDimension rejects embeddings that do not match the index
	// dimension
	ErrInvalidDimension = goerr.New("embedding dimension mismatch")
)
