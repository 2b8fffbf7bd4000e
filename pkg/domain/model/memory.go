package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// EmbeddingDimension is the vector dimension of the embedding model
// (Gemini text embedding, 768 dimensions). Every record in the memory
// index shares this dimension.
const EmbeddingDimension = 768

// Attribute keys read by downstream consumers. The attribute map itself is
// open; absence of any key must be tolerated.
const (
	AttrRole = "role"
	AttrDate = "date"
	AttrType = "type"
)

// MemoryID is a UUID-based identifier for MemoryRecord
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// MemoryRecord is a single unit of a user's long-term conversational
// memory. Records are written once per saved utterance, never mutated, and
// deleted only in bulk per user.
type MemoryRecord struct {
	ID         MemoryID
	UserID     types.UserID
	Text       string
	Embedding  []float32 // EmbeddingDimension, used for cosine similarity search
	Attributes map[string]string
	CreatedAt  time.Time
}

// Attr returns the attribute value for key, or empty string when absent
func (m *MemoryRecord) Attr(key string) string {
	if m.Attributes == nil {
		return ""
	}
	return m.Attributes[key]
}
