package interfaces

import (
	"context"

	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// MemoryRepository defines the interface for the long-term memory vector
// index. Every operation is scoped to a single user; implementations must
// never return or affect another user's records.
type MemoryRepository interface {
	// Upsert stores a memory record. The embedding dimension must equal
	// model.EmbeddingDimension; violating writes fail.
	Upsert(ctx context.Context, rec *model.MemoryRecord) (*model.MemoryRecord, error)

	// Search performs vector similarity search over the user's records
	// using cosine distance, best match first, up to limit entries.
	Search(ctx context.Context, userID types.UserID, embedding []float32, limit int) ([]*model.MemoryRecord, error)

	// DeleteByUser removes every record belonging to the user. Deleting a
	// user with no records is a no-op success.
	DeleteByUser(ctx context.Context, userID types.UserID) error
}
