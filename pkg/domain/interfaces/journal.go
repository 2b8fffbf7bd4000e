package interfaces

import (
	"context"

	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// JournalRepository defines the interface for journal entry persistence
type JournalRepository interface {
	// Put creates or overwrites a journal entry
	Put(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error)

	// ListByUser retrieves all journal entries for a user, date ascending
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.JournalEntry, error)
}
