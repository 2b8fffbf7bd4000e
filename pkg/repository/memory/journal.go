package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

type journalRepository struct {
	mu      sync.RWMutex
	entries map[types.UserID]map[model.JournalID]*model.JournalEntry
}

func newJournalRepository() *journalRepository {
	return &journalRepository{
		entries: make(map[types.UserID]map[model.JournalID]*model.JournalEntry),
	}
}

func copyJournal(e *model.JournalEntry) *model.JournalEntry {
	copied := *e
	return &copied
}

func (r *journalRepository) Put(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error) {
	if err := entry.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "journal entry requires a user ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.UserID]; !exists {
		r.entries[entry.UserID] = make(map[model.JournalID]*model.JournalEntry)
	}

	created := copyJournal(entry)
	if created.ID == "" {
		created.ID = model.NewJournalID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.entries[entry.UserID][created.ID] = created
	return copyJournal(created), nil
}

func (r *journalRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[userID]
	if !exists {
		return []*model.JournalEntry{}, nil
	}

	result := make([]*model.JournalEntry, 0, len(bucket))
	for _, e := range bucket {
		result = append(result, copyJournal(e))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
