package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// JournalID is a UUID-based identifier for JournalEntry
type JournalID string

// NewJournalID generates a new UUID v4 JournalID
func NewJournalID() JournalID {
	return JournalID(uuid.New().String())
}

// JournalEntry is one diary entry written by a user. Date is an ISO day
// string (2006-01-02); multiple entries may share a date.
type JournalEntry struct {
	ID        JournalID
	UserID    types.UserID
	Date      string
	Text      string
	CreatedAt time.Time
}
