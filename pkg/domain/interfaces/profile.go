package interfaces

import (
	"context"
	"time"

	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// ProfileRepository defines the interface for user profile persistence
type ProfileRepository interface {
	// Get retrieves a user's profile. A missing profile returns a
	// zero-value profile with the UserID set, not an error.
	Get(ctx context.Context, userID types.UserID) (*model.Profile, error)

	// Put creates or overwrites a profile
	Put(ctx context.Context, profile *model.Profile) error

	// SaveCharacterReport persists the character report and its analysis
	// date as two idempotent field writes (merge semantics; other profile
	// fields are untouched).
	SaveCharacterReport(ctx context.Context, userID types.UserID, report string, analyzedAt time.Time) error

	// ListUserIDs enumerates every known user, for batch operations
	ListUserIDs(ctx context.Context) ([]types.UserID, error)
}
