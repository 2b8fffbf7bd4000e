package interfaces

import (
	"context"

	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// GoalRepository defines the interface for goal persistence
type GoalRepository interface {
	// Put creates or overwrites a goal
	Put(ctx context.Context, goal *model.Goal) (*model.Goal, error)

	// ListByUser retrieves all goals for a user, date ascending
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Goal, error)

	// ListPending retrieves the user's unfinished daily goals for the
	// given ISO day
	ListPending(ctx context.Context, userID types.UserID, date string) ([]*model.Goal, error)
}
