package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// GoalID is a UUID-based identifier for Goal
type GoalID string

// NewGoalID generates a new UUID v4 GoalID
func NewGoalID() GoalID {
	return GoalID(uuid.New().String())
}

// Goal is a user goal, either a daily task or a long-term objective.
// Date is the ISO day (2006-01-02) the goal was set for.
type Goal struct {
	ID        GoalID
	UserID    types.UserID
	Date      string
	Kind      types.GoalKind
	Title     string
	Done      bool
	CreatedAt time.Time
}
