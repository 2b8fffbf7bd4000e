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

type goalRepository struct {
	mu      sync.RWMutex
	entries map[types.UserID]map[model.GoalID]*model.Goal
}

func newGoalRepository() *goalRepository {
	return &goalRepository{
		entries: make(map[types.UserID]map[model.GoalID]*model.Goal),
	}
}

func copyGoal(g *model.Goal) *model.Goal {
	copied := *g
	return &copied
}

func (r *goalRepository) Put(ctx context.Context, goal *model.Goal) (*model.Goal, error) {
	if err := goal.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "goal requires a user ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[goal.UserID]; !exists {
		r.entries[goal.UserID] = make(map[model.GoalID]*model.Goal)
	}

	created := copyGoal(goal)
	if created.ID == "" {
		created.ID = model.NewGoalID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.entries[goal.UserID][created.ID] = created
	return copyGoal(created), nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[userID]
	if !exists {
		return []*model.Goal{}, nil
	}

	result := make([]*model.Goal, 0, len(bucket))
	for _, g := range bucket {
		result = append(result, copyGoal(g))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *goalRepository) ListPending(ctx context.Context, userID types.UserID, date string) ([]*model.Goal, error) {
	goals, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*model.Goal, 0)
	for _, g := range goals {
		if g.Date == date && g.Kind == types.GoalKindDaily && !g.Done {
			result = append(result, g)
		}
	}

	return result, nil
}
