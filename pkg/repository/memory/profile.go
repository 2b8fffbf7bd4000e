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

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[types.UserID]*model.Profile
}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[types.UserID]*model.Profile),
	}
}

func copyProfile(p *model.Profile) *model.Profile {
	copied := *p
	return &copied
}

func (r *profileRepository) Get(ctx context.Context, userID types.UserID) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.profiles[userID]
	if !exists {
		return &model.Profile{UserID: userID}, nil
	}

	return copyProfile(p), nil
}

func (r *profileRepository) Put(ctx context.Context, profile *model.Profile) error {
	if err := profile.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "profile requires a user ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

func (r *profileRepository) SaveCharacterReport(ctx context.Context, userID types.UserID, report string, analyzedAt time.Time) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "character report requires a user ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.profiles[userID]
	if !exists {
		p = &model.Profile{UserID: userID}
		r.profiles[userID] = p
	}

	p.CharacterReport = report
	p.AnalyzedAt = analyzedAt
	return nil
}

func (r *profileRepository) ListUserIDs(ctx context.Context) ([]types.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userIDs := make([]types.UserID, 0, len(r.profiles))
	for userID := range r.profiles {
		userIDs = append(userIDs, userID)
	}

	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}
