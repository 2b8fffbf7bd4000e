package usecase

import (
	"context"

	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// WipeMemory deletes every vector memory of the user. Used by the account
// deletion path; journals, goals and the profile are owned by other flows
// and left untouched.
func (u *UseCases) WipeMemory(ctx context.Context, userID types.UserID) error {
	return u.memory.Wipe(ctx, userID)
}
