package usecase

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

//go:embed prompt/character_analysis.md
var characterAnalysisPrompt string

// refreshAllConcurrency bounds the analyze batch fan-out
const refreshAllConcurrency = 8

// RefreshCharacter regenerates the user's character report when it is
// stale. Fresh reports are left untouched, so calling this on every chat
// turn is cheap.
func (u *UseCases) RefreshCharacter(ctx context.Context, userID types.UserID) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "character refresh requires a user ID")
	}

	profile, err := u.repo.Profile().Get(ctx, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to get profile for character refresh",
			goerr.V("userID", userID),
		)
	}

	if !profile.NeedsAnalysis(u.userClock(profile), u.analysisMaxAgeDays) {
		return nil
	}

	return u.GenerateCharacterReport(ctx, userID)
}

// GenerateCharacterReport rebuilds the character report from the user's
// journals and goals regardless of staleness. A user with no history is
// left as-is: no report is written and no error returned.
func (u *UseCases) GenerateCharacterReport(ctx context.Context, userID types.UserID) error {
	if u.llmClient == nil {
		return ErrNoLLMClient
	}

	journals, err := u.repo.Journal().ListByUser(ctx, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to list journals for analysis",
			goerr.V("userID", userID),
		)
	}
	goals, err := u.repo.Goal().ListByUser(ctx, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to list goals for analysis",
			goerr.V("userID", userID),
		)
	}

	digest := characterDigest(journals, goals)
	if digest == "" {
		logging.From(ctx).Info("no history to analyze, keeping existing report",
			"userID", userID.String(),
		)
		return nil
	}

	report, err := u.generate(ctx, characterAnalysisPrompt, digest)
	if err != nil {
		return goerr.Wrap(err, "failed to generate character report",
			goerr.V("userID", userID),
		)
	}

	if err := u.repo.Profile().SaveCharacterReport(ctx, userID, report, u.now().UTC()); err != nil {
		return goerr.Wrap(err, "failed to save character report",
			goerr.V("userID", userID),
		)
	}

	return nil
}

// RefreshResult is the per-user outcome of a RefreshAll batch
type RefreshResult struct {
	UserID types.UserID
	Err    error
}

// RefreshAll regenerates reports for many users with bounded concurrency.
// Per-user failures are recorded and the batch continues.
func (u *UseCases) RefreshAll(ctx context.Context, userIDs []types.UserID) []RefreshResult {
	results := make([]RefreshResult, len(userIDs))

	var eg errgroup.Group
	eg.SetLimit(refreshAllConcurrency)

	var mu sync.Mutex
	for i, userID := range userIDs {
		eg.Go(func() error {
			err := u.GenerateCharacterReport(ctx, userID)
			if err != nil {
				logging.From(ctx).Error("character analysis failed",
					"userID", userID.String(),
					"error", err.Error(),
				)
			}
			mu.Lock()
			results[i] = RefreshResult{UserID: userID, Err: err}
			mu.Unlock()
			return nil
		})
	}

	_ = eg.Wait()
	return results
}

// characterDigest flattens journals and goals into one chronological text
// block for the analysis prompt. Empty history yields an empty string.
func characterDigest(journals []*model.JournalEntry, goals []*model.Goal) string {
	var sb strings.Builder

	if len(journals) > 0 {
		sb.WriteString("## Journal entries\n")
		for _, e := range journals {
			if e.Text == "" {
				continue
			}
			fmt.Fprintf(&sb, "- %s: %s\n", e.Date, e.Text)
		}
	}

	if len(goals) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## Goals\n")
		for _, g := range goals {
			if g.Title == "" {
				continue
			}
			state := "in progress"
			if g.Done {
				state = "done"
			}
			fmt.Fprintf(&sb, "- %s [%s, %s]: %s\n", g.Date, g.Kind.Label(), state, g.Title)
		}
	}

	return strings.TrimSpace(sb.String())
}
