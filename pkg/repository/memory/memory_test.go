package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/repository/memory"
)

// embedding768 builds a full-dimension embedding whose leading components
// are the given values
func embedding768(vals ...float32) []float32 {
	vec := make([]float32, model.EmbeddingDimension)
	copy(vec, vals)
	return vec
}

func TestMemoryIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert and search are scoped to the user", func(t *testing.T) {
		repo := memory.New()

		_, err := repo.Memory().Upsert(ctx, &model.MemoryRecord{
			UserID:    "alice",
			Text:      "alice likes tea",
			Embedding: embedding768(1, 0),
		})
		gt.NoError(t, err).Required()

		_, err = repo.Memory().Upsert(ctx, &model.MemoryRecord{
			UserID:    "bob",
			Text:      "bob likes coffee",
			Embedding: embedding768(1, 0),
		})
		gt.NoError(t, err).Required()

		records, err := repo.Memory().Search(ctx, "alice", embedding768(1, 0), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
		gt.Value(t, records[0].Text).Equal("alice likes tea")
	})

	t.Run("search returns best matches first up to the limit", func(t *testing.T) {
		repo := memory.New()

		for _, rec := range []*model.MemoryRecord{
			{UserID: "alice", Text: "orthogonal", Embedding: embedding768(0, 1)},
			{UserID: "alice", Text: "exact", Embedding: embedding768(1, 0)},
			{UserID: "alice", Text: "close", Embedding: embedding768(1, 1)},
		} {
			_, err := repo.Memory().Upsert(ctx, rec)
			gt.NoError(t, err).Required()
		}

		records, err := repo.Memory().Search(ctx, "alice", embedding768(1, 0), 2)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2).Required()
		gt.Value(t, records[0].Text).Equal("exact")
		gt.Value(t, records[1].Text).Equal("close")
	})

	t.Run("upsert fills in ID and CreatedAt", func(t *testing.T) {
		repo := memory.New()

		created, err := repo.Memory().Upsert(ctx, &model.MemoryRecord{
			UserID:    "alice",
			Text:      "a moment",
			Embedding: embedding768(1),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.MemoryID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("upsert rejects wrong embedding dimension", func(t *testing.T) {
		repo := memory.New()

		_, err := repo.Memory().Upsert(ctx, &model.MemoryRecord{
			UserID:    "alice",
			Text:      "short vector",
			Embedding: []float32{1, 2, 3},
		})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, memory.ErrInvalidDimension)).True()
	})

	t.Run("delete by user is idempotent and leaves others alone", func(t *testing.T) {
		repo := memory.New()

		_, err := repo.Memory().Upsert(ctx, &model.MemoryRecord{
			UserID:    "alice",
			Text:      "gone soon",
			Embedding: embedding768(1),
		})
		gt.NoError(t, err).Required()
		_, err = repo.Memory().Upsert(ctx, &model.MemoryRecord{
			UserID:    "bob",
			Text:      "still here",
			Embedding: embedding768(1),
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Memory().DeleteByUser(ctx, "alice"))
		gt.NoError(t, repo.Memory().DeleteByUser(ctx, "alice"))

		records, err := repo.Memory().Search(ctx, "alice", embedding768(1), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)

		records, err = repo.Memory().Search(ctx, "bob", embedding768(1), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
	})
}

func TestJournalRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("list returns entries in date order", func(t *testing.T) {
		repo := memory.New()

		for _, e := range []*model.JournalEntry{
			{UserID: "alice", Date: "2026-08-30", Text: "late entry"},
			{UserID: "alice", Date: "2026-08-01", Text: "early entry"},
			{UserID: "alice", Date: "2026-08-15", Text: "middle entry"},
		} {
			_, err := repo.Journal().Put(ctx, e)
			gt.NoError(t, err).Required()
		}

		entries, err := repo.Journal().ListByUser(ctx, "alice")
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(3).Required()
		gt.Value(t, entries[0].Text).Equal("early entry")
		gt.Value(t, entries[1].Text).Equal("middle entry")
		gt.Value(t, entries[2].Text).Equal("late entry")
	})

	t.Run("put assigns ID and rejects missing user", func(t *testing.T) {
		repo := memory.New()

		created, err := repo.Journal().Put(ctx, &model.JournalEntry{
			UserID: "alice",
			Date:   "2026-09-01",
			Text:   "today",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.JournalID(""))

		_, err = repo.Journal().Put(ctx, &model.JournalEntry{Date: "2026-09-01", Text: "nobody"})
		gt.Error(t, err)
	})
}

func TestGoalRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("list pending returns only unfinished daily goals of the day", func(t *testing.T) {
		repo := memory.New()

		for _, g := range []*model.Goal{
			{UserID: "alice", Date: "2026-09-01", Kind: types.GoalKindDaily, Title: "water the plants"},
			{UserID: "alice", Date: "2026-09-01", Kind: types.GoalKindDaily, Title: "call mom", Done: true},
			{UserID: "alice", Date: "2026-09-01", Kind: types.GoalKindLongTerm, Title: "learn piano"},
			{UserID: "alice", Date: "2026-08-31", Kind: types.GoalKindDaily, Title: "yesterday's errand"},
		} {
			_, err := repo.Goal().Put(ctx, g)
			gt.NoError(t, err).Required()
		}

		pending, err := repo.Goal().ListPending(ctx, "alice", "2026-09-01")
		gt.NoError(t, err).Required()
		gt.Array(t, pending).Length(1).Required()
		gt.Value(t, pending[0].Title).Equal("water the plants")
	})
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get missing profile returns zero value with user ID", func(t *testing.T) {
		repo := memory.New()

		profile, err := repo.Profile().Get(ctx, "nobody")
		gt.NoError(t, err).Required()
		gt.Value(t, profile.UserID).Equal(types.UserID("nobody"))
		gt.Value(t, profile.CharacterReport).Equal("")
		gt.Bool(t, profile.AnalyzedAt.IsZero()).True()
	})

	t.Run("save character report creates the profile when absent", func(t *testing.T) {
		repo := memory.New()
		analyzedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

		gt.NoError(t, repo.Profile().SaveCharacterReport(ctx, "alice", "warm and curious", analyzedAt)).Required()

		profile, err := repo.Profile().Get(ctx, "alice")
		gt.NoError(t, err).Required()
		gt.Value(t, profile.CharacterReport).Equal("warm and curious")
		gt.Value(t, profile.AnalyzedAt).Equal(analyzedAt)
	})

	t.Run("save character report keeps other fields", func(t *testing.T) {
		repo := memory.New()

		gt.NoError(t, repo.Profile().Put(ctx, &model.Profile{
			UserID:        "alice",
			DisplayName:   "Alice",
			FirstChatDone: true,
		})).Required()

		gt.NoError(t, repo.Profile().SaveCharacterReport(ctx, "alice", "report", time.Now())).Required()

		profile, err := repo.Profile().Get(ctx, "alice")
		gt.NoError(t, err).Required()
		gt.Value(t, profile.DisplayName).Equal("Alice")
		gt.Bool(t, profile.FirstChatDone).True()
	})

	t.Run("list user IDs is sorted", func(t *testing.T) {
		repo := memory.New()

		for _, id := range []types.UserID{"carol", "alice", "bob"} {
			gt.NoError(t, repo.Profile().Put(ctx, &model.Profile{UserID: id})).Required()
		}

		userIDs, err := repo.Profile().ListUserIDs(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, userIDs).Length(3).Required()
		gt.Value(t, userIDs[0]).Equal(types.UserID("alice"))
		gt.Value(t, userIDs[1]).Equal(types.UserID("bob"))
		gt.Value(t, userIDs[2]).Equal(types.UserID("carol"))
	})
}
