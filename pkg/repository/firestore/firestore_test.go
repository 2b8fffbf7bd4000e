package firestore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mindmate-app/mindmate/pkg/domain/interfaces"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/repository/firestore"
)

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID,
		firestore.WithCollectionPrefix(fmt.Sprintf("test-%d-", time.Now().UnixNano())),
	)
	gt.NoError(t, err).Required()

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Logf("failed to close firestore client: %v", err)
		}
	})

	return repo
}

func testEmbedding(vals ...float32) []float32 {
	vec := make([]float32, model.EmbeddingDimension)
	copy(vec, vals)
	return vec
}

func TestFirestoreMemoryIndex(t *testing.T) {
	repo := newFirestoreRepository(t)
	ctx := context.Background()

	userID := types.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))

	created, err := repo.Memory().Upsert(ctx, &model.MemoryRecord{
		UserID:    userID,
		Text:      "started learning the guitar",
		Embedding: testEmbedding(1, 0),
		Attributes: map[string]string{
			model.AttrDate: "2026-08-30",
			model.AttrType: "journal",
		},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).NotEqual(model.MemoryID(""))

	records, err := repo.Memory().Search(ctx, userID, testEmbedding(1, 0), 5)
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(1).Required()
	gt.Value(t, records[0].Text).Equal("started learning the guitar")
	gt.Value(t, records[0].Attr(model.AttrType)).Equal("journal")

	gt.NoError(t, repo.Memory().DeleteByUser(ctx, userID)).Required()
	gt.NoError(t, repo.Memory().DeleteByUser(ctx, userID))

	records, err = repo.Memory().Search(ctx, userID, testEmbedding(1, 0), 5)
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(0)
}

func TestFirestoreJournalAndGoals(t *testing.T) {
	repo := newFirestoreRepository(t)
	ctx := context.Background()

	userID := types.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))

	for _, e := range []*model.JournalEntry{
		{UserID: userID, Date: "2026-08-30", Text: "second"},
		{UserID: userID, Date: "2026-08-01", Text: "first"},
	} {
		_, err := repo.Journal().Put(ctx, e)
		gt.NoError(t, err).Required()
	}

	entries, err := repo.Journal().ListByUser(ctx, userID)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(2).Required()
	gt.Value(t, entries[0].Text).Equal("first")

	for _, g := range []*model.Goal{
		{UserID: userID, Date: "2026-09-01", Kind: types.GoalKindDaily, Title: "pending"},
		{UserID: userID, Date: "2026-09-01", Kind: types.GoalKindDaily, Title: "finished", Done: true},
	} {
		_, err := repo.Goal().Put(ctx, g)
		gt.NoError(t, err).Required()
	}

	pending, err := repo.Goal().ListPending(ctx, userID, "2026-09-01")
	gt.NoError(t, err).Required()
	gt.Array(t, pending).Length(1).Required()
	gt.Value(t, pending[0].Title).Equal("pending")
}

func TestFirestoreProfile(t *testing.T) {
	repo := newFirestoreRepository(t)
	ctx := context.Background()

	userID := types.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))

	profile, err := repo.Profile().Get(ctx, userID)
	gt.NoError(t, err).Required()
	gt.Value(t, profile.UserID).Equal(userID)
	gt.Bool(t, profile.FirstChatDone).False()

	gt.NoError(t, repo.Profile().Put(ctx, &model.Profile{
		UserID:      userID,
		DisplayName: "Test User",
		Timezone:    "Europe/Istanbul",
	})).Required()

	analyzedAt := time.Now().UTC().Truncate(time.Second)
	gt.NoError(t, repo.Profile().SaveCharacterReport(ctx, userID, "test report", analyzedAt)).Required()

	profile, err = repo.Profile().Get(ctx, userID)
	gt.NoError(t, err).Required()
	gt.Value(t, profile.DisplayName).Equal("Test User")
	gt.Value(t, profile.CharacterReport).Equal("test report")
	gt.Bool(t, profile.AnalyzedAt.Equal(analyzedAt)).True()
}
