package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/interfaces"
)

// Firestore is the Cloud Firestore repository backend. User state lives
// under users/{userID} with journals, goals and memories subcollections;
// the memories subcollection doubles as the per-user partition of the
// vector index.
type Firestore struct {
	client      *firestore.Client
	memoryIndex *memoryIndexRepository
	journal     *journalRepository
	goal        *goalRepository
	profile     *profileRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes the root collection name, used to isolate
// test data in a shared project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.memoryIndex.collectionPrefix = prefix
		f.journal.collectionPrefix = prefix
		f.goal.collectionPrefix = prefix
		f.profile.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:      client,
		memoryIndex: newMemoryIndexRepository(client),
		journal:     newJournalRepository(client),
		goal:        newGoalRepository(client),
		profile:     newProfileRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Memory() interfaces.MemoryRepository {
	return f.memoryIndex
}

func (f *Firestore) Journal() interfaces.JournalRepository {
	return f.journal
}

func (f *Firestore) Goal() interfaces.GoalRepository {
	return f.goal
}

func (f *Firestore) Profile() interfaces.ProfileRepository {
	return f.profile
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
