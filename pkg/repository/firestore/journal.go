package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type journalDoc struct {
	ID        model.JournalID `firestore:"ID"`
	UserID    string          `firestore:"UserID"`
	Date      string          `firestore:"Date"`
	Text      string          `firestore:"Text"`
	CreatedAt time.Time       `firestore:"CreatedAt"`
}

func toJournalDoc(e *model.JournalEntry) *journalDoc {
	return &journalDoc{
		ID:        e.ID,
		UserID:    e.UserID.String(),
		Date:      e.Date,
		Text:      e.Text,
		CreatedAt: e.CreatedAt,
	}
}

func fromJournalDoc(d *journalDoc) *model.JournalEntry {
	return &model.JournalEntry{
		ID:        d.ID,
		UserID:    types.UserID(d.UserID),
		Date:      d.Date,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

type journalRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newJournalRepository(client *firestore.Client) *journalRepository {
	return &journalRepository{client: client}
}

func (r *journalRepository) journalsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "users").Doc(userID.String()).
		Collection("journals")
}

func (r *journalRepository) Put(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error) {
	if err := entry.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "journal entry requires a user ID")
	}

	if entry.ID == "" {
		entry.ID = model.NewJournalID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	docRef := r.journalsCollection(entry.UserID).Doc(string(entry.ID))
	if _, err := docRef.Set(ctx, toJournalDoc(entry)); err != nil {
		return nil, goerr.Wrap(err, "failed to put journal entry",
			goerr.V("userID", entry.UserID),
			goerr.V("journalID", entry.ID),
		)
	}

	return entry, nil
}

func (r *journalRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.JournalEntry, error) {
	iter := r.journalsCollection(userID).
		OrderBy("Date", firestore.Asc).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	entries := make([]*model.JournalEntry, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate journal entries",
				goerr.V("userID", userID),
			)
		}

		var d journalDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal journal entry")
		}

		entries = append(entries, fromJournalDoc(&d))
	}

	return entries, nil
}
