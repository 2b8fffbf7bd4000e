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

// memoryDoc is the Firestore document representation of model.MemoryRecord.
// Embedding is stored as firestore.Vector32 for FindNearest vector search.
type memoryDoc struct {
	ID         model.MemoryID     `firestore:"ID"`
	UserID     string             `firestore:"UserID"`
	Text       string             `firestore:"Text"`
	Embedding  firestore.Vector32 `firestore:"Embedding,omitempty"`
	Attributes map[string]string  `firestore:"Attributes,omitempty"`
	CreatedAt  time.Time          `firestore:"CreatedAt"`
}

func toMemoryDoc(m *model.MemoryRecord) *memoryDoc {
	doc := &memoryDoc{
		ID:         m.ID,
		UserID:     m.UserID.String(),
		Text:       m.Text,
		Attributes: m.Attributes,
		CreatedAt:  m.CreatedAt,
	}
	if len(m.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(m.Embedding)
	}
	return doc
}

func fromMemoryDoc(d *memoryDoc) *model.MemoryRecord {
	m := &model.MemoryRecord{
		ID:         d.ID,
		UserID:     types.UserID(d.UserID),
		Text:       d.Text,
		Attributes: d.Attributes,
		CreatedAt:  d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		m.Embedding = []float32(d.Embedding)
	}
	return m
}

type memoryIndexRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMemoryIndexRepository(client *firestore.Client) *memoryIndexRepository {
	return &memoryIndexRepository{client: client}
}

// memoriesCollection returns the subcollection path:
// users/{userID}/memories. Partitioning by user document makes the
// owner-scoped filter structural: a query can never cross users.
func (r *memoryIndexRepository) memoriesCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "users").Doc(userID.String()).
		Collection("memories")
}

func (r *memoryIndexRepository) Upsert(ctx context.Context, rec *model.MemoryRecord) (*model.MemoryRecord, error) {
	if err := rec.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "memory record requires a user ID")
	}
	if len(rec.Embedding) != model.EmbeddingDimension {
		return nil, goerr.Wrap(ErrInvalidDimension, "refusing to upsert memory record",
			goerr.V("got", len(rec.Embedding)),
			goerr.V("want", model.EmbeddingDimension),
		)
	}

	if rec.ID == "" {
		rec.ID = model.NewMemoryID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	docRef := r.memoriesCollection(rec.UserID).Doc(string(rec.ID))
	if _, err := docRef.Set(ctx, toMemoryDoc(rec)); err != nil {
		return nil, goerr.Wrap(err, "failed to upsert memory record",
			goerr.V("userID", rec.UserID),
			goerr.V("memoryID", rec.ID),
		)
	}

	return rec, nil
}

func (r *memoryIndexRepository) Search(ctx context.Context, userID types.UserID, embedding []float32, limit int) ([]*model.MemoryRecord, error) {
	vq := r.memoriesCollection(userID).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	records := make([]*model.MemoryRecord, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory vector search results",
				goerr.V("userID", userID),
			)
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory record from vector search")
		}

		records = append(records, fromMemoryDoc(&d))
	}

	return records, nil
}

func (r *memoryIndexRepository) DeleteByUser(ctx context.Context, userID types.UserID) error {
	bw := r.client.BulkWriter(ctx)

	iter := r.memoriesCollection(userID).DocumentRefs(ctx)
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate memory records for wipe",
				goerr.V("userID", userID),
			)
		}
		if _, err := bw.Delete(ref); err != nil {
			return goerr.Wrap(err, "failed to enqueue memory record deletion",
				goerr.V("userID", userID),
			)
		}
	}

	bw.End()
	return nil
}
