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

type goalDoc struct {
	ID        model.GoalID `firestore:"ID"`
	UserID    string       `firestore:"UserID"`
	Date      string       `firestore:"Date"`
	Kind      string       `firestore:"Kind"`
	Title     string       `firestore:"Title"`
	Done      bool         `firestore:"Done"`
	CreatedAt time.Time    `firestore:"CreatedAt"`
}

func toGoalDoc(g *model.Goal) *goalDoc {
	return &goalDoc{
		ID:        g.ID,
		UserID:    g.UserID.String(),
		Date:      g.Date,
		Kind:      g.Kind.String(),
		Title:     g.Title,
		Done:      g.Done,
		CreatedAt: g.CreatedAt,
	}
}

func fromGoalDoc(d *goalDoc) *model.Goal {
	return &model.Goal{
		ID:        d.ID,
		UserID:    types.UserID(d.UserID),
		Date:      d.Date,
		Kind:      types.GoalKind(d.Kind),
		Title:     d.Title,
		Done:      d.Done,
		CreatedAt: d.CreatedAt,
	}
}

type goalRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newGoalRepository(client *firestore.Client) *goalRepository {
	return &goalRepository{client: client}
}

func (r *goalRepository) goalsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "users").Doc(userID.String()).
		Collection("goals")
}

func (r *goalRepository) Put(ctx context.Context, goal *model.Goal) (*model.Goal, error) {
	if err := goal.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "goal requires a user ID")
	}

	if goal.ID == "" {
		goal.ID = model.NewGoalID()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}

	docRef := r.goalsCollection(goal.UserID).Doc(string(goal.ID))
	if _, err := docRef.Set(ctx, toGoalDoc(goal)); err != nil {
		return nil, goerr.Wrap(err, "failed to put goal",
			goerr.V("userID", goal.UserID),
			goerr.V("goalID", goal.ID),
		)
	}

	return goal, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Goal, error) {
	iter := r.goalsCollection(userID).
		OrderBy("Date", firestore.Asc).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	return r.collect(iter, userID)
}

func (r *goalRepository) ListPending(ctx context.Context, userID types.UserID, date string) ([]*model.Goal, error) {
	iter := r.goalsCollection(userID).
		Where("Date", "==", date).
		Where("Kind", "==", types.GoalKindDaily.String()).
		Where("Done", "==", false).
		Documents(ctx)
	defer iter.Stop()

	return r.collect(iter, userID)
}

func (r *goalRepository) collect(iter *firestore.DocumentIterator, userID types.UserID) ([]*model.Goal, error) {
	goals := make([]*model.Goal, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate goals",
				goerr.V("userID", userID),
			)
		}

		var d goalDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal goal")
		}

		goals = append(goals, fromGoalDoc(&d))
	}

	return goals, nil
}
