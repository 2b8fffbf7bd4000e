package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type profileDoc struct {
	UserID          string    `firestore:"UserID"`
	DisplayName     string    `firestore:"DisplayName"`
	Timezone        string    `firestore:"Timezone"`
	FirstChatDone   bool      `firestore:"FirstChatDone"`
	CharacterReport string    `firestore:"CharacterReport"`
	AnalyzedAt      time.Time `firestore:"AnalyzedAt"`
}

func toProfileDoc(p *model.Profile) *profileDoc {
	return &profileDoc{
		UserID:          p.UserID.String(),
		DisplayName:     p.DisplayName,
		Timezone:        p.Timezone,
		FirstChatDone:   p.FirstChatDone,
		CharacterReport: p.CharacterReport,
		AnalyzedAt:      p.AnalyzedAt,
	}
}

func fromProfileDoc(d *profileDoc) *model.Profile {
	return &model.Profile{
		UserID:          types.UserID(d.UserID),
		DisplayName:     d.DisplayName,
		Timezone:        d.Timezone,
		FirstChatDone:   d.FirstChatDone,
		CharacterReport: d.CharacterReport,
		AnalyzedAt:      d.AnalyzedAt,
	}
}

type profileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) profileDoc(userID types.UserID) *firestore.DocumentRef {
	return r.client.Collection(r.collectionPrefix + "users").Doc(userID.String())
}

func (r *profileRepository) Get(ctx context.Context, userID types.UserID) (*model.Profile, error) {
	doc, err := r.profileDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// Missing profile is a normal state for a new user
			return &model.Profile{UserID: userID}, nil
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("userID", userID))
	}

	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal profile", goerr.V("userID", userID))
	}

	p := fromProfileDoc(&d)
	p.UserID = userID
	return p, nil
}

func (r *profileRepository) Put(ctx context.Context, profile *model.Profile) error {
	if err := profile.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "profile requires a user ID")
	}

	if _, err := r.profileDoc(profile.UserID).Set(ctx, toProfileDoc(profile)); err != nil {
		return goerr.Wrap(err, "failed to put profile", goerr.V("userID", profile.UserID))
	}

	return nil
}

func (r *profileRepository) SaveCharacterReport(ctx context.Context, userID types.UserID, report string, analyzedAt time.Time) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "character report requires a user ID")
	}

	// Merge write: both fields are idempotently overwritable, so a retry
	// after partial failure converges without a transaction.
	if _, err := r.profileDoc(userID).Set(ctx, map[string]interface{}{
		"CharacterReport": report,
		"AnalyzedAt":      analyzedAt,
	}, firestore.MergeAll); err != nil {
		return goerr.Wrap(err, "failed to save character report", goerr.V("userID", userID))
	}

	return nil
}

// ListUserIDs walks the user document refs. DocumentRefs also yields users
// that only exist through subcollections, so journal-only users are
// included in batch analysis.
func (r *profileRepository) ListUserIDs(ctx context.Context) ([]types.UserID, error) {
	iter := r.client.Collection(r.collectionPrefix + "users").DocumentRefs(ctx)

	var userIDs []types.UserID
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate user documents")
		}
		userIDs = append(userIDs, types.UserID(ref.ID))
	}

	return userIDs, nil
}
