package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection       = "users"
	preferencesCollection = "preferences"
)

// Firestore stores preferences at users/{userID}/preferences/{key}
type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.PreferenceRepository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates collections, mainly for tests sharing one database
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

type preferenceDoc struct {
	Values    []string  `firestore:"values"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Firestore) usersCollectionName() string {
	if f.collectionPrefix != "" {
		return f.collectionPrefix + "_" + usersCollection
	}
	return usersCollection
}

func (f *Firestore) preferenceDoc(userID types.UserID, key string) *firestore.DocumentRef {
	return f.client.Collection(f.usersCollectionName()).Doc(userID.String()).
		Collection(preferencesCollection).Doc(key)
}

func (f *Firestore) Get(ctx context.Context, userID types.UserID, key string) ([]string, error) {
	snap, err := f.preferenceDoc(userID, key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []string{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}

	var doc preferenceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}
	if doc.Values == nil {
		return []string{}, nil
	}
	return doc.Values, nil
}

func (f *Firestore) Put(ctx context.Context, userID types.UserID, key string, values []string) error {
	doc := &preferenceDoc{
		Values:    append([]string{}, values...),
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := f.preferenceDoc(userID, key).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put preference",
			goerr.V("user_id", userID),
			goerr.V("key", key),
		)
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
