package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const snapshotCollection = "monitor"

// FirestoreProvider stores each snapshot as a document in the "monitor"
// collection. The document ID is the snapshot key and the raw gateway body
// is kept as a string in the "json" field.
type FirestoreProvider struct {
	client     *firestore.Client
	projectID  string
	database   string
	collection string
}

func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{collection: snapshotCollection}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured. An empty project
// ID is detected from the environment.
func (f *FirestoreProvider) Validate() error {
	if f.collection == "" {
		return fmt.Errorf("collection cannot be empty")
	}
	return nil
}

// Init creates the Firestore client. It must be called before any other
// method.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) coll() *firestore.CollectionRef {
	return f.client.Collection(f.collection)
}

// ListSnapshotKeys returns the IDs of every document in the collection
// without reading their contents.
func (f *FirestoreProvider) ListSnapshotKeys(ctx context.Context) ([]string, error) {
	iter := f.coll().DocumentRefs(ctx)
	var keys []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating snapshot keys: %w", err)
		}
		keys = append(keys, ref.ID)
	}
	return keys, nil
}

func (f *FirestoreProvider) GetSnapshot(ctx context.Context, key string) (json.RawMessage, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	doc, err := f.coll().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return snapshotBody(ctx, doc)
}

// GetSnapshots reads every document in the collection. Documents without a
// usable body are logged and skipped.
func (f *FirestoreProvider) GetSnapshots(ctx context.Context) (map[string]json.RawMessage, error) {
	iter := f.coll().Documents(ctx)
	defer iter.Stop()

	snapshots := make(map[string]json.RawMessage)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating snapshots: %w", err)
		}
		raw, err := snapshotBody(ctx, doc)
		if err != nil {
			continue
		}
		snapshots[doc.Ref.ID] = raw
	}
	return snapshots, nil
}

func snapshotBody(ctx context.Context, doc *firestore.DocumentSnapshot) (json.RawMessage, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "snapshot doc missing json", slog.String("key", doc.Ref.ID), slog.Any("err", err))
		return nil, fmt.Errorf("snapshot document %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "snapshot doc json not string", slog.String("key", doc.Ref.ID))
		return nil, fmt.Errorf("snapshot document %s 'json' field is not a string", doc.Ref.ID)
	}
	return json.RawMessage(jsonStr), nil
}

// PutSnapshot stores raw under key, replacing any existing document.
func (f *FirestoreProvider) PutSnapshot(ctx context.Context, key string, raw json.RawMessage) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	ts, _ := strconv.ParseInt(key, 10, 64)
	_, err := f.coll().Doc(key).Set(ctx, map[string]interface{}{
		"json":      string(raw),
		"timestamp": time.Unix(ts, 0).UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot %s: %w", key, err)
	}
	return nil
}
