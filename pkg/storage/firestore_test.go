package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreProvider(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// random database for isolation between runs
	f := &FirestoreProvider{
		projectID:  "test-project-id",
		database:   fmt.Sprintf("test-db-%d", time.Now().UnixNano()),
		collection: snapshotCollection,
	}

	ctx := context.Background()
	require.NoError(t, f.Validate())
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.GetSnapshot(ctx, "1")
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("PutAndGet", func(t *testing.T) {
		body := `{"result":"succeed","devices":[{"DEVICE_TYPE":"PVS"}]}`
		require.NoError(t, f.PutSnapshot(ctx, "1700000000", json.RawMessage(body)))
		require.NoError(t, f.PutSnapshot(ctx, "1700000900", json.RawMessage(`{"devices":[]}`)))

		raw, err := f.GetSnapshot(ctx, "1700000000")
		require.NoError(t, err)
		assert.JSONEq(t, body, string(raw))

		keys, err := f.ListSnapshotKeys(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"1700000000", "1700000900"}, keys)

		all, err := f.GetSnapshots(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.JSONEq(t, `{"devices":[]}`, string(all["1700000900"]))
	})

	t.Run("InvalidKey", func(t *testing.T) {
		assert.ErrorIs(t, f.PutSnapshot(ctx, "x", json.RawMessage(`{}`)), ErrInvalidKey)
	})
}
