package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidKey       = errors.New("invalid snapshot key")
)

// Database persists raw gateway snapshots. A snapshot is keyed by the unix
// second it was collected at, as a decimal string.
type Database interface {
	// ListSnapshotKeys returns every stored key in no particular order.
	ListSnapshotKeys(ctx context.Context) ([]string, error)
	// GetSnapshot returns ErrSnapshotNotFound if nothing is stored at key.
	GetSnapshot(ctx context.Context, key string) (json.RawMessage, error)
	GetSnapshots(ctx context.Context) (map[string]json.RawMessage, error)
	PutSnapshot(ctx context.Context, key string, raw json.RawMessage) error

	Close() error
}

// ValidateKey returns ErrInvalidKey unless key is a non-negative unix second.
func ValidateKey(key string) error {
	ts, err := strconv.ParseInt(key, 10, 64)
	if err != nil || ts < 0 || strconv.FormatInt(ts, 10) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Key formats a unix second as a snapshot key.
func Key(ts int64) string {
	return strconv.FormatInt(ts, 10)
}
