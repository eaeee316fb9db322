package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/levenlabs/go-lflag"
)

const snapshotExt = ".json"

// DirProvider stores each snapshot as <root>/monitor/<key>.json, the same
// layout as an object storage bucket synced to disk.
type DirProvider struct {
	root string
}

func configuredDir() *DirProvider {
	root := lflag.String("storage-dir", "data", "Directory holding the monitor/ snapshot folder (dir provider)")

	d := &DirProvider{}
	lflag.Do(func() {
		d.root = *root
	})
	return d
}

// NewDirProvider returns a provider rooted at root.
func NewDirProvider(root string) *DirProvider {
	return &DirProvider{root: root}
}

func (d *DirProvider) Validate() error {
	if d.root == "" {
		return fmt.Errorf("storage-dir cannot be empty")
	}
	return nil
}

func (d *DirProvider) dir() string {
	return filepath.Join(d.root, snapshotCollection)
}

func (d *DirProvider) path(key string) string {
	return filepath.Join(d.dir(), key+snapshotExt)
}

// ListSnapshotKeys returns the key of every *.json file. A missing directory
// has no snapshots.
func (d *DirProvider) ListSnapshotKeys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), snapshotExt))
	}
	return keys, nil
}

func (d *DirProvider) GetSnapshot(ctx context.Context, key string) (json.RawMessage, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return json.RawMessage(b), nil
}

// GetSnapshots reads every snapshot file. Unreadable files are logged and
// skipped.
func (d *DirProvider) GetSnapshots(ctx context.Context) (map[string]json.RawMessage, error) {
	keys, err := d.ListSnapshotKeys(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(d.path(key))
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to read snapshot file", slog.String("key", key), slog.Any("err", err))
			continue
		}
		snapshots[key] = json.RawMessage(b)
	}
	return snapshots, nil
}

// PutSnapshot writes raw to a temporary file and renames it into place so
// readers never see a partial snapshot.
func (d *DirProvider) PutSnapshot(ctx context.Context, key string, raw json.RawMessage) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(d.dir(), "."+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}
	return nil
}

func (d *DirProvider) Close() error {
	return nil
}
