package storagemock

import (
	"context"
	"encoding/json"

	"github.com/jameshartig/solarmon/pkg/storage"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) ListSnapshotKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatabase) GetSnapshot(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatabase) GetSnapshots(ctx context.Context) (map[string]json.RawMessage, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(map[string]json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatabase) PutSnapshot(ctx context.Context, key string, raw json.RawMessage) error {
	args := m.Called(ctx, key, raw)
	return args.Error(0)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
