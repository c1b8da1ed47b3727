// Package storagemock provides a testify mock of the storage.Store
// interface for server and scenario tests.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/storage"
	"github.com/parcelsim/parcelsim/pkg/types"
)

type MockStore struct {
	mock.Mock
}

var _ storage.Store = (*MockStore)(nil)

func (m *MockStore) PutRun(ctx context.Context, run types.RunInfo) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockStore) GetRun(ctx context.Context, runID string) (types.RunInfo, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(types.RunInfo), args.Error(1)
}

func (m *MockStore) ListRuns(ctx context.Context) ([]types.RunInfo, error) {
	args := m.Called(ctx)
	if runs := args.Get(0); runs != nil {
		return runs.([]types.RunInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) PutBuilding(ctx context.Context, runID string, res types.BuildingResult) error {
	args := m.Called(ctx, runID, res)
	return args.Error(0)
}

func (m *MockStore) GetBuilding(ctx context.Context, runID, buildingID string) (types.BuildingResult, error) {
	args := m.Called(ctx, runID, buildingID)
	return args.Get(0).(types.BuildingResult), args.Error(1)
}

func (m *MockStore) PutConsumption(ctx context.Context, runID, buildingID, label string, tbl *profile.Table) error {
	args := m.Called(ctx, runID, buildingID, label, tbl)
	return args.Error(0)
}

func (m *MockStore) PutCombined(ctx context.Context, runID string, combined types.CombinedTable) error {
	args := m.Called(ctx, runID, combined)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
