// Package storage persists scenario run outputs and serves them back to the
// results API. Providers are selected by flag; the default csv provider
// writes a local output directory, the firestore provider stores JSON-blob
// documents.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"

	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

var (
	ErrRunNotFound      = errors.New("run not found")
	ErrBuildingNotFound = errors.New("building not found")
)

// Store defines the interface for persisting run outputs. Write failures are
// fatal to the run; no provider masks partial writes.
type Store interface {
	// Runs
	PutRun(ctx context.Context, run types.RunInfo) error
	GetRun(ctx context.Context, runID string) (types.RunInfo, error)
	ListRuns(ctx context.Context) ([]types.RunInfo, error)

	// Building outputs
	PutBuilding(ctx context.Context, runID string, res types.BuildingResult) error
	GetBuilding(ctx context.Context, runID, buildingID string) (types.BuildingResult, error)

	// PutConsumption persists one resampled consumption table. label
	// distinguishes the baseline and retrofit exports.
	PutConsumption(ctx context.Context, runID, buildingID, label string, tbl *profile.Table) error

	// PutCombined persists one cross-building concatenated table.
	PutCombined(ctx context.Context, runID string, combined types.CombinedTable) error

	// Lifecycle
	Close() error
}

// Configured sets up the Store based on flags.
func Configured() Store {
	provider := lflag.String("storage-provider", "csv", "Storage provider to use (available: csv, firestore)")

	var p struct{ Store }

	cs := configuredCSV()
	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "csv":
			if err := cs.Init(); err != nil {
				panic(fmt.Sprintf("csv storage init failed: %v", err))
			}
			p.Store = cs
		case "firestore":
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
			p.Store = fs
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
