package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/parcelsim/parcelsim/pkg/log"
	"github.com/parcelsim/parcelsim/pkg/profile"
	"github.com/parcelsim/parcelsim/pkg/types"
)

// FirestoreStore implements the Store interface using Google Cloud
// Firestore. Every document carries its payload as a JSON string under the
// "json" field for portability.
type FirestoreStore struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider. It registers flags for
// configuration.
func configuredFirestore() *FirestoreStore {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreStore{}

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

// Init initializes the Firestore client. This must be called before using
// the provider methods.
func (f *FirestoreStore) Init(ctx context.Context) error {
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

// Close closes the Firestore client connection.
func (f *FirestoreStore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreStore) runDoc(runID string) (*firestore.DocumentRef, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}
	return f.client.Collection("runs").Doc(runID), nil
}

func (f *FirestoreStore) setJSON(ctx context.Context, doc *firestore.DocumentRef, v interface{}) error {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", doc.Path, err)
	}
	if _, err := doc.Set(ctx, map[string]interface{}{
		"json": string(jsonBytes),
	}); err != nil {
		return fmt.Errorf("failed to set %s: %w", doc.Path, err)
	}
	return nil
}

// docJSON extracts and unmarshals the "json" field of a fetched document.
func docJSON(ctx context.Context, doc *firestore.DocumentSnapshot, v interface{}) error {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "doc missing json", slog.String("docID", doc.Ref.ID), slog.Any("err", err))
		return fmt.Errorf("document %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "doc json not string", slog.String("docID", doc.Ref.ID))
		return fmt.Errorf("document %s 'json' field is not a string", doc.Ref.ID)
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal doc", slog.String("docID", doc.Ref.ID), slog.Any("err", err))
		return fmt.Errorf("failed to unmarshal document %s: %w", doc.Ref.ID, err)
	}
	return nil
}

// PutRun writes the run metadata document.
func (f *FirestoreStore) PutRun(ctx context.Context, run types.RunInfo) error {
	doc, err := f.runDoc(run.ID)
	if err != nil {
		return err
	}
	return f.setJSON(ctx, doc, run)
}

// GetRun retrieves one run's metadata.
func (f *FirestoreStore) GetRun(ctx context.Context, runID string) (types.RunInfo, error) {
	ref, err := f.runDoc(runID)
	if err != nil {
		return types.RunInfo{}, err
	}
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.RunInfo{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return types.RunInfo{}, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	var run types.RunInfo
	if err := docJSON(ctx, doc, &run); err != nil {
		return types.RunInfo{}, err
	}
	return run, nil
}

// ListRuns retrieves every run's metadata. Malformed documents are skipped
// rather than failing the whole listing.
func (f *FirestoreStore) ListRuns(ctx context.Context) ([]types.RunInfo, error) {
	iter := f.client.Collection("runs").Documents(ctx)
	defer iter.Stop()

	var runs []types.RunInfo
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating runs: %w", err)
		}

		var run types.RunInfo
		if err := docJSON(ctx, doc, &run); err != nil {
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// PutBuilding writes one building's result under runs/<runID>/buildings.
func (f *FirestoreStore) PutBuilding(ctx context.Context, runID string, res types.BuildingResult) error {
	if res.BuildingID == "" {
		return fmt.Errorf("building id cannot be empty")
	}
	run, err := f.runDoc(runID)
	if err != nil {
		return err
	}
	return f.setJSON(ctx, run.Collection("buildings").Doc(res.BuildingID), res)
}

// GetBuilding retrieves one building's result.
func (f *FirestoreStore) GetBuilding(ctx context.Context, runID, buildingID string) (types.BuildingResult, error) {
	run, err := f.runDoc(runID)
	if err != nil {
		return types.BuildingResult{}, err
	}
	doc, err := run.Collection("buildings").Doc(buildingID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.BuildingResult{}, fmt.Errorf("%w: %s", ErrBuildingNotFound, buildingID)
		}
		return types.BuildingResult{}, fmt.Errorf("failed to get building %s: %w", buildingID, err)
	}
	var res types.BuildingResult
	if err := docJSON(ctx, doc, &res); err != nil {
		return types.BuildingResult{}, err
	}
	return res, nil
}

// PutConsumption stores the resampled table as CSV text under
// runs/<runID>/consumption. Firestore documents cap at 1MiB, which a
// resampled hourly table fits comfortably.
func (f *FirestoreStore) PutConsumption(ctx context.Context, runID, buildingID, label string, tbl *profile.Table) error {
	run, err := f.runDoc(runID)
	if err != nil {
		return err
	}
	var buf strings.Builder
	if err := tbl.WriteCSV(&buf); err != nil {
		return fmt.Errorf("failed to encode consumption for %s: %w", buildingID, err)
	}
	docID := fmt.Sprintf("%s_%s", buildingID, label)
	if _, err := run.Collection("consumption").Doc(docID).Set(ctx, map[string]interface{}{
		"csv": buf.String(),
	}); err != nil {
		return fmt.Errorf("failed to set consumption %s: %w", docID, err)
	}
	return nil
}

// PutCombined stores one cross-building table under runs/<runID>/combined.
func (f *FirestoreStore) PutCombined(ctx context.Context, runID string, combined types.CombinedTable) error {
	run, err := f.runDoc(runID)
	if err != nil {
		return err
	}
	return f.setJSON(ctx, run.Collection("combined").Doc(combined.Name), combined)
}
