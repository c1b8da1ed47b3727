package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/parcelsim/parcelsim/pkg/log"
	"github.com/parcelsim/parcelsim/pkg/storage"
)

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runs, err := s.storage.ListRuns(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list runs", slog.Any("error", err))
		writeJSONError(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, struct {
		Runs interface{} `json:"runs"`
	}{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := r.PathValue("runID")

	run, err := s.storage.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			writeJSONError(w, "run not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get run", slog.String("runID", runID), slog.Any("error", err))
		writeJSONError(w, "failed to get run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, run)
}

func (s *Server) handleGetBuilding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := r.PathValue("runID")
	buildingID := r.PathValue("buildingID")

	res, err := s.storage.GetBuilding(ctx, runID, buildingID)
	if err != nil {
		if errors.Is(err, storage.ErrBuildingNotFound) {
			writeJSONError(w, "building not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get building",
			slog.String("runID", runID), slog.String("buildingID", buildingID), slog.Any("error", err))
		writeJSONError(w, "failed to get building", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}
