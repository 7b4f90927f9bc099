// Package api declares HTTP contracts and route registration helpers
// for the heat scoring service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/heatcast/internal/adapters/eventlog"
	"github.com/okian/heatcast/internal/app"
	"github.com/okian/heatcast/internal/broadcast"
	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/view"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// HandleCommand routes a heat command through the aggregate service.
	HandleCommand(ctx context.Context, cmd heat.Command) (app.Result, error)

	// Snapshot rebuilds the heat's current viewer state.
	Snapshot(ctx context.Context, heatID string) (view.ViewerState, error)
}

// Hub is the subset of the broadcast hub the live endpoint needs.
type Hub interface {
	AddConnection(heatID string, conn broadcast.Conn)
	RemoveConnection(heatID string, conn broadcast.Conn)
	HandleClientMessage(heatID string, conn broadcast.Conn, raw []byte)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	heatsHandler  *HeatsHandler
	liveHandler   *LiveHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, hub Hub, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		heatsHandler:  NewHeatsHandler(deps),
		liveHandler:   NewLiveHandler(hub),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/heats", MetricsMiddleware(s.heatsHandler.HandleCreate, "heats"))
	mux.HandleFunc("/heats/", s.route)
}

// route dispatches /heats/{id}[/suffix] paths.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	heatID, suffix := splitHeatPath(r.URL.Path)
	if heatID == "" {
		http.NotFound(w, r)
		return
	}
	switch suffix {
	case "":
		MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.heatsHandler.HandleViewerState(w, r, heatID)
		}, "heat_state")(w, r)
	case "waves":
		MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.heatsHandler.HandleWaveScore(w, r, heatID)
		}, "wave_scores")(w, r)
	case "jumps":
		MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.heatsHandler.HandleJumpScore(w, r, heatID)
		}, "jump_scores")(w, r)
	case "live":
		// No metrics middleware: the connection is long-lived.
		s.liveHandler.HandleLive(w, r, heatID)
	default:
		http.NotFound(w, r)
	}
}

// splitHeatPath turns /heats/{id}[/suffix] into its parts.
func splitHeatPath(path string) (heatID, suffix string) {
	rest := strings.TrimPrefix(path, "/heats/")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	heatID = parts[0]
	if len(parts) == 2 {
		suffix = parts[1]
	}
	return heatID, suffix
}

type ackResponse struct {
	Status string `json:"status"`
	HeatID string `json:"heat_id"`
	Events int    `json:"events"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeCommandError translates decide rejections and log failures to
// HTTP statuses.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, heat.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, heat.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", err)
	case errors.Is(err, heat.ErrDuplicateScoreUUID):
		writeError(w, http.StatusConflict, "duplicate_score", err)
	case errors.Is(err, eventlog.ErrVersionConflict):
		writeError(w, http.StatusConflict, "version_conflict", err)
	case errors.Is(err, heat.ErrNoRiders),
		errors.Is(err, heat.ErrDuplicateRiders),
		errors.Is(err, heat.ErrInvalidRules),
		errors.Is(err, heat.ErrIDMismatch),
		errors.Is(err, heat.ErrRiderNotInHeat),
		errors.Is(err, heat.ErrInvalidScore):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
