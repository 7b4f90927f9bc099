package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/heatcast/internal/domain/heat"
)

// HeatsHandler handles heat creation, scoring and viewer state requests.
type HeatsHandler struct {
	deps Dependencies
}

// NewHeatsHandler creates a new heats handler.
func NewHeatsHandler(deps Dependencies) *HeatsHandler {
	return &HeatsHandler{deps: deps}
}

// createHeatRequest mirrors the POST /heats body.
type createHeatRequest struct {
	HeatID   string     `json:"heat_id"`
	RiderIDs []string   `json:"rider_ids"`
	Rules    heat.Rules `json:"rules"`
}

func (r createHeatRequest) validate() error {
	if strings.TrimSpace(r.HeatID) == "" {
		return errors.New("missing heat_id")
	}
	return nil
}

// scoreRequest mirrors the wave and jump scoring bodies; jump_type is
// only read for jumps.
type scoreRequest struct {
	ScoreUUID string  `json:"score_uuid"`
	RiderID   string  `json:"rider_id"`
	Score     float64 `json:"score"`
	JumpType  string  `json:"jump_type"`
	TS        string  `json:"ts"`
}

func (r scoreRequest) validate() (time.Time, error) {
	switch {
	case strings.TrimSpace(r.ScoreUUID) == "":
		return time.Time{}, errors.New("missing score_uuid")
	case strings.TrimSpace(r.RiderID) == "":
		return time.Time{}, errors.New("missing rider_id")
	case strings.TrimSpace(r.TS) == "":
		return time.Time{}, errors.New("missing ts")
	}
	ts, err := time.Parse(time.RFC3339, r.TS)
	if err != nil {
		return time.Time{}, errors.New("invalid ts; must be RFC3339")
	}
	return ts, nil
}

// HandleCreate handles POST /heats requests.
func (h *HeatsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_heat"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createHeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.HandleCommand(r.Context(), heat.CreateHeat{
		ID:       req.HeatID,
		RiderIDs: req.RiderIDs,
		Rules:    req.Rules,
	})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "created", HeatID: res.HeatID, Events: len(res.Events)})
}

// HandleWaveScore handles POST /heats/{id}/waves requests.
func (h *HeatsHandler) HandleWaveScore(w http.ResponseWriter, r *http.Request, heatID string) {
	const op = "api.wave_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, ts, ok := h.decodeScore(w, r, op)
	if !ok {
		return
	}

	res, err := h.deps.HandleCommand(r.Context(), heat.AddWaveScore{
		ID:        heatID,
		ScoreUUID: req.ScoreUUID,
		RiderID:   req.RiderID,
		Score:     req.Score,
		At:        ts,
	})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", HeatID: res.HeatID, Events: len(res.Events)})
}

// HandleJumpScore handles POST /heats/{id}/jumps requests.
func (h *HeatsHandler) HandleJumpScore(w http.ResponseWriter, r *http.Request, heatID string) {
	const op = "api.jump_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, ts, ok := h.decodeScore(w, r, op)
	if !ok {
		return
	}

	jump := heat.JumpType(req.JumpType)
	if !jump.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, errors.New("unknown jump_type")))
		return
	}

	res, err := h.deps.HandleCommand(r.Context(), heat.AddJumpScore{
		ID:        heatID,
		ScoreUUID: req.ScoreUUID,
		RiderID:   req.RiderID,
		Score:     req.Score,
		Jump:      jump,
		At:        ts,
	})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", HeatID: res.HeatID, Events: len(res.Events)})
}

// HandleViewerState handles GET /heats/{id} requests.
func (h *HeatsHandler) HandleViewerState(w http.ResponseWriter, r *http.Request, heatID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	vs, err := h.deps.Snapshot(r.Context(), heatID)
	if err != nil {
		if errors.Is(err, heat.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

// decodeScore parses and validates the shared scoring request body.
func (h *HeatsHandler) decodeScore(w http.ResponseWriter, r *http.Request, op string) (scoreRequest, time.Time, bool) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return scoreRequest{}, time.Time{}, false
	}
	ts, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return scoreRequest{}, time.Time{}, false
	}
	return req, ts, true
}
