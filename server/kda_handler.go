package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"stonehub/model"
	"stonehub/repository"
)

// saveKDARequest is the flat save-kda body. Counters that are absent or null
// keep their slot default; numbers may also arrive as numeric strings.
type saveKDARequest struct {
	Progress model.KDAProgress
}

func (req *saveKDARequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var game string
	if v, ok := raw["game"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &game); err != nil {
			return fmt.Errorf("game must be a string")
		}
	}

	p := model.NewKDAProgress(game)
	for i := range p.Slots {
		slot := &p.Slots[i]
		counters := []struct {
			stat string
			dst  *int
		}{
			{"kills", &slot.Kills},
			{"deaths", &slot.Deaths},
			{"assists", &slot.Assists},
		}
		for _, c := range counters {
			name := model.KDAFieldName(c.stat, i)
			v, ok := raw[name]
			if !ok || isNull(v) {
				continue
			}
			n, err := parseCounter(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*c.dst = n
		}
	}

	req.Progress = p
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// parseCounter accepts a JSON integer, an integral float, or a string holding either.
func parseCounter(v json.RawMessage) (int, error) {
	var num json.Number
	if err := json.Unmarshal(v, &num); err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n, err := num.Int64(); err == nil && n >= math.MinInt32 && n <= math.MaxInt32 {
		return int(n), nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer counter")
	}
	return int(f), nil
}

// SaveKDAHandler replaces the whole row for (user, game).
func (h *APIHandler) SaveKDAHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := IdentityFromContext(r.Context())

	var req saveKDARequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.kdaRepo.Save(r.Context(), email, req.Progress); err != nil {
		if errors.Is(err, repository.ErrMissingGame) {
			writeError(w, http.StatusBadRequest, "Game is required")
			return
		}
		internalError(w, "[KDA]", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse)
}

// GetKDAHandler returns {game: {kills1..assists5}} for the current user.
func (h *APIHandler) GetKDAHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := IdentityFromContext(r.Context())

	progress, err := h.kdaRepo.GetAll(r.Context(), email)
	if err != nil {
		internalError(w, "[KDA]", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
