package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/game/entity"
)

// Handler exposes the HTTP endpoints for the game catalog.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /games/. Name is the only required field.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var g entity.Game
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid game payload")
		return
	}
	if g.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Field 'name' is required")
		return
	}
	created, err := h.svc.Create(r.Context(), &g)
	if err != nil {
		h.logger.Warnw("create game failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not create game")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /games/ with optional limit, sort_by, sort_order params.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := ListOptions{
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid limit")
			return
		}
		opts.Limit = n
	}

	games, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.logger.Warnw("list games failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not list games")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// Get handles GET /games/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err, "could not get game")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Update handles PUT /games/{id} with a sparse field set.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.GamePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid game payload")
		return
	}
	g, err := h.svc.Update(r.Context(), r.PathValue("id"), &patch)
	if err != nil {
		h.writeServiceError(w, err, "could not update game")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Delete handles DELETE /games/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err, "could not delete game")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Game deleted successfully"})
}

// writeServiceError maps service sentinels to status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid game ID")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Game not found")
	default:
		h.logger.Warnw("game operation failed", "err", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
