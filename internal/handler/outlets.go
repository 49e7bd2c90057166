package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pos-bolt/api/internal/database"
	"github.com/pos-bolt/api/internal/enum"
)

// OutletStore defines the database methods needed by outlet handlers.
type OutletStore interface {
	ListOutlets(ctx context.Context) ([]database.Outlet, error)
	GetOutlet(ctx context.Context, id uuid.UUID) (database.Outlet, error)
	CreateOutlet(ctx context.Context, arg database.CreateOutletParams) (database.Outlet, error)
	UpdateOutlet(ctx context.Context, arg database.UpdateOutletParams) (database.Outlet, error)
	DeleteOutlet(ctx context.Context, id uuid.UUID) (database.Outlet, error)
}

// OutletHandler handles outlet CRUD endpoints.
type OutletHandler struct {
	store OutletStore
}

// NewOutletHandler creates a new OutletHandler.
func NewOutletHandler(store OutletStore) *OutletHandler {
	return &OutletHandler{store: store}
}

// RegisterRoutes registers outlet CRUD endpoints on the given Chi router.
// Expected to be mounted at /api/outlets.
func (h *OutletHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type outletRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type outletResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toOutletResponse(o database.Outlet) outletResponse {
	return outletResponse{
		ID:        o.ID,
		Name:      o.Name,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

func validateOutletRequest(req outletRequest) string {
	if req.Name == "" {
		return "name is required"
	}
	switch req.Status {
	case "", enum.OutletStatusOpen, enum.OutletStatusClosed:
		return ""
	}
	return "invalid status"
}

// List returns all outlets.
func (h *OutletHandler) List(w http.ResponseWriter, r *http.Request) {
	outlets, err := h.store.ListOutlets(r.Context())
	if err != nil {
		log.Printf("ERROR: list outlets: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]outletResponse, len(outlets))
	for i, o := range outlets {
		resp[i] = toOutletResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single outlet by ID.
func (h *OutletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return
	}

	outlet, err := h.store.GetOutlet(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "outlet not found"})
			return
		}
		log.Printf("ERROR: get outlet: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOutletResponse(outlet))
}

// Create adds a new outlet.
func (h *OutletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req outletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if msg := validateOutletRequest(req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	status := req.Status
	if status == "" {
		status = enum.OutletStatusOpen
	}

	outlet, err := h.store.CreateOutlet(r.Context(), database.CreateOutletParams{
		Name:   req.Name,
		Status: status,
	})
	if err != nil {
		log.Printf("ERROR: create outlet: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toOutletResponse(outlet))
}

// Update modifies an existing outlet.
func (h *OutletHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return
	}

	var req outletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if msg := validateOutletRequest(req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	status := req.Status
	if status == "" {
		status = enum.OutletStatusOpen
	}

	outlet, err := h.store.UpdateOutlet(r.Context(), database.UpdateOutletParams{
		ID:     id,
		Name:   req.Name,
		Status: status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "outlet not found"})
			return
		}
		log.Printf("ERROR: update outlet: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOutletResponse(outlet))
}

// Delete removes an outlet.
func (h *OutletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return
	}

	if _, err := h.store.DeleteOutlet(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "outlet not found"})
			return
		}
		log.Printf("ERROR: delete outlet: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
