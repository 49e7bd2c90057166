package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pos-bolt/api/internal/database"
)

// SettingsStore defines the database methods needed by settings handlers.
type SettingsStore interface {
	GetSettings(ctx context.Context) (database.Setting, error)
	UpdateSettings(ctx context.Context, arg database.UpdateSettingsParams) (database.Setting, error)
}

// SettingsHandler handles the business settings endpoints. Settings are a
// singleton row seeded at startup.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers settings endpoints on the given Chi router.
// Expected to be mounted at /api/settings.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

type settingsPayload struct {
	BusinessName   string `json:"business_name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Timezone       string `json:"timezone"`
	Currency       string `json:"currency"`
	NotifyNewOrder bool   `json:"notify_new_order"`
	NotifyLowStock bool   `json:"notify_low_stock"`
	DailyReport    bool   `json:"daily_report"`
	FontSize       string `json:"font_size"`
}

func toSettingsPayload(s database.Setting) settingsPayload {
	return settingsPayload{
		BusinessName:   s.BusinessName,
		Address:        s.Address,
		Phone:          s.Phone,
		Email:          s.Email,
		Timezone:       s.Timezone,
		Currency:       s.Currency,
		NotifyNewOrder: s.NotifyNewOrder,
		NotifyLowStock: s.NotifyLowStock,
		DailyReport:    s.DailyReport,
		FontSize:       s.FontSize,
	}
}

// Get returns the current business settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		log.Printf("ERROR: get settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}

// Update replaces the business settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.BusinessName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "business_name is required"})
		return
	}

	settings, err := h.store.UpdateSettings(r.Context(), database.UpdateSettingsParams{
		BusinessName:   req.BusinessName,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		Timezone:       req.Timezone,
		Currency:       req.Currency,
		NotifyNewOrder: req.NotifyNewOrder,
		NotifyLowStock: req.NotifyLowStock,
		DailyReport:    req.DailyReport,
		FontSize:       req.FontSize,
	})
	if err != nil {
		log.Printf("ERROR: update settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}
