package screening

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hzhao-dev/triagecare/backend/internal/analysis/redflag"
	"github.com/hzhao-dev/triagecare/backend/pkg/utils"
)

// Handler exposes the low-latency emergency pre-check.
type Handler struct{}

// New creates the screening handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the screening route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/screening/quick", h.handleQuickScreen)
}

type quickScreenRequest struct {
	Symptoms string `json:"symptoms"`
	Age      *int   `json:"age,omitempty"`
}

func (h *Handler) handleQuickScreen(w http.ResponseWriter, r *http.Request) {
	var payload quickScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Symptoms) == "" {
		utils.RespondError(w, http.StatusBadRequest, "symptoms is required")
		return
	}

	age := -1
	if payload.Age != nil {
		age = *payload.Age
	}

	utils.RespondJSON(w, http.StatusOK, redflag.QuickScreen(payload.Symptoms, age))
}
