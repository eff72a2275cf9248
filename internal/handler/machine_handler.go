package handler

import (
	"encoding/json"
	"net/http"

	"brewbox/internal/model"
	"brewbox/internal/service"

	"github.com/rs/zerolog"
)

// MachineHandler serves the menu, inventory and maintenance endpoints.
type MachineHandler struct {
	service service.MachineService
	logger  zerolog.Logger
}

// NewMachineHandler creates a new machine handler.
func NewMachineHandler(service service.MachineService, logger zerolog.Logger) *MachineHandler {
	return &MachineHandler{
		service: service,
		logger:  logger.With().Str("handler", "machine").Logger(),
	}
}

// Menu handles GET /api/menu requests.
func (h *MachineHandler) Menu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidInput, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.ListProducts(r.Context()))
}

// Availability handles GET /api/menu/availability?product=&size= requests.
func (h *MachineHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidInput, "method not allowed", h.logger)
		return
	}

	product := r.URL.Query().Get("product")
	size := r.URL.Query().Get("size")
	if product == "" || size == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "product and size are required", h.logger)
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), product, size)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, availability)
}

// Inventory handles GET /api/inventory requests.
func (h *MachineHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidInput, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.InventoryReport(r.Context()))
}

// Refill handles POST /api/inventory/refill requests.
func (h *MachineHandler) Refill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidInput, "method not allowed", h.logger)
		return
	}

	var req model.RefillRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	kind, err := model.ParseResourceKind(req.Resource)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	quantity, err := h.service.Refill(r.Context(), kind, req.Amount)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.RefillResponse{
		Resource: kind,
		Unit:     kind.Unit(),
		Quantity: quantity,
	})
}

// Maintenance handles GET /api/maintenance requests.
func (h *MachineHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInvalidInput, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.MaintenanceStatus(r.Context()))
}
