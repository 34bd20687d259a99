package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/techstacks/techstacks-engine/pkg/auth"
	"github.com/techstacks/techstacks-engine/pkg/models"
	"github.com/techstacks/techstacks-engine/pkg/services"
)

// DeleteTechnologyResponse acknowledges a deletion with the removed id.
type DeleteTechnologyResponse struct {
	ID int64 `json:"id"`
}

// StacksUsingTechnologyResponse lists the distinct ids of stacks that
// reference a technology.
type StacksUsingTechnologyResponse struct {
	TechnologyID int64   `json:"technology_id"`
	StackIDs     []int64 `json:"stack_ids"`
}

// TechnologyHandler handles technology catalog HTTP requests.
type TechnologyHandler struct {
	service services.TechnologyService
	logger  *zap.Logger
}

// NewTechnologyHandler creates a new technology handler.
func NewTechnologyHandler(service services.TechnologyService, logger *zap.Logger) *TechnologyHandler {
	return &TechnologyHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the technology handler's routes on the given mux.
// Mutations require authentication; reads are public.
func (h *TechnologyHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /technologies", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /technologies/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /technologies/{id}", authMiddleware.RequireAuth(h.Delete))

	mux.HandleFunc("GET /technologies", h.List)
	mux.HandleFunc("GET /technologies/{slug}", h.Get)
	mux.HandleFunc("GET /technologies/{id}/stacks", h.Stacks)
	mux.HandleFunc("GET /technologies/{slug}/previous-versions", h.PreviousVersions)
}

// Create handles POST /technologies.
// Server-owned fields in the payload are ignored and stamped from the
// actor and clock.
func (h *TechnologyHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing authentication")
		return
	}

	var tech models.Technology
	if err := json.NewDecoder(r.Body).Decode(&tech); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), actor, &tech)
	if err != nil {
		h.handleServiceError(w, err, "Failed to create technology",
			zap.String("actor_id", actor.ID))
		return
	}

	if err := WriteJSON(w, http.StatusCreated, created); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /technologies/{id}.
func (h *TechnologyHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing authentication")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_id", "Technology id must be numeric")
		return
	}

	var tech models.Technology
	if err := json.NewDecoder(r.Body).Decode(&tech); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), actor, id, &tech)
	if err != nil {
		h.handleServiceError(w, err, "Failed to update technology",
			zap.Int64("id", id),
			zap.String("actor_id", actor.ID))
		return
	}

	if err := WriteJSON(w, http.StatusOK, updated); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /technologies/{id}.
func (h *TechnologyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing authentication")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_id", "Technology id must be numeric")
		return
	}

	deletedID, err := h.service.Delete(r.Context(), actor, id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to delete technology",
			zap.Int64("id", id),
			zap.String("actor_id", actor.ID))
		return
	}

	if err := WriteJSON(w, http.StatusOK, DeleteTechnologyResponse{ID: deletedID}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /technologies/{slug}.
// Numeric tokens resolve by id, anything else by slug title.
func (h *TechnologyHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("slug")

	tech, err := h.service.GetByIDOrSlug(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get technology",
			zap.String("token", token))
		return
	}

	if err := WriteJSON(w, http.StatusOK, tech); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /technologies.
func (h *TechnologyHandler) List(w http.ResponseWriter, r *http.Request) {
	techs, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "Failed to list technologies")
		return
	}

	if techs == nil {
		techs = []*models.Technology{}
	}
	if err := WriteJSON(w, http.StatusOK, techs); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Stacks handles GET /technologies/{id}/stacks.
func (h *TechnologyHandler) Stacks(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_id", "Technology id must be numeric")
		return
	}

	ids, err := h.service.StacksUsing(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to list stacks using technology",
			zap.Int64("id", id))
		return
	}

	if ids == nil {
		ids = []int64{}
	}
	response := StacksUsingTechnologyResponse{TechnologyID: id, StackIDs: ids}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// PreviousVersions handles GET /technologies/{slug}/previous-versions.
// The audit trail stays reachable after the technology itself is gone.
func (h *TechnologyHandler) PreviousVersions(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("slug")

	records, err := h.service.PreviousVersions(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err, "Failed to list previous versions",
			zap.String("token", token))
		return
	}

	if records == nil {
		records = []*models.TechnologyHistory{}
	}
	if err := WriteJSON(w, http.StatusOK, records); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// handleServiceError maps a service error to its response status and logs
// unexpected failures.
func (h *TechnologyHandler) handleServiceError(w http.ResponseWriter, err error, logMsg string, fields ...zap.Field) {
	status, code := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(logMsg, append(fields, zap.Error(err))...)
		h.writeErrorResponse(w, status, code, logMsg)
		return
	}

	h.writeErrorResponse(w, status, code, err.Error())
}

func (h *TechnologyHandler) writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
