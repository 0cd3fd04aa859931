package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tagonlink/tagonlink/internal/auth"
	"github.com/tagonlink/tagonlink/internal/handler/dto"
	"github.com/tagonlink/tagonlink/internal/service"
)

// LinkHandler handles HTTP requests for link operations.
type LinkHandler struct {
	svc    *service.LinkService
	logger *slog.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc *service.LinkService, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/links.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	links, err := h.svc.ListLinks(r.Context(), ownerID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLinkResponses(links))
}

// Create handles POST /api/links.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req dto.LinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.svc.CreateLink(r.Context(), ownerID, toLinkInput(req))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("link_created",
		"link_id", link.ID,
		"user_id", ownerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToLinkResponse(link))
}

// Update handles PUT /api/links/{id}.
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "link id is required")
		return
	}

	var req dto.LinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.svc.UpdateLink(r.Context(), ownerID, id, toLinkInput(req))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("link_updated",
		"link_id", link.ID,
		"user_id", ownerID,
	)

	writeJSON(w, http.StatusOK, dto.ToLinkResponse(link))
}

// Delete handles DELETE /api/links/{id}.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "link id is required")
		return
	}

	if err := h.svc.DeleteLink(r.Context(), ownerID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("link_deleted", "link_id", id, "user_id", ownerID)

	w.WriteHeader(http.StatusNoContent)
}

// ownerID returns the authenticated caller. Routes are mounted behind the
// auth middleware, so a miss means the router is misconfigured.
func (h *LinkHandler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "no credentials")
		return "", false
	}
	return userID, true
}

func toLinkInput(req dto.LinkRequest) service.LinkInput {
	return service.LinkInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Tags:        req.Tags,
	}
}

// handleServiceError maps service errors to HTTP responses.
func (h *LinkHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		writeError(w, http.StatusNotFound, "LINK_NOT_FOUND", "link not found")
	case errors.Is(err, service.ErrLinkForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "access denied")
	case errors.Is(err, service.ErrOwnerNotFound):
		writeError(w, http.StatusBadRequest, "OWNER_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrDuplicateLink):
		h.logger.Error("duplicate_link", "error", err)
		writeError(w, http.StatusInternalServerError, "DUPLICATE_LINK", "link already exists")
	case errors.Is(err, service.ErrSchemaMissing):
		h.logger.Error("schema_missing", "error", err)
		writeError(w, http.StatusInternalServerError, "TABLE_NOT_FOUND", "database tables missing, run migrations")
	case writeValidationError(w, err):
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
