package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/quillhq/quill/pkg/quill"
)

// ContentTypeHandler handles HTTP requests for the content type registry
type ContentTypeHandler struct {
	service quill.Service
}

// NewContentTypeHandler creates a new content type handler
func NewContentTypeHandler(service quill.Service) *ContentTypeHandler {
	return &ContentTypeHandler{service: service}
}

// Routes returns the routes for content types
func (h *ContentTypeHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListContentTypes)
	r.Post("/", h.CreateContentType)
	r.Get("/{id}", h.GetContentType)
	r.Put("/{id}", h.UpdateContentType)
	r.Delete("/{id}", h.DeleteContentType)

	return r
}

// CreateContentTypeRequest is the request body for creating a content type
type CreateContentTypeRequest struct {
	Name        string                   `json:"name"`
	Slug        string                   `json:"slug"`
	Description string                   `json:"description,omitempty"`
	Fields      []quill.FieldSchemaInput `json:"fields"`
}

// UpdateContentTypeRequest is the request body for patching a content type.
// Absent keys leave the current value untouched; a present "fields" replaces
// the entire field list.
type UpdateContentTypeRequest struct {
	Name        *string                   `json:"name"`
	Description *string                   `json:"description"`
	Fields      *[]quill.FieldSchemaInput `json:"fields"`
}

// ListContentTypes lists all content types
func (h *ContentTypeHandler) ListContentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListContentTypes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, types)
}

// CreateContentType creates a new content type (admin only)
func (h *ContentTypeHandler) CreateContentType(w http.ResponseWriter, r *http.Request) {
	var req CreateContentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	ct, err := h.service.CreateContentType(r.Context(), ActorFromContext(r.Context()), quill.CreateContentTypeRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Fields:      req.Fields,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "content type created", "content_type_id", ct.ID, "slug", ct.Slug)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ct)
}

// GetContentType returns one content type by id
func (h *ContentTypeHandler) GetContentType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid content type id")
		return
	}

	ct, err := h.service.GetContentType(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ct)
}

// UpdateContentType patches a content type (admin only)
func (h *ContentTypeHandler) UpdateContentType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid content type id")
		return
	}

	var req UpdateContentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	ct, err := h.service.UpdateContentType(r.Context(), ActorFromContext(r.Context()), quill.UpdateContentTypeRequest{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Fields:      req.Fields,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ct)
}

// DeleteContentType deletes a content type with no remaining entries (admin only)
func (h *ContentTypeHandler) DeleteContentType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid content type id")
		return
	}

	deleted, err := h.service.DeleteContentType(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"deleted": deleted})
}
