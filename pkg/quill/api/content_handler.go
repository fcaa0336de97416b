package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/quillhq/quill/pkg/quill"
)

// ContentHandler handles HTTP requests for content entries
type ContentHandler struct {
	service quill.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service quill.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListContent)
	r.Post("/", h.CreateContent)
	r.Get("/{id}", h.GetContent)
	r.Put("/{id}", h.UpdateContent)
	r.Delete("/{id}", h.DeleteContent)
	r.Post("/{id}/publish", h.PublishContent)
	r.Post("/{id}/unpublish", h.UnpublishContent)
	r.Get("/{typeSlug}/{slug}", h.GetContentBySlug)

	return r
}

// CreateContentRequest is the request body for creating a content entry
type CreateContentRequest struct {
	ContentTypeID uuid.UUID                 `json:"content_type_id"`
	Title         string                    `json:"title"`
	Slug          string                    `json:"slug"`
	Status        string                    `json:"status,omitempty"`
	Fields        []quill.ContentFieldInput `json:"fields"`
}

// UpdateContentRequest is the request body for patching a content entry.
// Absent keys leave the current value untouched; a present "fields" replaces
// the entire stored field list.
type UpdateContentRequest struct {
	Title  *string                    `json:"title"`
	Slug   *string                    `json:"slug"`
	Status *string                    `json:"status"`
	Fields *[]quill.ContentFieldInput `json:"fields"`
}

// ListContent lists entries, optionally filtered by content type and status
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	var filter quill.ContentFilter

	if v := r.URL.Query().Get("content_type_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeBadRequest(w, r, "invalid content_type_id filter")
			return
		}
		filter.ContentTypeID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := quill.ContentStatus(v)
		if !status.IsValid() {
			writeBadRequest(w, r, "invalid status filter")
			return
		}
		filter.Status = &status
	}

	details, err := h.service.ListContent(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, details)
}

// CreateContent creates a new content entry
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	detail, err := h.service.CreateContent(r.Context(), ActorFromContext(r.Context()), quill.CreateContentRequest{
		ContentTypeID: req.ContentTypeID,
		Title:         req.Title,
		Slug:          req.Slug,
		Status:        quill.ContentStatus(req.Status),
		Fields:        req.Fields,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "content created", "content_id", detail.Content.ID, "slug", detail.Content.Slug)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, detail)
}

// GetContent returns one entry by id
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid content id")
		return
	}

	detail, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, detail)
}

// GetContentBySlug returns one entry addressed by content type slug and entry slug
func (h *ContentHandler) GetContentBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetContentBySlug(r.Context(), chi.URLParam(r, "typeSlug"), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, detail)
}

// UpdateContent patches an entry
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid content id")
		return
	}

	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	var status *quill.ContentStatus
	if req.Status != nil {
		s := quill.ContentStatus(*req.Status)
		status = &s
	}

	detail, err := h.service.UpdateContent(r.Context(), ActorFromContext(r.Context()), quill.UpdateContentRequest{
		ID:     id,
		Title:  req.Title,
		Slug:   req.Slug,
		Status: status,
		Fields: req.Fields,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, detail)
}

// DeleteContent deletes an entry
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid content id")
		return
	}

	deleted, err := h.service.DeleteContent(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"deleted": deleted})
}

// PublishContent marks an entry published (admin or editor)
func (h *ContentHandler) PublishContent(w http.ResponseWriter, r *http.Request) {
	h.setPublishState(w, r, h.service.PublishContent)
}

// UnpublishContent reverts an entry to draft (admin or editor)
func (h *ContentHandler) UnpublishContent(w http.ResponseWriter, r *http.Request) {
	h.setPublishState(w, r, h.service.UnpublishContent)
}

func (h *ContentHandler) setPublishState(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, actor *quill.Actor, id uuid.UUID) (*quill.ContentDetail, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid content id")
		return
	}

	detail, err := op(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, detail)
}
