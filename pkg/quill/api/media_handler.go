package api

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/quillhq/quill/pkg/quill"
)

// maxUploadMemory caps the multipart bytes held in memory before spilling to disk.
const maxUploadMemory = 32 << 20 // 32 MB

// MediaHandler handles HTTP requests for media files
type MediaHandler struct {
	service quill.Service
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(service quill.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// Routes returns the routes for media
func (h *MediaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMedia)
	r.Post("/", h.UploadMedia)
	r.Get("/{id}", h.GetMedia)
	r.Delete("/{id}", h.DeleteMedia)
	r.Get("/{id}/file", h.DownloadMedia)

	return r
}

// ListMedia lists all media records
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMedia(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, items)
}

// UploadMedia accepts a multipart upload under the "file" form field
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeBadRequest(w, r, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, r, "missing file field")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	media, err := h.service.UploadMedia(r.Context(), ActorFromContext(r.Context()), quill.UploadMediaRequest{
		Filename: filepath.Base(header.Filename),
		MimeType: mimeType,
		Size:     header.Size,
		Reader:   file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "media uploaded", "media_id", media.ID, "filename", media.Filename, "size", media.Size)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, media)
}

// GetMedia returns one media record by id
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid media id")
		return
	}

	media, err := h.service.GetMedia(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, media)
}

// DeleteMedia deletes a media record and its stored bytes (admin or uploader)
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid media id")
		return
	}

	deleted, err := h.service.DeleteMedia(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"deleted": deleted})
}

// DownloadMedia streams the stored bytes for backends without direct URLs
func (h *MediaHandler) DownloadMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid media id")
		return
	}

	media, reader, err := h.service.DownloadMedia(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", media.MimeType)
	w.Header().Set("Content-Disposition", "inline; filename="+strconv.Quote(media.Filename))
	if media.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(media.Size, 10))
	}

	if _, err := io.Copy(w, reader); err != nil {
		slog.WarnContext(r.Context(), "stream media", "media_id", media.ID, "error", err)
	}
}
