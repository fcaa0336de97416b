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

// AuthHandler handles registration, login and actor listing
type AuthHandler struct {
	service quill.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service quill.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Routes returns the routes for auth
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/guest", h.GuestLogin)
	r.Get("/me", h.Me)

	return r
}

// ActorRoutes returns the admin-gated actor listing routes
func (h *AuthHandler) ActorRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListActors)
	r.Get("/{id}", h.GetActor)

	return r
}

// RegisterRequest is the request body for registering an actor
type RegisterRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest is the request body for a credentials login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new actor and returns a session token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), quill.RegisterRequest{
		Handle:   req.Handle,
		Email:    req.Email,
		Password: req.Password,
		Role:     quill.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "actor registered", "actor_id", result.Actor.ID, "handle", result.Actor.Handle)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// Login authenticates with email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), quill.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// GuestLogin returns a short-lived session for the shared guest actor
func (h *AuthHandler) GuestLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GuestLogin(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// Me returns the actor behind the current session token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := h.service.CurrentActor(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, actor)
}

// ListActors lists all actors (admin only)
func (h *AuthHandler) ListActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.service.ListActors(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, actors)
}

// GetActor returns one actor by id (admin only)
func (h *AuthHandler) GetActor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "invalid actor id")
		return
	}

	actor, err := h.service.GetActor(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, actor)
}
