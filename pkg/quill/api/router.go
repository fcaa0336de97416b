package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/quillhq/quill/pkg/quill"
)

// NewRouter assembles the full API surface under /api/v1 plus a health check.
// The token verifier and actor resolver run on every route; identity
// requirements are enforced per-operation in the service layer, so an invalid
// or absent token means an anonymous request rather than an immediate 401.
func NewRouter(service quill.Service, tokens *quill.TokenIssuer) chi.Router {
	r := chi.NewRouter()

	r.Use(jwtauth.Verifier(tokens.JWTAuth()))
	r.Use(ActorResolver(service))

	r.Get("/health", handleHealth)

	authHandler := NewAuthHandler(service)
	contentTypeHandler := NewContentTypeHandler(service)
	contentHandler := NewContentHandler(service)
	mediaHandler := NewMediaHandler(service)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/actors", authHandler.ActorRoutes())
		r.Mount("/content-types", contentTypeHandler.Routes())
		r.Mount("/contents", contentHandler.Routes())
		r.Mount("/media", mediaHandler.Routes())
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}
