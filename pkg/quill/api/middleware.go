package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/quillhq/quill/pkg/quill"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorResolver resolves the verified JWT (if any) to an actor and stores it
// in the request context. Requests with a missing, expired or malformed token
// proceed as anonymous; handlers that need an identity get ErrUnauthorized
// from the service layer. Must run after jwtauth.Verifier.
func ActorResolver(service quill.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				next.ServeHTTP(w, r)
				return
			}

			actorID, err := quill.ActorIDFromClaims(claims)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := service.ResolveActor(r.Context(), actorID)
			if err != nil {
				// Token for a deleted actor; treat as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the resolved actor, or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *quill.Actor {
	actor, _ := ctx.Value(actorKey).(*quill.Actor)
	return actor
}
