package quill

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the full query/mutation surface of the backend.
//
// Every operation takes the acting caller explicitly; a nil actor is an
// anonymous caller. There is no ambient session state: the API layer resolves
// the bearer token once per request and passes the result down.
type Service interface {
	// Identity & sessions
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	GuestLogin(ctx context.Context) (*AuthResult, error)
	CurrentActor(ctx context.Context, actor *Actor) (*Actor, error)
	ListActors(ctx context.Context, actor *Actor) ([]*Actor, error)
	GetActor(ctx context.Context, actor *Actor, id uuid.UUID) (*Actor, error)
	// ResolveActor loads an actor by id for token resolution; unlike GetActor
	// it is not gated, because it runs before any authorization decision.
	ResolveActor(ctx context.Context, id uuid.UUID) (*Actor, error)
	// EnsureAdmin creates a default admin actor when none exists yet.
	// Returns the admin and whether it was created by this call.
	EnsureAdmin(ctx context.Context, handle, email, password string) (*Actor, bool, error)

	// Content type registry
	CreateContentType(ctx context.Context, actor *Actor, req CreateContentTypeRequest) (*ContentType, error)
	UpdateContentType(ctx context.Context, actor *Actor, req UpdateContentTypeRequest) (*ContentType, error)
	DeleteContentType(ctx context.Context, actor *Actor, id uuid.UUID) (bool, error)
	GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)

	// Content lifecycle
	CreateContent(ctx context.Context, actor *Actor, req CreateContentRequest) (*ContentDetail, error)
	UpdateContent(ctx context.Context, actor *Actor, req UpdateContentRequest) (*ContentDetail, error)
	DeleteContent(ctx context.Context, actor *Actor, id uuid.UUID) (bool, error)
	PublishContent(ctx context.Context, actor *Actor, id uuid.UUID) (*ContentDetail, error)
	UnpublishContent(ctx context.Context, actor *Actor, id uuid.UUID) (*ContentDetail, error)
	GetContent(ctx context.Context, id uuid.UUID) (*ContentDetail, error)
	GetContentBySlug(ctx context.Context, contentTypeSlug, slug string) (*ContentDetail, error)
	ListContent(ctx context.Context, filter ContentFilter) ([]*ContentDetail, error)

	// Media
	UploadMedia(ctx context.Context, actor *Actor, req UploadMediaRequest) (*Media, error)
	GetMedia(ctx context.Context, id uuid.UUID) (*Media, error)
	ListMedia(ctx context.Context) ([]*Media, error)
	DeleteMedia(ctx context.Context, actor *Actor, id uuid.UUID) (bool, error)
	DownloadMedia(ctx context.Context, id uuid.UUID) (*Media, io.ReadCloser, error)
}
