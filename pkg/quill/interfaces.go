package quill

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the interface for persistence of actors, content types,
// content entries and media records.
//
// Uniqueness invariants (actor handle/email, content type slug, entry slug per
// content type) are enforced authoritatively here: implementations back them
// with unique indexes and return the matching sentinel error on violation. The
// service layer performs its own read-before-write checks only as a fast path
// for friendlier errors; a racing write must still be rejected by the
// repository.
type Repository interface {
	// Actor operations
	CreateActor(ctx context.Context, actor *Actor) error
	GetActor(ctx context.Context, id uuid.UUID) (*Actor, error)
	GetActorByEmail(ctx context.Context, email string) (*Actor, error)
	GetActorByHandle(ctx context.Context, handle string) (*Actor, error)
	ListActors(ctx context.Context) ([]*Actor, error)

	// Content type operations
	CreateContentType(ctx context.Context, ct *ContentType) error
	GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error)
	GetContentTypeBySlug(ctx context.Context, slug string) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)
	UpdateContentType(ctx context.Context, ct *ContentType) error
	DeleteContentType(ctx context.Context, id uuid.UUID) (bool, error)
	CountContentByType(ctx context.Context, contentTypeID uuid.UUID) (int64, error)

	// Content operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, contentTypeID uuid.UUID, slug string) (*Content, error)
	ListContent(ctx context.Context, filter ContentFilter) ([]*Content, error)
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id uuid.UUID) (bool, error)

	// Media operations
	CreateMedia(ctx context.Context, media *Media) error
	GetMedia(ctx context.Context, id uuid.UUID) (*Media, error)
	ListMedia(ctx context.Context) ([]*Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) (bool, error)
}

// BlobStore defines the interface for media byte storage backends.
type BlobStore interface {
	// Upload stores the bytes read from reader under objectKey.
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download returns a reader for the bytes stored under objectKey.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the bytes stored under objectKey.
	Delete(ctx context.Context, objectKey string) error

	// GetDownloadURL returns a direct URL for objectKey, or "" when the
	// backend cannot mint one and the API should serve the bytes itself.
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)
}

// EventSink defines the interface for lifecycle event handling. Events are
// fired best-effort after a successful write; a sink error never fails the
// operation.
type EventSink interface {
	ActorRegistered(ctx context.Context, actor *Actor) error
	ContentTypeCreated(ctx context.Context, ct *ContentType) error
	ContentTypeDeleted(ctx context.Context, id uuid.UUID) error
	ContentCreated(ctx context.Context, content *Content) error
	ContentUpdated(ctx context.Context, content *Content) error
	ContentDeleted(ctx context.Context, contentID uuid.UUID) error
	ContentPublished(ctx context.Context, content *Content) error
	ContentUnpublished(ctx context.Context, content *Content) error
	MediaUploaded(ctx context.Context, media *Media) error
	MediaDeleted(ctx context.Context, mediaID uuid.UUID) error
}
