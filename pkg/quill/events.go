package quill

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink ignores all events.
type NoopEventSink struct{}

// NewNoopEventSink creates an event sink that discards everything.
func NewNoopEventSink() *NoopEventSink { return &NoopEventSink{} }

func (NoopEventSink) ActorRegistered(ctx context.Context, actor *Actor) error          { return nil }
func (NoopEventSink) ContentTypeCreated(ctx context.Context, ct *ContentType) error    { return nil }
func (NoopEventSink) ContentTypeDeleted(ctx context.Context, id uuid.UUID) error       { return nil }
func (NoopEventSink) ContentCreated(ctx context.Context, content *Content) error       { return nil }
func (NoopEventSink) ContentUpdated(ctx context.Context, content *Content) error       { return nil }
func (NoopEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error    { return nil }
func (NoopEventSink) ContentPublished(ctx context.Context, content *Content) error     { return nil }
func (NoopEventSink) ContentUnpublished(ctx context.Context, content *Content) error   { return nil }
func (NoopEventSink) MediaUploaded(ctx context.Context, media *Media) error            { return nil }
func (NoopEventSink) MediaDeleted(ctx context.Context, mediaID uuid.UUID) error        { return nil }

// LogEventSink writes one structured log line per lifecycle event.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink logging through the given logger
// (slog.Default when nil).
func NewLogEventSink(logger *slog.Logger) *LogEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (s *LogEventSink) ActorRegistered(ctx context.Context, actor *Actor) error {
	s.logger.InfoContext(ctx, "actor registered", "actor_id", actor.ID, "handle", actor.Handle, "role", actor.Role)
	return nil
}

func (s *LogEventSink) ContentTypeCreated(ctx context.Context, ct *ContentType) error {
	s.logger.InfoContext(ctx, "content type created", "content_type_id", ct.ID, "slug", ct.Slug)
	return nil
}

func (s *LogEventSink) ContentTypeDeleted(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "content type deleted", "content_type_id", id)
	return nil
}

func (s *LogEventSink) ContentCreated(ctx context.Context, content *Content) error {
	s.logger.InfoContext(ctx, "content created", "content_id", content.ID, "slug", content.Slug, "status", content.Status)
	return nil
}

func (s *LogEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	s.logger.InfoContext(ctx, "content updated", "content_id", content.ID, "status", content.Status)
	return nil
}

func (s *LogEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	s.logger.InfoContext(ctx, "content deleted", "content_id", contentID)
	return nil
}

func (s *LogEventSink) ContentPublished(ctx context.Context, content *Content) error {
	s.logger.InfoContext(ctx, "content published", "content_id", content.ID, "slug", content.Slug)
	return nil
}

func (s *LogEventSink) ContentUnpublished(ctx context.Context, content *Content) error {
	s.logger.InfoContext(ctx, "content unpublished", "content_id", content.ID, "slug", content.Slug)
	return nil
}

func (s *LogEventSink) MediaUploaded(ctx context.Context, media *Media) error {
	s.logger.InfoContext(ctx, "media uploaded", "media_id", media.ID, "filename", media.Filename, "size", media.Size)
	return nil
}

func (s *LogEventSink) MediaDeleted(ctx context.Context, mediaID uuid.UUID) error {
	s.logger.InfoContext(ctx, "media deleted", "media_id", mediaID)
	return nil
}
