package quill

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Media catalog. Reads are public; uploads require authentication; deletion is
// allowed to admins and the original uploader.

func (s *service) UploadMedia(ctx context.Context, actor *Actor, req UploadMediaRequest) (*Media, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("no blob store configured")
	}
	if req.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}

	id := uuid.New()
	objectKey := fmt.Sprintf("media/%s/%s", id, req.Filename)

	if err := s.blobStore.Upload(ctx, objectKey, req.Reader); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	url, err := s.blobStore.GetDownloadURL(ctx, objectKey, req.Filename)
	if err != nil || url == "" {
		// Backends without direct URLs are served through the API.
		url = fmt.Sprintf("/api/v1/media/%s/file", id)
	}

	now := s.now()
	media := &Media{
		ID:        id,
		Filename:  req.Filename,
		MimeType:  req.MimeType,
		Size:      req.Size,
		URL:       url,
		ObjectKey: objectKey,
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateMedia(ctx, media); err != nil {
		// Keep the store consistent with the catalog.
		if derr := s.blobStore.Delete(ctx, objectKey); derr != nil {
			slog.WarnContext(ctx, "orphaned media object", "object_key", objectKey, "error", derr)
		}
		return nil, err
	}

	_ = s.events.MediaUploaded(ctx, media)

	return media, nil
}

func (s *service) GetMedia(ctx context.Context, id uuid.UUID) (*Media, error) {
	return s.repository.GetMedia(ctx, id)
}

func (s *service) ListMedia(ctx context.Context) ([]*Media, error) {
	return s.repository.ListMedia(ctx)
}

func (s *service) DeleteMedia(ctx context.Context, actor *Actor, id uuid.UUID) (bool, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return false, err
	}

	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return false, err
	}
	if err := canDeleteMedia(actor, media); err != nil {
		return false, err
	}

	deleted, err := s.repository.DeleteMedia(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		if s.blobStore != nil {
			if err := s.blobStore.Delete(ctx, media.ObjectKey); err != nil {
				slog.WarnContext(ctx, "delete media object", "object_key", media.ObjectKey, "error", err)
			}
		}
		_ = s.events.MediaDeleted(ctx, id)
	}
	return deleted, nil
}

func (s *service) DownloadMedia(ctx context.Context, id uuid.UUID) (*Media, io.ReadCloser, error) {
	media, err := s.repository.GetMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.blobStore == nil {
		return nil, nil, fmt.Errorf("no blob store configured")
	}
	reader, err := s.blobStore.Download(ctx, media.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return media, reader, nil
}
