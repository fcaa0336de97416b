package quill

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Content entry lifecycle: creation, partial update with replace-semantics on
// the field list, deletion, and the publish flag.
//
// The slug uniqueness checks here are read-then-write and therefore advisory:
// two racing creations can both pass them. The repository's compound unique
// index on (content_type_id, slug) is the authoritative guard; the pre-check
// only exists to return a friendly error in the common case.

func (s *service) CreateContent(ctx context.Context, actor *Actor, req CreateContentRequest) (*ContentDetail, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if req.Title == "" || req.Slug == "" {
		return nil, fmt.Errorf("%w: title and slug are required", ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	ct, err := s.repository.GetContentType(ctx, req.ContentTypeID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repository.GetContentBySlug(ctx, ct.ID, req.Slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, ErrContentNotFound) {
		return nil, err
	}

	fields, err := AssembleFields(ct, req.Fields, s.strict)
	if err != nil {
		return nil, err
	}

	now := s.now()
	content := &Content{
		ID:            uuid.New(),
		ContentTypeID: ct.ID,
		Title:         req.Title,
		Slug:          req.Slug,
		Status:        status,
		Fields:        fields,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == StatusPublished {
		content.PublishedAt = &now
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	_ = s.events.ContentCreated(ctx, content)

	return s.resolveContent(ctx, content), nil
}

func (s *service) UpdateContent(ctx context.Context, actor *Actor, req UpdateContentRequest) (*ContentDetail, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	content, err := s.repository.GetContent(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := canModifyContent(actor, content); err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != content.Slug {
		existing, err := s.repository.GetContentBySlug(ctx, content.ContentTypeID, *req.Slug)
		if err == nil && existing.ID != content.ID {
			return nil, ErrSlugTaken
		}
		if err != nil && !errors.Is(err, ErrContentNotFound) {
			return nil, err
		}
		content.Slug = *req.Slug
	}

	if req.Title != nil {
		content.Title = *req.Title
	}

	if req.Fields != nil {
		var ct *ContentType
		if s.strict {
			if ct, err = s.repository.GetContentType(ctx, content.ContentTypeID); err != nil {
				return nil, err
			}
		}
		// Replace semantics: the stored field list becomes exactly what the
		// caller sent, with no merge against the previous values.
		fields, err := AssembleFields(ct, *req.Fields, s.strict)
		if err != nil {
			return nil, err
		}
		content.Fields = fields
	}

	now := s.now()
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		if *req.Status == StatusPublished && content.Status != StatusPublished {
			content.PublishedAt = &now
		} else if *req.Status != StatusPublished {
			content.PublishedAt = nil
		}
		content.Status = *req.Status
	}

	content.UpdatedBy = &actor.ID
	content.UpdatedAt = now

	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "update", Err: err}
	}

	_ = s.events.ContentUpdated(ctx, content)

	return s.resolveContent(ctx, content), nil
}

func (s *service) DeleteContent(ctx context.Context, actor *Actor, id uuid.UUID) (bool, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return false, err
	}

	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return false, err
	}
	if err := canModifyContent(actor, content); err != nil {
		return false, err
	}

	deleted, err := s.repository.DeleteContent(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		_ = s.events.ContentDeleted(ctx, id)
	}
	return deleted, nil
}

func (s *service) PublishContent(ctx context.Context, actor *Actor, id uuid.UUID) (*ContentDetail, error) {
	return s.setPublishState(ctx, actor, id, true)
}

func (s *service) UnpublishContent(ctx context.Context, actor *Actor, id uuid.UUID) (*ContentDetail, error) {
	return s.setPublishState(ctx, actor, id, false)
}

// setPublishState flips the publish flag. Restricted to editors and admins
// regardless of authorship, and unconditional: publishing an already-published
// entry refreshes publishedAt.
func (s *service) setPublishState(ctx context.Context, actor *Actor, id uuid.UUID, publish bool) (*ContentDetail, error) {
	if err := RequireRole(actor, RoleAdmin, RoleEditor); err != nil {
		return nil, err
	}

	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if publish {
		content.Status = StatusPublished
		content.PublishedAt = &now
	} else {
		content.Status = StatusDraft
		content.PublishedAt = nil
	}
	content.UpdatedBy = &actor.ID
	content.UpdatedAt = now

	if err := s.repository.UpdateContent(ctx, content); err != nil {
		op := "publish"
		if !publish {
			op = "unpublish"
		}
		return nil, &ContentError{ContentID: content.ID, Op: op, Err: err}
	}

	if publish {
		_ = s.events.ContentPublished(ctx, content)
	} else {
		_ = s.events.ContentUnpublished(ctx, content)
	}

	return s.resolveContent(ctx, content), nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*ContentDetail, error) {
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolveContent(ctx, content), nil
}

func (s *service) GetContentBySlug(ctx context.Context, contentTypeSlug, slug string) (*ContentDetail, error) {
	ct, err := s.repository.GetContentTypeBySlug(ctx, contentTypeSlug)
	if err != nil {
		return nil, err
	}
	content, err := s.repository.GetContentBySlug(ctx, ct.ID, slug)
	if err != nil {
		return nil, err
	}
	return s.resolveContent(ctx, content), nil
}

func (s *service) ListContent(ctx context.Context, filter ContentFilter) ([]*ContentDetail, error) {
	contents, err := s.repository.ListContent(ctx, filter)
	if err != nil {
		return nil, err
	}
	details := make([]*ContentDetail, 0, len(contents))
	for _, c := range contents {
		details = append(details, s.resolveContent(ctx, c))
	}
	return details, nil
}

// resolveContent joins an entry with its content type, creator and updater.
// Missing references are tolerated and left nil rather than failing the read.
func (s *service) resolveContent(ctx context.Context, content *Content) *ContentDetail {
	detail := &ContentDetail{Content: content}
	if ct, err := s.repository.GetContentType(ctx, content.ContentTypeID); err == nil {
		detail.ContentType = ct
	}
	if creator, err := s.repository.GetActor(ctx, content.CreatedBy); err == nil {
		detail.Creator = creator
	}
	if content.UpdatedBy != nil {
		if updater, err := s.repository.GetActor(ctx, *content.UpdatedBy); err == nil {
			detail.Updater = updater
		}
	}
	return detail
}
