package quill

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Content type registry. All mutations are admin-only; reads are public.

func (s *service) CreateContentType(ctx context.Context, actor *Actor, req CreateContentTypeRequest) (*ContentType, error) {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return nil, err
	}
	if req.Name == "" || req.Slug == "" {
		return nil, fmt.Errorf("%w: name and slug are required", ErrValidation)
	}

	now := s.now()
	ct := &ContentType{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Fields:      buildFieldSchemas(req.Fields),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// No slug pre-check here; the repository's unique index is the only guard.
	if err := s.repository.CreateContentType(ctx, ct); err != nil {
		return nil, err
	}

	_ = s.events.ContentTypeCreated(ctx, ct)

	return ct, nil
}

func (s *service) UpdateContentType(ctx context.Context, actor *Actor, req UpdateContentTypeRequest) (*ContentType, error) {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return nil, err
	}

	ct, err := s.repository.GetContentType(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ct.Name = *req.Name
	}
	if req.Description != nil {
		ct.Description = *req.Description
	}
	if req.Fields != nil {
		// Full replacement with fresh field ids. Entries that referenced the
		// old fields keep their stale fieldId/fieldName values; there is no
		// migration of stored content.
		ct.Fields = buildFieldSchemas(*req.Fields)
	}
	ct.UpdatedAt = s.now()

	if err := s.repository.UpdateContentType(ctx, ct); err != nil {
		return nil, err
	}

	return ct, nil
}

func (s *service) DeleteContentType(ctx context.Context, actor *Actor, id uuid.UUID) (bool, error) {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return false, err
	}

	count, err := s.repository.CountContentByType(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, fmt.Errorf("%w: %d entries reference it", ErrContentTypeInUse, count)
	}

	deleted, err := s.repository.DeleteContentType(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		_ = s.events.ContentTypeDeleted(ctx, id)
	}
	return deleted, nil
}

func (s *service) GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error) {
	return s.repository.GetContentType(ctx, id)
}

func (s *service) ListContentTypes(ctx context.Context) ([]*ContentType, error) {
	return s.repository.ListContentTypes(ctx)
}

func buildFieldSchemas(inputs []FieldSchemaInput) []FieldSchema {
	fields := make([]FieldSchema, 0, len(inputs))
	for _, in := range inputs {
		fields = append(fields, FieldSchema{
			ID:          uuid.New(),
			Name:        in.Name,
			Slug:        in.Slug,
			Type:        in.Type,
			Required:    in.Required,
			Multiple:    in.Multiple,
			Description: in.Description,
			Validations: append([]ValidationRule(nil), in.Validations...),
		})
	}
	return fields
}
