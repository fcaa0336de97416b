package quill

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error taxonomy. Every operation failure unwraps to exactly one of these
// sentinels; the API layer maps them to response statuses.
var (
	// ErrUnauthorized indicates the operation requires an authenticated actor
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden indicates the actor lacks the role or ownership required
	ErrForbidden = errors.New("insufficient permissions")

	// ErrInvalidCredentials indicates a login with an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrActorNotFound indicates an actor was not found
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorExists indicates the handle or email is already taken
	ErrActorExists = errors.New("actor already exists")

	// ErrContentTypeNotFound indicates a content type was not found
	ErrContentTypeNotFound = errors.New("content type not found")

	// ErrContentTypeSlugTaken indicates a duplicate content type slug
	ErrContentTypeSlugTaken = errors.New("content type slug already in use")

	// ErrContentTypeInUse indicates a delete was blocked by referencing entries
	ErrContentTypeInUse = errors.New("content type has existing content")

	// ErrContentNotFound indicates a content entry was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrSlugTaken indicates a duplicate entry slug within a content type
	ErrSlugTaken = errors.New("slug must be unique for this content type")

	// ErrMediaNotFound indicates a media record was not found
	ErrMediaNotFound = errors.New("media not found")

	// ErrValidation indicates malformed or schema-violating input
	ErrValidation = errors.New("validation failed")
)

// FieldValidationError reports a strict-mode schema violation for one field.
type FieldValidationError struct {
	FieldSlug string
	Reason    string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.FieldSlug, e.Reason)
}

func (e *FieldValidationError) Unwrap() error {
	return ErrValidation
}

// ContentError wraps a failed content operation with its id and operation name.
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}
