package quill

import (
	"io"

	"github.com/google/uuid"
)

// Request/Response DTOs

// RegisterRequest contains parameters for creating a new actor.
type RegisterRequest struct {
	Handle   string
	Email    string
	Password string
	Role     Role
}

// LoginRequest contains credentials for an email/password login.
type LoginRequest struct {
	Email    string
	Password string
}

// AuthResult is a session token together with the actor it identifies.
type AuthResult struct {
	Token string `json:"token"`
	Actor *Actor `json:"actor"`
}

// FieldSchemaInput describes one field when creating or replacing a content
// type's field list. IDs are assigned by the registry; replacing the list
// assigns fresh IDs, so entries referencing old fields keep stale ids.
type FieldSchemaInput struct {
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Type        FieldType        `json:"type"`
	Required    bool             `json:"required"`
	Multiple    bool             `json:"multiple"`
	Description string           `json:"description,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

// CreateContentTypeRequest contains parameters for creating a content type.
type CreateContentTypeRequest struct {
	Name        string
	Slug        string
	Description string
	Fields      []FieldSchemaInput
}

// UpdateContentTypeRequest contains a partial patch for a content type.
// Nil pointers leave the current value untouched; a non-nil Fields replaces
// the entire field list.
type UpdateContentTypeRequest struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Fields      *[]FieldSchemaInput
}

// ContentFieldInput is one caller-supplied field value. FieldName is an echo
// of the schema field name; without strict validation it is stored as given.
type ContentFieldInput struct {
	FieldID   uuid.UUID `json:"field_id"`
	FieldName string    `json:"field_name"`
	Value     string    `json:"value"`
}

// CreateContentRequest contains parameters for creating a content entry.
// An empty Status defaults to DRAFT.
type CreateContentRequest struct {
	ContentTypeID uuid.UUID
	Title         string
	Slug          string
	Status        ContentStatus
	Fields        []ContentFieldInput
}

// UpdateContentRequest contains a partial patch for a content entry. Nil
// pointers leave the current value untouched; a non-nil Fields replaces the
// entire stored field list (no merge).
type UpdateContentRequest struct {
	ID     uuid.UUID
	Title  *string
	Slug   *string
	Status *ContentStatus
	Fields *[]ContentFieldInput
}

// UploadMediaRequest contains parameters for storing a media file.
type UploadMediaRequest struct {
	Filename string
	MimeType string
	Size     int64
	Reader   io.Reader
}
