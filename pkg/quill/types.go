package quill

import (
	"time"

	"github.com/google/uuid"
)

// Role is the domain type for actor permission levels.
type Role string

// Role constants (typed). Roles form an ordered set; permission checks use
// explicit membership, not a hierarchy.
const (
	RoleAuthor Role = "author"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAuthor, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// FieldType is the domain type for field schema value kinds.
type FieldType string

// Field type constants (typed).
const (
	FieldTypeText     FieldType = "TEXT"
	FieldTypeRichText FieldType = "RICH_TEXT"
	FieldTypeNumber   FieldType = "NUMBER"
	FieldTypeBoolean  FieldType = "BOOLEAN"
	FieldTypeDate     FieldType = "DATE"
	FieldTypeMedia    FieldType = "MEDIA"
	FieldTypeRef      FieldType = "REFERENCE"
)

// IsValid reports whether the field type is one of the known types.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeRichText, FieldTypeNumber, FieldTypeBoolean,
		FieldTypeDate, FieldTypeMedia, FieldTypeRef:
		return true
	}
	return false
}

// ContentStatus is the domain type for content lifecycle states.
type ContentStatus string

// Content status constants (typed).
const (
	StatusDraft     ContentStatus = "DRAFT"
	StatusPublished ContentStatus = "PUBLISHED"
	StatusArchived  ContentStatus = "ARCHIVED"
)

// IsValid reports whether the status is one of the known statuses.
func (s ContentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Actor represents an authenticated caller. PasswordHash is never serialized.
type Actor struct {
	ID           uuid.UUID `json:"id"`
	Handle       string    `json:"handle"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidationRule is a declarative constraint attached to a field schema.
// Params is an opaque parameter string whose meaning depends on Type
// (e.g. "3" for minLength, "^[a-z-]+$" for pattern).
type ValidationRule struct {
	Type   string `json:"type"`
	Params string `json:"params,omitempty"`
}

// FieldSchema describes one field inside a content type.
//
// Multiple is reserved; no validation rule consumes it yet.
type FieldSchema struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Type        FieldType        `json:"type"`
	Required    bool             `json:"required"`
	Multiple    bool             `json:"multiple"`
	Description string           `json:"description,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

// ContentType is a user-defined schema describing a category of content.
// Slug is globally unique (enforced by the repository's unique index).
type ContentType struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Fields      []FieldSchema `json:"fields"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ContentField is one stored field value. Value is always text regardless of
// the declared field type; FieldName is the client-supplied echo unless strict
// validation re-derives it from the schema.
type ContentField struct {
	FieldID   uuid.UUID `json:"field_id"`
	FieldName string    `json:"field_name"`
	Value     string    `json:"value"`
}

// Content is one entry conforming (loosely) to a content type.
//
// Invariant: PublishedAt is non-nil iff Status was PUBLISHED at the moment of
// the last status-affecting write. The association to its content type is
// immutable after creation.
type Content struct {
	ID            uuid.UUID      `json:"id"`
	ContentTypeID uuid.UUID      `json:"content_type_id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Status        ContentStatus  `json:"status"`
	Fields        []ContentField `json:"fields"`
	CreatedBy     uuid.UUID      `json:"created_by"`
	UpdatedBy     *uuid.UUID     `json:"updated_by,omitempty"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ContentDetail is a content entry resolved together with its references,
// the way read operations return it.
type ContentDetail struct {
	Content     *Content     `json:"content"`
	ContentType *ContentType `json:"content_type,omitempty"`
	Creator     *Actor       `json:"creator,omitempty"`
	Updater     *Actor       `json:"updater,omitempty"`
}

// Media is one uploaded file record. ObjectKey locates the bytes in the
// configured blob store.
type Media struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimetype"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ObjectKey string    `json:"-"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentFilter defines filtering options for listing content.
type ContentFilter struct {
	ContentTypeID *uuid.UUID
	Status        *ContentStatus
}
