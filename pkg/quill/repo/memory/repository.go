package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/quillhq/quill/pkg/quill"
)

// Repository implements quill.Repository using in-memory storage. It enforces
// the same uniqueness invariants a database would hold in unique indexes:
// actor handle and email, content type slug, and (content type, slug) for
// entries.
type Repository struct {
	mu           sync.RWMutex
	actors       map[uuid.UUID]*quill.Actor
	contentTypes map[uuid.UUID]*quill.ContentType
	contents     map[uuid.UUID]*quill.Content
	media        map[uuid.UUID]*quill.Media
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		actors:       make(map[uuid.UUID]*quill.Actor),
		contentTypes: make(map[uuid.UUID]*quill.ContentType),
		contents:     make(map[uuid.UUID]*quill.Content),
		media:        make(map[uuid.UUID]*quill.Media),
	}
}

// Actor operations

func (r *Repository) CreateActor(ctx context.Context, actor *quill.Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.actors {
		if strings.EqualFold(existing.Email, actor.Email) || existing.Handle == actor.Handle {
			return quill.ErrActorExists
		}
	}

	actorCopy := *actor
	r.actors[actor.ID] = &actorCopy
	return nil
}

func (r *Repository) GetActor(ctx context.Context, id uuid.UUID) (*quill.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actor, exists := r.actors[id]
	if !exists {
		return nil, quill.ErrActorNotFound
	}
	actorCopy := *actor
	return &actorCopy, nil
}

func (r *Repository) GetActorByEmail(ctx context.Context, email string) (*quill.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, actor := range r.actors {
		if strings.EqualFold(actor.Email, email) {
			actorCopy := *actor
			return &actorCopy, nil
		}
	}
	return nil, quill.ErrActorNotFound
}

func (r *Repository) GetActorByHandle(ctx context.Context, handle string) (*quill.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, actor := range r.actors {
		if actor.Handle == handle {
			actorCopy := *actor
			return &actorCopy, nil
		}
	}
	return nil, quill.ErrActorNotFound
}

func (r *Repository) ListActors(ctx context.Context) ([]*quill.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*quill.Actor, 0, len(r.actors))
	for _, actor := range r.actors {
		actorCopy := *actor
		result = append(result, &actorCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Content type operations

func (r *Repository) CreateContentType(ctx context.Context, ct *quill.ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.contentTypes {
		if existing.Slug == ct.Slug {
			return quill.ErrContentTypeSlugTaken
		}
	}

	r.contentTypes[ct.ID] = copyContentType(ct)
	return nil
}

func (r *Repository) GetContentType(ctx context.Context, id uuid.UUID) (*quill.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, exists := r.contentTypes[id]
	if !exists {
		return nil, quill.ErrContentTypeNotFound
	}
	return copyContentType(ct), nil
}

func (r *Repository) GetContentTypeBySlug(ctx context.Context, slug string) (*quill.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ct := range r.contentTypes {
		if ct.Slug == slug {
			return copyContentType(ct), nil
		}
	}
	return nil, quill.ErrContentTypeNotFound
}

func (r *Repository) ListContentTypes(ctx context.Context) ([]*quill.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*quill.ContentType, 0, len(r.contentTypes))
	for _, ct := range r.contentTypes {
		result = append(result, copyContentType(ct))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UpdateContentType(ctx context.Context, ct *quill.ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contentTypes[ct.ID]; !exists {
		return quill.ErrContentTypeNotFound
	}
	for _, existing := range r.contentTypes {
		if existing.ID != ct.ID && existing.Slug == ct.Slug {
			return quill.ErrContentTypeSlugTaken
		}
	}

	r.contentTypes[ct.ID] = copyContentType(ct)
	return nil
}

func (r *Repository) DeleteContentType(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contentTypes[id]; !exists {
		return false, nil
	}
	delete(r.contentTypes, id)
	return true, nil
}

func (r *Repository) CountContentByType(ctx context.Context, contentTypeID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, content := range r.contents {
		if content.ContentTypeID == contentTypeID {
			count++
		}
	}
	return count, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *quill.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.contents {
		if existing.ContentTypeID == content.ContentTypeID && existing.Slug == content.Slug {
			return quill.ErrSlugTaken
		}
	}

	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*quill.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, quill.ErrContentNotFound
	}
	return copyContent(content), nil
}

func (r *Repository) GetContentBySlug(ctx context.Context, contentTypeID uuid.UUID, slug string) (*quill.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, content := range r.contents {
		if content.ContentTypeID == contentTypeID && content.Slug == slug {
			return copyContent(content), nil
		}
	}
	return nil, quill.ErrContentNotFound
}

func (r *Repository) ListContent(ctx context.Context, filter quill.ContentFilter) ([]*quill.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*quill.Content
	for _, content := range r.contents {
		if filter.ContentTypeID != nil && content.ContentTypeID != *filter.ContentTypeID {
			continue
		}
		if filter.Status != nil && content.Status != *filter.Status {
			continue
		}
		result = append(result, copyContent(content))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *quill.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return quill.ErrContentNotFound
	}
	for _, existing := range r.contents {
		if existing.ID != content.ID &&
			existing.ContentTypeID == content.ContentTypeID &&
			existing.Slug == content.Slug {
			return quill.ErrSlugTaken
		}
	}

	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return false, nil
	}
	delete(r.contents, id)
	return true, nil
}

// Media operations

func (r *Repository) CreateMedia(ctx context.Context, media *quill.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mediaCopy := *media
	r.media[media.ID] = &mediaCopy
	return nil
}

func (r *Repository) GetMedia(ctx context.Context, id uuid.UUID) (*quill.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media, exists := r.media[id]
	if !exists {
		return nil, quill.ErrMediaNotFound
	}
	mediaCopy := *media
	return &mediaCopy, nil
}

func (r *Repository) ListMedia(ctx context.Context) ([]*quill.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*quill.Media, 0, len(r.media))
	for _, media := range r.media {
		mediaCopy := *media
		result = append(result, &mediaCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) DeleteMedia(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.media[id]; !exists {
		return false, nil
	}
	delete(r.media, id)
	return true, nil
}

// Deep copies so callers can never mutate stored state through a returned
// pointer, and stored state never aliases caller slices.

func copyContentType(ct *quill.ContentType) *quill.ContentType {
	ctCopy := *ct
	ctCopy.Fields = make([]quill.FieldSchema, len(ct.Fields))
	for i, f := range ct.Fields {
		fCopy := f
		fCopy.Validations = append([]quill.ValidationRule(nil), f.Validations...)
		ctCopy.Fields[i] = fCopy
	}
	return &ctCopy
}

func copyContent(c *quill.Content) *quill.Content {
	cCopy := *c
	cCopy.Fields = append([]quill.ContentField(nil), c.Fields...)
	if c.UpdatedBy != nil {
		id := *c.UpdatedBy
		cCopy.UpdatedBy = &id
	}
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		cCopy.PublishedAt = &t
	}
	return &cCopy
}
