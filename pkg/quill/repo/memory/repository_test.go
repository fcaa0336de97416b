package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/quill"
)

func newActor(handle, email string) *quill.Actor {
	now := time.Now().UTC()
	return &quill.Actor{
		ID:        uuid.New(),
		Handle:    handle,
		Email:     email,
		Role:      quill.RoleAuthor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newContentType(slug string) *quill.ContentType {
	now := time.Now().UTC()
	return &quill.ContentType{
		ID:   uuid.New(),
		Name: slug,
		Slug: slug,
		Fields: []quill.FieldSchema{
			{ID: uuid.New(), Name: "Body", Slug: "body", Type: quill.FieldTypeText},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newContent(typeID uuid.UUID, slug string, createdBy uuid.UUID) *quill.Content {
	now := time.Now().UTC()
	return &quill.Content{
		ID:            uuid.New(),
		ContentTypeID: typeID,
		Title:         slug,
		Slug:          slug,
		Status:        quill.StatusDraft,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestActorUniqueness(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.CreateActor(ctx, newActor("alice", "alice@example.com")))

	t.Run("duplicate handle", func(t *testing.T) {
		err := repo.CreateActor(ctx, newActor("alice", "other@example.com"))
		assert.ErrorIs(t, err, quill.ErrActorExists)
	})

	t.Run("duplicate email is case-insensitive", func(t *testing.T) {
		err := repo.CreateActor(ctx, newActor("alice2", "ALICE@example.com"))
		assert.ErrorIs(t, err, quill.ErrActorExists)
	})

	t.Run("lookup by email ignores case", func(t *testing.T) {
		actor, err := repo.GetActorByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", actor.Handle)
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, err := repo.GetActor(ctx, uuid.New())
		assert.ErrorIs(t, err, quill.ErrActorNotFound)
	})
}

func TestContentTypeSlugUniqueness(t *testing.T) {
	repo := New()
	ctx := context.Background()

	first := newContentType("blog-post")
	require.NoError(t, repo.CreateContentType(ctx, first))

	t.Run("create conflicts", func(t *testing.T) {
		err := repo.CreateContentType(ctx, newContentType("blog-post"))
		assert.ErrorIs(t, err, quill.ErrContentTypeSlugTaken)
	})

	t.Run("update conflicts with another type's slug", func(t *testing.T) {
		second := newContentType("page")
		require.NoError(t, repo.CreateContentType(ctx, second))

		second.Slug = "blog-post"
		err := repo.UpdateContentType(ctx, second)
		assert.ErrorIs(t, err, quill.ErrContentTypeSlugTaken)
	})

	t.Run("update keeping own slug is fine", func(t *testing.T) {
		first.Name = "Renamed"
		assert.NoError(t, repo.UpdateContentType(ctx, first))
	})
}

func TestContentSlugCompoundUniqueness(t *testing.T) {
	repo := New()
	ctx := context.Background()

	typeA := newContentType("a")
	typeB := newContentType("b")
	require.NoError(t, repo.CreateContentType(ctx, typeA))
	require.NoError(t, repo.CreateContentType(ctx, typeB))

	creator := uuid.New()
	require.NoError(t, repo.CreateContent(ctx, newContent(typeA.ID, "hello", creator)))

	t.Run("same slug same type conflicts", func(t *testing.T) {
		err := repo.CreateContent(ctx, newContent(typeA.ID, "hello", creator))
		assert.ErrorIs(t, err, quill.ErrSlugTaken)
	})

	t.Run("same slug different type is fine", func(t *testing.T) {
		assert.NoError(t, repo.CreateContent(ctx, newContent(typeB.ID, "hello", creator)))
	})

	t.Run("update into a taken slug conflicts", func(t *testing.T) {
		other := newContent(typeA.ID, "world", creator)
		require.NoError(t, repo.CreateContent(ctx, other))

		other.Slug = "hello"
		err := repo.UpdateContent(ctx, other)
		assert.ErrorIs(t, err, quill.ErrSlugTaken)
	})
}

func TestReturnedCopiesAreIsolated(t *testing.T) {
	repo := New()
	ctx := context.Background()

	ct := newContentType("blog-post")
	require.NoError(t, repo.CreateContentType(ctx, ct))

	got, err := repo.GetContentType(ctx, ct.ID)
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the stored record.
	got.Fields[0].Name = "Tampered"
	got.Name = "Tampered"

	fresh, err := repo.GetContentType(ctx, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, "blog-post", fresh.Name)
	assert.Equal(t, "Body", fresh.Fields[0].Name)
}

func TestListContentFilter(t *testing.T) {
	repo := New()
	ctx := context.Background()

	typeA := newContentType("a")
	typeB := newContentType("b")
	require.NoError(t, repo.CreateContentType(ctx, typeA))
	require.NoError(t, repo.CreateContentType(ctx, typeB))

	creator := uuid.New()
	published := newContent(typeA.ID, "one", creator)
	published.Status = quill.StatusPublished
	require.NoError(t, repo.CreateContent(ctx, published))
	require.NoError(t, repo.CreateContent(ctx, newContent(typeA.ID, "two", creator)))
	require.NoError(t, repo.CreateContent(ctx, newContent(typeB.ID, "three", creator)))

	t.Run("no filter returns all", func(t *testing.T) {
		all, err := repo.ListContent(ctx, quill.ContentFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("by type", func(t *testing.T) {
		got, err := repo.ListContent(ctx, quill.ContentFilter{ContentTypeID: &typeA.ID})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by status", func(t *testing.T) {
		status := quill.StatusPublished
		got, err := repo.ListContent(ctx, quill.ContentFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "one", got[0].Slug)
	})

	t.Run("by type and status", func(t *testing.T) {
		status := quill.StatusDraft
		got, err := repo.ListContent(ctx, quill.ContentFilter{ContentTypeID: &typeB.ID, Status: &status})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "three", got[0].Slug)
	})
}

func TestDeleteSemantics(t *testing.T) {
	repo := New()
	ctx := context.Background()

	t.Run("content type", func(t *testing.T) {
		ct := newContentType("gone")
		require.NoError(t, repo.CreateContentType(ctx, ct))

		deleted, err := repo.DeleteContentType(ctx, ct.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteContentType(ctx, ct.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("media", func(t *testing.T) {
		media := &quill.Media{ID: uuid.New(), Filename: "x.txt", CreatedBy: uuid.New()}
		require.NoError(t, repo.CreateMedia(ctx, media))

		deleted, err := repo.DeleteMedia(ctx, media.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteMedia(ctx, media.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestCountContentByType(t *testing.T) {
	repo := New()
	ctx := context.Background()

	ct := newContentType("counted")
	require.NoError(t, repo.CreateContentType(ctx, ct))

	count, err := repo.CountContentByType(ctx, ct.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	creator := uuid.New()
	require.NoError(t, repo.CreateContent(ctx, newContent(ct.ID, "x", creator)))
	require.NoError(t, repo.CreateContent(ctx, newContent(ct.ID, "y", creator)))

	count, err = repo.CountContentByType(ctx, ct.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
