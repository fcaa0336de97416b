package quill_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/quill"
)

func uploadTestMedia(t *testing.T, svc quill.Service, actor *quill.Actor, filename, body string) *quill.Media {
	t.Helper()

	media, err := svc.UploadMedia(context.Background(), actor, quill.UploadMediaRequest{
		Filename: filename,
		MimeType: "text/plain",
		Size:     int64(len(body)),
		Reader:   strings.NewReader(body),
	})
	require.NoError(t, err)
	return media
}

func TestUploadMedia(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	author := registerActor(t, svc, "writer", quill.RoleAuthor)

	t.Run("upload and download roundtrip", func(t *testing.T) {
		media := uploadTestMedia(t, svc, author, "notes.txt", "hello media")
		assert.Equal(t, "notes.txt", media.Filename)
		assert.Equal(t, author.ID, media.CreatedBy)
		// The memory backend has no direct URLs, so the API serves the bytes.
		assert.Equal(t, fmt.Sprintf("/api/v1/media/%s/file", media.ID), media.URL)

		got, reader, err := svc.DownloadMedia(ctx, media.ID)
		require.NoError(t, err)
		defer reader.Close()
		assert.Equal(t, media.ID, got.ID)

		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "hello media", string(body))
	})

	t.Run("anonymous upload is unauthorized", func(t *testing.T) {
		_, err := svc.UploadMedia(ctx, nil, quill.UploadMediaRequest{
			Filename: "x.txt",
			Reader:   strings.NewReader("x"),
		})
		assert.ErrorIs(t, err, quill.ErrUnauthorized)
	})

	t.Run("filename is required", func(t *testing.T) {
		_, err := svc.UploadMedia(ctx, author, quill.UploadMediaRequest{
			Reader: strings.NewReader("x"),
		})
		assert.ErrorIs(t, err, quill.ErrValidation)
	})
}

func TestDeleteMedia(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	admin := registerActor(t, svc, "root", quill.RoleAdmin)
	owner := registerActor(t, svc, "owner", quill.RoleAuthor)
	editor := registerActor(t, svc, "ed", quill.RoleEditor)

	t.Run("owner deletes own upload", func(t *testing.T) {
		media := uploadTestMedia(t, svc, owner, "mine.txt", "mine")
		deleted, err := svc.DeleteMedia(ctx, owner, media.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = svc.GetMedia(ctx, media.ID)
		assert.ErrorIs(t, err, quill.ErrMediaNotFound)

		_, _, err = svc.DownloadMedia(ctx, media.ID)
		assert.Error(t, err)
	})

	t.Run("admin deletes anyone's upload", func(t *testing.T) {
		media := uploadTestMedia(t, svc, owner, "theirs.txt", "theirs")
		deleted, err := svc.DeleteMedia(ctx, admin, media.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("editor may not delete another's upload", func(t *testing.T) {
		media := uploadTestMedia(t, svc, owner, "keep.txt", "keep")
		_, err := svc.DeleteMedia(ctx, editor, media.ID)
		assert.ErrorIs(t, err, quill.ErrForbidden)
	})

	t.Run("unknown media is not found", func(t *testing.T) {
		_, err := svc.DeleteMedia(ctx, admin, uuid.New())
		assert.ErrorIs(t, err, quill.ErrMediaNotFound)
	})
}

func TestListMedia(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	owner := registerActor(t, svc, "owner", quill.RoleAuthor)
	uploadTestMedia(t, svc, owner, "a.txt", "a")
	uploadTestMedia(t, svc, owner, "b.txt", "b")

	items, err := svc.ListMedia(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
