package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	backend := New()
	ctx := context.Background()

	t.Run("upload and download", func(t *testing.T) {
		err := backend.Upload(ctx, "media/a/file.txt", strings.NewReader("hello"))
		require.NoError(t, err)

		reader, err := backend.Download(ctx, "media/a/file.txt")
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("download of missing object fails", func(t *testing.T) {
		_, err := backend.Download(ctx, "missing")
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, "gone", strings.NewReader("x")))
		require.NoError(t, backend.Delete(ctx, "gone"))

		_, err := backend.Download(ctx, "gone")
		assert.Error(t, err)

		assert.Error(t, backend.Delete(ctx, "gone"))
	})

	t.Run("no direct URLs", func(t *testing.T) {
		url, err := backend.GetDownloadURL(ctx, "anything", "file.txt")
		require.NoError(t, err)
		assert.Empty(t, url)
	})
}
