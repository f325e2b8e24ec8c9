package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/config"
)

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestThumbnail_FitsIntoSquare(t *testing.T) {
	data, err := Thumbnail(bytes.NewReader(pngImage(t, 1024, 600)))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.LessOrEqual(t, img.Bounds().Dy(), 512)
}

func TestThumbnail_RejectsNonImage(t *testing.T) {
	_, err := Thumbnail(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName(NewAvatarName()))
	assert.False(t, ValidName("../../etc/passwd"))
	assert.False(t, ValidName("avatar.png"))
	assert.False(t, ValidName(""))
}

func TestURL(t *testing.T) {
	assert.Equal(t, "", URL(""))
	assert.Equal(t, "/media/avatars/x.jpg", URL("x.jpg"))
}

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	name := NewAvatarName()
	require.NoError(t, store.Save(ctx, name, []byte("jpeg bytes")))

	rc, size, err := store.Open(ctx, name)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "jpeg bytes", string(body))
	assert.Equal(t, int64(len(body)), size)

	require.NoError(t, store.Delete(ctx, name))
	require.NoError(t, store.Delete(ctx, name))

	_, _, err = store.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = store.Open(ctx, "../secret.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{MediaDriver: "ftp"})
	assert.Error(t, err)

	store, err := New(context.Background(), &config.Config{MediaDriver: "local", MediaRoot: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
}
