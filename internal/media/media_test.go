package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

func pngFixture(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessAvatar(t *testing.T) {
	out, err := ProcessAvatar(bytes.NewReader(pngFixture(t, 400, 300)))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, cfg.Width)
	assert.Equal(t, AvatarSize, cfg.Height)
}

func TestProcessAvatarRejectsGarbage(t *testing.T) {
	_, err := ProcessAvatar(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestSquareCrop(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 350, 300), squareCrop(image.Rect(0, 0, 400, 300)))
	assert.Equal(t, image.Rect(0, 10, 100, 110), squareCrop(image.Rect(0, 0, 100, 120)))
}

func TestS3StoragePut(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewS3Storage(config.S3Config{
		Bucket:        "avatars",
		Region:        "us-east-1",
		Endpoint:      srv.URL,
		AccessKey:     "key",
		SecretKey:     "secret",
		PublicBaseURL: "https://cdn.barber.test/",
	})

	url, err := s.Put(context.Background(), "users/1/avatar.webp", "image/webp", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.barber.test/users/1/avatar.webp", url)
	assert.Equal(t, "/avatars/users/1/avatar.webp", gotPath)
	assert.Equal(t, "image/webp", gotType)
	assert.Equal(t, []byte("data"), gotBody)
}
