package media_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptoria/blogcore/media"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	t.Run("crops a PNG to the avatar square", func(t *testing.T) {
		out, err := media.Normalize(encodePNG(t, 640, 480))

		require.NoError(t, err)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, media.AvatarSize, cfg.Width)
		assert.Equal(t, media.AvatarSize, cfg.Height)
	})

	t.Run("re-encodes JPEG input as PNG", func(t *testing.T) {
		out, err := media.Normalize(encodeJPEG(t, 300, 300))

		require.NoError(t, err)

		_, format, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
	})

	t.Run("upscales a small image to the avatar square", func(t *testing.T) {
		out, err := media.Normalize(encodePNG(t, 50, 80))

		require.NoError(t, err)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, media.AvatarSize, cfg.Width)
		assert.Equal(t, media.AvatarSize, cfg.Height)
	})

	t.Run("rejects oversized payloads before decoding", func(t *testing.T) {
		big := make([]byte, media.MaxUploadSize+1)

		_, err := media.Normalize(big)

		assert.ErrorIs(t, err, media.ErrTooLarge)
	})

	t.Run("rejects bytes that are not an image", func(t *testing.T) {
		_, err := media.Normalize([]byte("definitely not an image"))

		assert.ErrorIs(t, err, media.ErrUnsupportedFormat)
	})
}

func TestAllowedFilename(t *testing.T) {
	cases := []struct {
		name    string
		allowed bool
	}{
		{"avatar.jpg", true},
		{"avatar.jpeg", true},
		{"avatar.png", true},
		{"AVATAR.PNG", true},
		{"avatar.gif", false},
		{"avatar.pdf", false},
		{"avatar", false},
		{"avatar.png.exe", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, media.AllowedFilename(tc.name))
		})
	}
}
