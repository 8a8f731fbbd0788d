// Package media normalizes uploaded profile and blog images. Every accepted
// upload is decoded, cropped to a square avatar, and re-encoded as PNG so the
// stored bytes never carry the original container or its metadata.
package media

import (
	"bytes"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/goliatone/go-errors"
)

const (
	// MaxUploadSize caps raw upload payloads at 5MB.
	MaxUploadSize = 5 * 1024 * 1024

	// AvatarSize is the edge length of the stored square image.
	AvatarSize = 200
)

// ErrTooLarge rejects uploads over MaxUploadSize.
var ErrTooLarge = errors.New("image exceeds the 5MB upload limit", errors.CategoryBadInput).
	WithTextCode("image_too_large").
	WithCode(errors.CodeBadRequest)

// ErrUnsupportedFormat rejects anything that is not a JPEG or PNG payload.
var ErrUnsupportedFormat = errors.New("please upload a jpg, jpeg or png image", errors.CategoryBadInput).
	WithTextCode("image_unsupported").
	WithCode(errors.CodeBadRequest)

// AllowedFilename reports whether the upload filename carries an accepted
// extension. The content is still sniffed on decode; this mirrors the
// filename gate uploads hit first.
func AllowedFilename(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Normalize validates, decodes, crops, and re-encodes an uploaded image.
// The result is always a 200x200 PNG.
func Normalize(data []byte) ([]byte, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	img, format, err := decode(data)
	if err != nil {
		return nil, err
	}

	if format != "jpeg" && format != "png" {
		return nil, ErrUnsupportedFormat
	}

	cropped := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode image")
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedFormat
	}
	return img, format, nil
}
