package httpapi

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/scriptoria/blogcore"
	"github.com/scriptoria/blogcore/media"
)

// parseID reads a uuid route parameter.
func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, blogcore.NewValidationError("invalid id")
	}
	return id, nil
}

// pageFromQuery builds list options from the limit, skip, and sortBy query
// parameters.
func pageFromQuery(c *fiber.Ctx) blogcore.ListOptions {
	return blogcore.ParsePage(c.Query("limit"), c.Query("skip"), c.Query("sortBy"))
}

// uploadedImage reads a multipart image upload, enforcing the filename and
// size gates before the payload is decoded.
func uploadedImage(c *fiber.Ctx, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, blogcore.NewValidationError("missing file upload")
	}

	if !media.AllowedFilename(header.Filename) {
		return nil, media.ErrUnsupportedFormat
	}

	if header.Size > media.MaxUploadSize {
		return nil, media.ErrTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read upload")
	}
	return data, nil
}
