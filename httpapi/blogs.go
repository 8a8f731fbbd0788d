package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scriptoria/blogcore"
	"github.com/scriptoria/blogcore/media"
)

// ContentPayload carries the single writable blog field.
type ContentPayload struct {
	Content string `json:"content"`
}

func (s *Server) createBlog(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	payload := new(ContentPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	blog, err := s.social.CreateBlog(c.UserContext(), user, payload.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(blogcore.ProjectBlog(blog, user.ID))
}

func (s *Server) listBlogs(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	blogs, err := s.social.ListBlogs(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectBlogs(blogs, user.ID))
}

func (s *Server) listOwnBlogs(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	blogs, err := s.social.ListBlogsByAuthor(c.UserContext(), user.ID, pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectBlogs(blogs, user.ID))
}

func (s *Server) getBlog(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	blog, err := s.social.GetBlog(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectBlog(blog, user.ID))
}

func (s *Server) updateBlog(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	patch := map[string]any{}
	if err := c.BodyParser(&patch); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	content, err := contentFromPatch(patch)
	if err != nil {
		return err
	}

	blog, err := s.social.UpdateBlogContent(c.UserContext(), user, id, content)
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectBlog(blog, user.ID))
}

// contentFromPatch enforces the update allow-list: content is the only
// writable field, and an empty patch is rejected outright.
func contentFromPatch(patch map[string]any) (string, error) {
	if len(patch) == 0 {
		return "", blogcore.ErrEmptyPatch
	}

	for key := range patch {
		if key != "content" {
			return "", blogcore.NewValidationError("invalid update field: " + key)
		}
	}

	content, _ := patch["content"].(string)
	return content, nil
}

func (s *Server) deleteBlog(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	blog, err := s.social.DeleteBlog(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectBlog(blog, user.ID))
}

func (s *Server) uploadBlogImage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	data, err := uploadedImage(c, "image")
	if err != nil {
		return err
	}

	normalized, err := media.Normalize(data)
	if err != nil {
		return err
	}

	if _, err := s.social.SetBlogImage(c.UserContext(), user, id, normalized); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "image updated"})
}

func (s *Server) blogImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	blog, err := s.social.GetBlog(c.UserContext(), id)
	if err != nil {
		return err
	}

	if len(blog.Image) == 0 {
		return blogcore.NewNotFoundError("no image found")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(blog.Image)
}

func (s *Server) deleteBlogImage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.social.ClearBlogImage(c.UserContext(), user, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "image removed"})
}

func (s *Server) likeBlog(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	like, likes, err := s.social.LikeBlog(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"like":  like,
		"likes": likes,
	})
}

func (s *Server) blogLikes(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	blog, err := s.social.GetBlog(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count": len(blog.Likes),
		"likes": blog.Likes,
	})
}
