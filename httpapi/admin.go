package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/scriptoria/blogcore"
)

func (s *Server) registerAdmin(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	identity, err := s.identity.Register(c.UserContext(), blogcore.RegisterInput{
		Kind:     blogcore.RoleAdmin,
		UserName: payload.UserName,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(c.UserContext(), identity)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"admin": identity,
		"token": token,
	})
}

func (s *Server) loginAdmin(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	identity, err := s.identity.VerifyCredential(c.UserContext(), blogcore.RoleAdmin, payload.UserName, payload.Password)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(c.UserContext(), identity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"admin": identity,
		"token": token,
	})
}

// BlockPayload toggles a user's blocked flag.
type BlockPayload struct {
	Blocked bool `json:"blocked"`
}

func (s *Server) blockUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(BlockPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	user, err := s.identity.SetBlocked(c.UserContext(), id, payload.Blocked)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (s *Server) adminDeleteBlog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	blog, err := s.social.AdminDeleteBlog(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectBlog(blog, uuid.Nil))
}
