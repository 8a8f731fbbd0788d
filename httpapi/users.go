package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scriptoria/blogcore"
	"github.com/scriptoria/blogcore/media"
)

// RegisterPayload is the JSON body accepted by the register endpoints.
type RegisterPayload struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age"`
	Phone    string `json:"phone"`
}

// LoginPayload is the JSON body accepted by the login endpoints. Users log
// in by email, admins by userName.
type LoginPayload struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) registerUser(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	identity, err := s.identity.Register(c.UserContext(), blogcore.RegisterInput{
		Kind:     blogcore.RoleUser,
		UserName: payload.UserName,
		Email:    payload.Email,
		Password: payload.Password,
		Age:      payload.Age,
		Phone:    payload.Phone,
	})
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(c.UserContext(), identity)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  identity,
		"token": token,
	})
}

func (s *Server) loginUser(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	identity, err := s.identity.VerifyCredential(c.UserContext(), blogcore.RoleUser, payload.Email, payload.Password)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(c.UserContext(), identity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":  identity,
		"token": token,
	})
}

// logout revokes the session token that authenticated this request. Other
// sessions stay live.
func (s *Server) logout(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := s.tokens.RevokeOne(c.UserContext(), session.Identity(), session.Token()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (s *Server) logoutAll(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := s.tokens.RevokeAll(c.UserContext(), session.Identity()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "logged out everywhere"})
}

// listUsers returns a page of users with the usual sort/limit/skip options.
// Credential hashes, token lists, and picture bytes are dropped by the model
// JSON tags.
func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.users.ListPage(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (s *Server) profile(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(session.Identity())
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	patch := map[string]any{}
	if err := c.BodyParser(&patch); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	updated, err := s.identity.UpdateFields(c.UserContext(), user.ID, patch)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (s *Server) deleteAccount(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	deleted, err := s.identity.DeleteUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(deleted)
}

func (s *Server) uploadAvatar(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	data, err := uploadedImage(c, "avatar")
	if err != nil {
		return err
	}

	normalized, err := media.Normalize(data)
	if err != nil {
		return err
	}

	user.ProfilePic = normalized
	if err := s.users.Save(c.UserContext(), user); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "avatar updated"})
}

func (s *Server) deleteAvatar(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	user.ProfilePic = nil
	if err := s.users.Save(c.UserContext(), user); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "avatar removed"})
}

// avatar serves a user's stored profile picture. Public; no session needed.
func (s *Server) avatar(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if len(user.ProfilePic) == 0 {
		return blogcore.NewNotFoundError("no avatar found")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(user.ProfilePic)
}
