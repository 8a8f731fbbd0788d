package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scriptoria/blogcore"
)

const sessionKey = "session"

// tokenFromRequest reads the session token from the Authorization header,
// falling back to the accesstoken query parameter.
func tokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("accesstoken")
}

// roleFromRequest reads the identity collection hint. Anything other than an
// explicit admin hint resolves against users.
func roleFromRequest(c *fiber.Ctx) blogcore.Role {
	if c.Query("type") == "admin" {
		return blogcore.RoleAdmin
	}
	return blogcore.RoleUser
}

// requireSession authenticates the request token and stores the resolved
// session for downstream handlers.
func (s *Server) requireSession(c *fiber.Ctx) error {
	session, err := s.auth.Authenticate(c.UserContext(), tokenFromRequest(c), roleFromRequest(c))
	if err != nil {
		return err
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// requireAdmin gates moderation routes. It must run after requireSession.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := s.auth.RequireAdmin(c.UserContext(), session.Identity().IdentityID()); err != nil {
		return err
	}
	return c.Next()
}

func currentSession(c *fiber.Ctx) (blogcore.Session, error) {
	session, ok := c.Locals(sessionKey).(blogcore.Session)
	if !ok || session == nil {
		return nil, blogcore.ErrNotAuthenticated
	}
	return session, nil
}

// currentUser returns the session identity as a User. Admin sessions hitting
// user-only routes fail authentication rather than authorization.
func currentUser(c *fiber.Ctx) (*blogcore.User, error) {
	session, err := currentSession(c)
	if err != nil {
		return nil, err
	}

	user, ok := session.Identity().(*blogcore.User)
	if !ok {
		return nil, blogcore.ErrNotAuthenticated
	}
	return user, nil
}
