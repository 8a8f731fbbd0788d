// Package httpapi exposes the identity and social services over a JSON API.
package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/scriptoria/blogcore"
)

// Server wires the HTTP layer to the core services.
type Server struct {
	app      *fiber.App
	auth     blogcore.Authenticator
	identity *blogcore.IdentityService
	social   *blogcore.SocialService
	tokens   *blogcore.TokenService
	users    blogcore.UserStore
	logger   blogcore.Logger
}

// NewServer builds the fiber application and registers every route.
func NewServer(
	auth blogcore.Authenticator,
	identity *blogcore.IdentityService,
	social *blogcore.SocialService,
	tokens *blogcore.TokenService,
	users blogcore.UserStore,
	logger blogcore.Logger,
) *Server {
	s := &Server{
		auth:     auth,
		identity: identity,
		social:   social,
		tokens:   tokens,
		users:    users,
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler: s.errorHandler,
		BodyLimit:    8 * 1024 * 1024,
	})

	s.registerRoutes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	users := s.app.Group("/users")
	users.Post("/", s.registerUser)
	users.Post("/login", s.loginUser)
	users.Post("/logout", s.requireSession, s.logout)
	users.Post("/logoutAll", s.requireSession, s.logoutAll)
	users.Get("/all", s.requireSession, s.listUsers)
	users.Get("/me", s.requireSession, s.profile)
	users.Patch("/me", s.requireSession, s.updateProfile)
	users.Delete("/me", s.requireSession, s.deleteAccount)
	users.Post("/me/avatar", s.requireSession, s.uploadAvatar)
	users.Delete("/me/avatar", s.requireSession, s.deleteAvatar)
	users.Get("/:id/avatar", s.avatar)

	admins := s.app.Group("/admins")
	admins.Post("/", s.registerAdmin)
	admins.Post("/login", s.loginAdmin)
	admins.Patch("/users/:id/block", s.requireSession, s.requireAdmin, s.blockUser)
	admins.Delete("/blogs/:id", s.requireSession, s.requireAdmin, s.adminDeleteBlog)

	blogs := s.app.Group("/blogs")
	blogs.Post("/", s.requireSession, s.createBlog)
	blogs.Get("/", s.requireSession, s.listBlogs)
	blogs.Get("/me", s.requireSession, s.listOwnBlogs)
	blogs.Get("/:id", s.requireSession, s.getBlog)
	blogs.Patch("/:id", s.requireSession, s.updateBlog)
	blogs.Delete("/:id", s.requireSession, s.deleteBlog)
	blogs.Post("/:id/image", s.requireSession, s.uploadBlogImage)
	blogs.Get("/:id/image", s.blogImage)
	blogs.Delete("/:id/image", s.requireSession, s.deleteBlogImage)
	blogs.Post("/:id/likes", s.requireSession, s.likeBlog)
	blogs.Get("/:id/likes", s.requireSession, s.blogLikes)
	blogs.Post("/:id/comments", s.requireSession, s.createComment)
	blogs.Get("/:id/comments", s.requireSession, s.listComments)

	comments := s.app.Group("/comments")
	comments.Get("/:id", s.requireSession, s.getComment)
	comments.Patch("/:id", s.requireSession, s.updateComment)
	comments.Delete("/:id", s.requireSession, s.deleteComment)
	comments.Post("/:id/likes", s.requireSession, s.likeComment)
	comments.Post("/:id/replies", s.requireSession, s.addReply)
	comments.Get("/:id/replies", s.requireSession, s.listReplies)
}

// errorHandler translates core errors into JSON responses. The rich error
// Code is already an HTTP status.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if repository.IsRecordNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "record not found",
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		s.logger.Error("unhandled error: %s", err)
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	body := fiber.Map{"error": richErr.Message}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}
	return c.Status(status).JSON(body)
}
