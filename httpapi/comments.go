package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scriptoria/blogcore"
)

// CommentPayload carries the single writable comment field.
type CommentPayload struct {
	Comment string `json:"comment"`
}

// ReplyPayload carries the reply text.
type ReplyPayload struct {
	Reply string `json:"reply"`
}

func (s *Server) createComment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	blogID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(CommentPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	comment, err := s.social.CreateComment(c.UserContext(), user, blogID, payload.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(blogcore.ProjectComment(comment, user.ID))
}

func (s *Server) listComments(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	blogID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comments, err := s.social.ListComments(c.UserContext(), blogID, pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectComments(comments, user.ID))
}

func (s *Server) getComment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := s.social.GetComment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectComment(comment, user.ID))
}

func (s *Server) updateComment(c *fiber.Ctx) error {
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

	text, err := commentFromPatch(patch)
	if err != nil {
		return err
	}

	comment, err := s.social.UpdateCommentText(c.UserContext(), user, id, text)
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectComment(comment, user.ID))
}

// commentFromPatch enforces the update allow-list: comment is the only
// writable field.
func commentFromPatch(patch map[string]any) (string, error) {
	if len(patch) == 0 {
		return "", blogcore.ErrEmptyPatch
	}

	for key := range patch {
		if key != "comment" {
			return "", blogcore.NewValidationError("invalid update field: " + key)
		}
	}

	text, _ := patch["comment"].(string)
	return text, nil
}

func (s *Server) deleteComment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := s.social.DeleteComment(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(blogcore.ProjectComment(comment, user.ID))
}

func (s *Server) likeComment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	like, likes, err := s.social.LikeComment(c.UserContext(), user, id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"like":  like,
		"likes": likes,
	})
}

func (s *Server) addReply(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payload := new(ReplyPayload)
	if err := c.BodyParser(payload); err != nil {
		return blogcore.NewValidationError("failed to parse request body")
	}

	reply, err := s.social.AddReply(c.UserContext(), user, id, payload.Reply)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (s *Server) listReplies(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	replies, err := s.social.Replies(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count":   len(replies),
		"replies": replies,
	})
}
