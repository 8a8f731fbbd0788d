package blogcore

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// BlogStore is the persistence surface the social graph needs for blogs.
type BlogStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*Blog, error)
	Create(ctx context.Context, record *Blog, criteria ...repository.InsertCriteria) (*Blog, error)
	Save(ctx context.Context, record *Blog) error
	DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*Blog, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*Blog, error)
	ListPage(ctx context.Context, opts ListOptions) ([]*Blog, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, opts ListOptions) ([]*Blog, error)
}

// CommentStore is the persistence surface for comments, including the
// cascade used when a blog is removed.
type CommentStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*Comment, error)
	Create(ctx context.Context, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error)
	Save(ctx context.Context, record *Comment) error
	DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*Comment, error)
	ListByBlog(ctx context.Context, blogID uuid.UUID, opts ListOptions) ([]*Comment, error)
	DeleteByBlog(ctx context.Context, blogID uuid.UUID) error
}

// SocialService manages the interaction graph: blogs, comments, and their
// nested likes and replies. Author display names are snapshots copied at
// creation time; they are not kept in sync with later renames.
type SocialService struct {
	blogs    BlogStore
	comments CommentStore
	logger   Logger
}

// NewSocialService returns a new SocialService.
func NewSocialService(blogs BlogStore, comments CommentStore) *SocialService {
	return &SocialService{
		blogs:    blogs,
		comments: comments,
		logger:   defLogger{},
	}
}

func (s *SocialService) WithLogger(logger Logger) *SocialService {
	s.logger = logger
	return s
}

// ensureNotBlocked gates mutation before any store write. Blocked users keep
// authenticating and reading.
func ensureNotBlocked(actor *User) error {
	if actor.Blocked {
		return ErrUserBlocked
	}
	return nil
}

// CreateBlog validates the content rule and creates a blog authored by the
// actor.
func (s *SocialService) CreateBlog(ctx context.Context, actor *User, content string) (*Blog, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, err
	}
	if err := ValidateContent("content", content); err != nil {
		return nil, err
	}

	blog := &Blog{
		Content:    content,
		AuthorID:   actor.ID,
		AuthorName: actor.UserName,
		Likes:      []Like{},
	}

	created, err := s.blogs.Create(ctx, blog)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create blog")
	}
	return created, nil
}

// UpdateBlogContent edits a blog's content. Only the author may edit, and
// content is the only patchable field.
func (s *SocialService) UpdateBlogContent(ctx context.Context, actor *User, blogID uuid.UUID, content string) (*Blog, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, err
	}
	if err := ValidateContent("content", content); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByIDAndAuthor(ctx, blogID, actor.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no blog found")
		}
		return nil, err
	}

	blog.Content = content
	if err := s.blogs.Save(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// GetBlog reads one blog by id.
func (s *SocialService) GetBlog(ctx context.Context, blogID uuid.UUID) (*Blog, error) {
	blog, err := s.blogs.FindByID(ctx, blogID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no blog found")
		}
		return nil, err
	}
	return blog, nil
}

// ListBlogs pages through all blogs.
func (s *SocialService) ListBlogs(ctx context.Context, opts ListOptions) ([]*Blog, error) {
	return s.blogs.ListPage(ctx, opts)
}

// ListBlogsByAuthor pages through one author's blogs.
func (s *SocialService) ListBlogsByAuthor(ctx context.Context, authorID uuid.UUID, opts ListOptions) ([]*Blog, error) {
	return s.blogs.ListByAuthor(ctx, authorID, opts)
}

// DeleteBlog removes an author's own blog and cascades deletion of its
// comments. The two steps are separate store calls without a transaction: a
// cascade failure after a successful delete leaves orphaned comments and
// surfaces a single error, with cleanup left to administration.
func (s *SocialService) DeleteBlog(ctx context.Context, actor *User, blogID uuid.UUID) (*Blog, error) {
	blog, err := s.blogs.DeleteOwned(ctx, blogID, actor.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no blog found by this ID")
		}
		return nil, err
	}

	if err := s.comments.DeleteByBlog(ctx, blog.ID); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "blog deleted but comment cascade failed")
	}
	return blog, nil
}

// AdminDeleteBlog removes any blog regardless of author, with the same
// comment cascade. Admin authorization is the caller's job.
func (s *SocialService) AdminDeleteBlog(ctx context.Context, blogID uuid.UUID) (*Blog, error) {
	blog, err := s.blogs.DeleteByID(ctx, blogID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no blog found by this ID")
		}
		return nil, err
	}

	if err := s.comments.DeleteByBlog(ctx, blog.ID); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "blog deleted but comment cascade failed")
	}
	return blog, nil
}

// SetBlogImage stores the processed image bytes on the author's blog.
func (s *SocialService) SetBlogImage(ctx context.Context, actor *User, blogID uuid.UUID, image []byte) (*Blog, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByIDAndAuthor(ctx, blogID, actor.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no blog found")
		}
		return nil, err
	}

	blog.Image = image
	if err := s.blogs.Save(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// ClearBlogImage drops the stored image from the author's blog.
func (s *SocialService) ClearBlogImage(ctx context.Context, actor *User, blogID uuid.UUID) error {
	blog, err := s.blogs.GetByIDAndAuthor(ctx, blogID, actor.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return NewNotFoundError("no blog found")
		}
		return err
	}
	if len(blog.Image) == 0 {
		return NewNotFoundError("no image to be deleted")
	}

	blog.Image = nil
	return s.blogs.Save(ctx, blog)
}

// CreateComment attaches a new comment to the referenced blog. The blog
// reference is taken as given; dangling references are possible and accepted.
func (s *SocialService) CreateComment(ctx context.Context, actor *User, blogID uuid.UUID, text string) (*Comment, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, err
	}
	if err := ValidateContent("comment", text); err != nil {
		return nil, err
	}

	comment := &Comment{
		Comment:    text,
		BlogID:     blogID,
		AuthorID:   actor.ID,
		AuthorName: actor.UserName,
		Replies:    []Reply{},
		Likes:      []Like{},
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create comment")
	}
	return created, nil
}

// UpdateCommentText edits a comment's text; author-only, text-only.
func (s *SocialService) UpdateCommentText(ctx context.Context, actor *User, commentID uuid.UUID, text string) (*Comment, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, err
	}
	if err := ValidateContent("comment", text); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByIDAndAuthor(ctx, commentID, actor.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no comment found")
		}
		return nil, err
	}

	comment.Comment = text
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment reads one comment by id.
func (s *SocialService) GetComment(ctx context.Context, commentID uuid.UUID) (*Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no comment found")
		}
		return nil, err
	}
	return comment, nil
}

// ListComments pages through a blog's comments. The blog must exist.
func (s *SocialService) ListComments(ctx context.Context, blogID uuid.UUID, opts ListOptions) ([]*Comment, error) {
	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no blog found by this ID")
		}
		return nil, err
	}
	return s.comments.ListByBlog(ctx, blogID, opts)
}

// DeleteComment removes the author's own comment.
func (s *SocialService) DeleteComment(ctx context.Context, actor *User, commentID uuid.UUID) (*Comment, error) {
	comment, err := s.comments.DeleteOwned(ctx, commentID, actor.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no comment found by this ID")
		}
		return nil, err
	}
	return comment, nil
}

// AddReply validates the text rule and appends a reply to the comment.
func (s *SocialService) AddReply(ctx context.Context, actor *User, commentID uuid.UUID, text string) (*Reply, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, err
	}
	if err := ValidateContent("reply", text); err != nil {
		return nil, err
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no comment found by this ID")
		}
		return nil, err
	}

	now := time.Now()
	reply := Reply{
		Text:      text,
		ActorID:   actor.ID,
		ActorName: actor.UserName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	comment.Replies = append(comment.Replies, reply)
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Replies returns a comment's full reply list.
func (s *SocialService) Replies(ctx context.Context, commentID uuid.UUID) ([]Reply, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no comment found by this ID")
		}
		return nil, err
	}
	return comment.Replies, nil
}

// LikeBlog appends a like entry to the blog, unconditionally: a repeat like
// by the same actor adds a second entry rather than toggling. Returns the
// created like plus the full updated list.
func (s *SocialService) LikeBlog(ctx context.Context, actor *User, blogID uuid.UUID) (*Like, []Like, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, nil, err
	}

	blog, err := s.blogs.FindByID(ctx, blogID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil, NewNotFoundError("no blog found by this ID")
		}
		return nil, nil, err
	}

	like := newLike(actor)
	blog.Likes = append(blog.Likes, like)
	if err := s.blogs.Save(ctx, blog); err != nil {
		return nil, nil, err
	}
	return &like, blog.Likes, nil
}

// LikeComment is the comment counterpart of LikeBlog.
func (s *SocialService) LikeComment(ctx context.Context, actor *User, commentID uuid.UUID) (*Like, []Like, error) {
	if err := ensureNotBlocked(actor); err != nil {
		return nil, nil, err
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil, NewNotFoundError("no comment found by this ID")
		}
		return nil, nil, err
	}

	like := newLike(actor)
	comment.Likes = append(comment.Likes, like)
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, nil, err
	}
	return &like, comment.Likes, nil
}

func newLike(actor *User) Like {
	return Like{
		Status:    true,
		ActorID:   actor.ID,
		ActorName: actor.UserName,
		CreatedAt: time.Now(),
	}
}
