package blogcore

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ListOptions is a parsed pagination spec. Zero Limit or Skip means "no
// limit" / "no skip"; an empty SortField means the store's natural order.
type ListOptions struct {
	Limit     int
	Skip      int
	SortField string
	SortAsc   bool
}

// sortColumns maps the outward sort field names onto store columns. Unknown
// fields are ignored rather than rejected.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"age":       "age",
	"userName":  "user_name",
}

// ParsePage translates raw query values into ListOptions. Limit and skip are
// parsed as integers with pass-through on absent or non-numeric values; the
// sort spec has the form "field:asc" or "field:desc", and any direction
// other than asc sorts descending.
func ParsePage(limit, skip, sortBy string) ListOptions {
	opts := ListOptions{}

	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(skip); err == nil && n > 0 {
		opts.Skip = n
	}

	if sortBy != "" {
		field, direction, _ := strings.Cut(sortBy, ":")
		opts.SortField = field
		opts.SortAsc = direction == "asc"
	}

	return opts
}

// Apply folds the options into a select query.
func (o ListOptions) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if o.Limit > 0 {
		q = q.Limit(o.Limit)
	}
	if o.Skip > 0 {
		q = q.Offset(o.Skip)
	}
	if column, ok := sortColumns[o.SortField]; ok {
		direction := " DESC"
		if o.SortAsc {
			direction = " ASC"
		}
		q = q.Order(column + direction)
	}
	return q
}

// BlogView is the outward shape of a blog: the raw like list is replaced by
// a derived count and a viewer-relative flag. Image bytes are served by the
// dedicated image endpoint, never inlined.
type BlogView struct {
	ID          uuid.UUID  `json:"id"`
	Content     string     `json:"content"`
	AuthorID    uuid.UUID  `json:"authorId"`
	AuthorName  string     `json:"authorName"`
	LikesCount  int        `json:"likesCount"`
	LikedByUser bool       `json:"likedByUser"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// CommentView hides the raw like and reply lists behind derived counts.
type CommentView struct {
	ID           uuid.UUID  `json:"id"`
	Comment      string     `json:"comment"`
	BlogID       uuid.UUID  `json:"blogId"`
	AuthorID     uuid.UUID  `json:"authorId"`
	AuthorName   string     `json:"authorName"`
	LikesCount   int        `json:"likesCount"`
	RepliesCount int        `json:"repliesCount"`
	LikedByUser  bool       `json:"likedByUser"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// ProjectBlog shapes a blog for output relative to the viewing actor. The
// counts are computed from the stored list at read time, never from a
// counter, so they cannot drift. The persisted record is left untouched.
func ProjectBlog(blog *Blog, viewerID uuid.UUID) BlogView {
	return BlogView{
		ID:          blog.ID,
		Content:     blog.Content,
		AuthorID:    blog.AuthorID,
		AuthorName:  blog.AuthorName,
		LikesCount:  len(blog.Likes),
		LikedByUser: ActorLikeIndex(blog, viewerID) != ActorLikeIndexNotFound,
		CreatedAt:   blog.CreatedAt,
		UpdatedAt:   blog.UpdatedAt,
	}
}

// ProjectBlogs shapes a page of blogs.
func ProjectBlogs(blogs []*Blog, viewerID uuid.UUID) []BlogView {
	views := make([]BlogView, 0, len(blogs))
	for _, blog := range blogs {
		views = append(views, ProjectBlog(blog, viewerID))
	}
	return views
}

// ProjectComment shapes a comment for output relative to the viewing actor.
func ProjectComment(comment *Comment, viewerID uuid.UUID) CommentView {
	return CommentView{
		ID:           comment.ID,
		Comment:      comment.Comment,
		BlogID:       comment.BlogID,
		AuthorID:     comment.AuthorID,
		AuthorName:   comment.AuthorName,
		LikesCount:   len(comment.Likes),
		RepliesCount: len(comment.Replies),
		LikedByUser:  ActorLikeIndex(comment, viewerID) != ActorLikeIndexNotFound,
		CreatedAt:    comment.CreatedAt,
		UpdatedAt:    comment.UpdatedAt,
	}
}

// ProjectComments shapes a page of comments.
func ProjectComments(comments []*Comment, viewerID uuid.UUID) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, ProjectComment(comment, viewerID))
	}
	return views
}
