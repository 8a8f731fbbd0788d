package blogcore_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/scriptoria/blogcore"
)

func TestParsePage(t *testing.T) {
	t.Run("parses numeric limit and skip", func(t *testing.T) {
		opts := blogcore.ParsePage("10", "20", "")

		assert.Equal(t, 10, opts.Limit)
		assert.Equal(t, 20, opts.Skip)
		assert.Empty(t, opts.SortField)
	})

	t.Run("non-numeric values pass through as no limit", func(t *testing.T) {
		opts := blogcore.ParsePage("ten", "banana", "")

		assert.Zero(t, opts.Limit)
		assert.Zero(t, opts.Skip)
	})

	t.Run("negative values are ignored", func(t *testing.T) {
		opts := blogcore.ParsePage("-5", "-1", "")

		assert.Zero(t, opts.Limit)
		assert.Zero(t, opts.Skip)
	})

	t.Run("sort spec splits on colon", func(t *testing.T) {
		opts := blogcore.ParsePage("", "", "createdAt:asc")

		assert.Equal(t, "createdAt", opts.SortField)
		assert.True(t, opts.SortAsc)
	})

	t.Run("any direction other than asc sorts descending", func(t *testing.T) {
		for _, spec := range []string{"createdAt:desc", "createdAt:banana", "createdAt"} {
			opts := blogcore.ParsePage("", "", spec)
			assert.False(t, opts.SortAsc, spec)
		}
	})
}

func TestProjectBlog(t *testing.T) {
	viewer := uuid.New()
	other := uuid.New()
	now := time.Now()

	blog := &blogcore.Blog{
		ID:         uuid.New(),
		Content:    "a fine day",
		AuthorID:   other,
		AuthorName: "pippa",
		Image:      []byte{0x89},
		Likes: []blogcore.Like{
			{Status: true, ActorID: other, ActorName: "pippa", CreatedAt: now},
			{Status: true, ActorID: viewer, ActorName: "viewer", CreatedAt: now},
			{Status: true, ActorID: viewer, ActorName: "viewer", CreatedAt: now},
		},
		CreatedAt: &now,
	}

	t.Run("derives the count from the stored list", func(t *testing.T) {
		view := blogcore.ProjectBlog(blog, viewer)

		assert.Equal(t, 3, view.LikesCount)
		assert.True(t, view.LikedByUser)
	})

	t.Run("a foreign viewer is not flagged", func(t *testing.T) {
		view := blogcore.ProjectBlog(blog, uuid.New())

		assert.Equal(t, 3, view.LikesCount)
		assert.False(t, view.LikedByUser)
	})

	t.Run("projection leaves the record untouched", func(t *testing.T) {
		blogcore.ProjectBlog(blog, viewer)

		assert.Len(t, blog.Likes, 3)
		assert.NotEmpty(t, blog.Image)
	})
}

func TestProjectComment(t *testing.T) {
	viewer := uuid.New()
	comment := &blogcore.Comment{
		ID:         uuid.New(),
		Comment:    "a comment",
		BlogID:     uuid.New(),
		AuthorID:   viewer,
		AuthorName: "pippa",
		Replies: []blogcore.Reply{
			{Text: "one", ActorID: viewer},
			{Text: "two", ActorID: viewer},
		},
		Likes: []blogcore.Like{{Status: true, ActorID: viewer}},
	}

	view := blogcore.ProjectComment(comment, viewer)

	assert.Equal(t, 1, view.LikesCount)
	assert.Equal(t, 2, view.RepliesCount)
	assert.True(t, view.LikedByUser)
}

func TestActorLikeIndex(t *testing.T) {
	actor := uuid.New()

	t.Run("returns the first match", func(t *testing.T) {
		blog := &blogcore.Blog{Likes: []blogcore.Like{
			{ActorID: uuid.New()},
			{ActorID: actor},
			{ActorID: actor},
		}}

		assert.Equal(t, 1, blogcore.ActorLikeIndex(blog, actor))
	})

	t.Run("sentinel for no match", func(t *testing.T) {
		blog := &blogcore.Blog{}

		assert.Equal(t, blogcore.ActorLikeIndexNotFound, blogcore.ActorLikeIndex(blog, actor))
	})
}

func TestListOptions_Apply(t *testing.T) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	defer sqldb.Close()
	db := bun.NewDB(sqldb, sqlitedialect.New())

	t.Run("folds sort, limit, and skip into the query", func(t *testing.T) {
		opts := blogcore.ParsePage("3", "2", "createdAt:desc")

		rendered := opts.Apply(db.NewSelect().Model((*blogcore.Blog)(nil))).String()

		assert.Contains(t, rendered, "created_at")
		assert.Contains(t, rendered, "DESC")
		assert.Contains(t, rendered, "LIMIT 3")
		assert.Contains(t, rendered, "OFFSET 2")
	})

	t.Run("unknown sort fields add no ordering", func(t *testing.T) {
		opts := blogcore.ParsePage("", "", "banana:desc")

		rendered := opts.Apply(db.NewSelect().Model((*blogcore.Blog)(nil))).String()

		assert.NotContains(t, rendered, "ORDER BY")
		assert.NotContains(t, rendered, "LIMIT")
	})
}
