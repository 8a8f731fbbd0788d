package blogcore_test

import (
	"context"
	"sort"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/scriptoria/blogcore"
)

// testConfig implements blogcore.Config for tests.
type testConfig struct {
	key   string
	hours int
}

func (c testConfig) GetSigningKey() string { return c.key }
func (c testConfig) GetTokenExpiration() int { return c.hours }

func newTestConfig() testConfig {
	return testConfig{key: "test-signing-key", hours: 24}
}

// MockLogger implements blogcore.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) { m.Called(format, args) }
func (m *MockLogger) Info(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Warn(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Error(format string, args ...any) { m.Called(format, args) }

// memoryWriter is an in-memory IdentityWriter capturing every save.
type memoryWriter struct {
	saved   []blogcore.Identity
	saveErr error
}

func (w *memoryWriter) SaveIdentity(ctx context.Context, identity blogcore.Identity) error {
	if w.saveErr != nil {
		return w.saveErr
	}
	w.saved = append(w.saved, identity)
	return nil
}

// fakeUserStore is an in-memory UserStore plus the token resolver used by the
// authenticator.
type fakeUserStore struct {
	users map[uuid.UUID]*blogcore.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*blogcore.User{}}
}

func (f *fakeUserStore) FindByID(ctx context.Context, id uuid.UUID) (*blogcore.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, blogcore.NewNotFoundError("user not found")
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*blogcore.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, blogcore.NewNotFoundError("user not found")
}

func (f *fakeUserStore) Create(ctx context.Context, record *blogcore.User, criteria ...repository.InsertCriteria) (*blogcore.User, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.users[record.ID] = record
	return record, nil
}

func (f *fakeUserStore) Save(ctx context.Context, record *blogcore.User) error {
	f.users[record.ID] = record
	return nil
}

func (f *fakeUserStore) ListPage(ctx context.Context, opts blogcore.ListOptions) ([]*blogcore.User, error) {
	out := []*blogcore.User{}
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserStore) DeleteByID(ctx context.Context, id uuid.UUID) (*blogcore.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, blogcore.NewNotFoundError("user not found")
	}
	delete(f.users, id)
	return user, nil
}

func (f *fakeUserStore) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*blogcore.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, blogcore.NewNotFoundError("user not found")
	}
	for _, t := range user.Tokens {
		if t == token {
			return user, nil
		}
	}
	return nil, blogcore.NewNotFoundError("user not found")
}

// fakeAdminStore mirrors fakeUserStore for admins.
type fakeAdminStore struct {
	admins map[uuid.UUID]*blogcore.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[uuid.UUID]*blogcore.Admin{}}
}

func (f *fakeAdminStore) GetByUserName(ctx context.Context, userName string) (*blogcore.Admin, error) {
	for _, admin := range f.admins {
		if admin.UserName == userName {
			return admin, nil
		}
	}
	return nil, blogcore.NewNotFoundError("admin not found")
}

func (f *fakeAdminStore) Create(ctx context.Context, record *blogcore.Admin, criteria ...repository.InsertCriteria) (*blogcore.Admin, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.admins[record.ID] = record
	return record, nil
}

func (f *fakeAdminStore) Save(ctx context.Context, record *blogcore.Admin) error {
	f.admins[record.ID] = record
	return nil
}

func (f *fakeAdminStore) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*blogcore.Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, blogcore.NewNotFoundError("admin not found")
	}
	for _, t := range admin.Tokens {
		if t == token {
			return admin, nil
		}
	}
	return nil, blogcore.NewNotFoundError("admin not found")
}

func (f *fakeAdminStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.admins[id]
	return ok, nil
}

// fakeBlogStore is an in-memory BlogStore.
type fakeBlogStore struct {
	blogs map[uuid.UUID]*blogcore.Blog
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{blogs: map[uuid.UUID]*blogcore.Blog{}}
}

func (f *fakeBlogStore) FindByID(ctx context.Context, id uuid.UUID) (*blogcore.Blog, error) {
	if blog, ok := f.blogs[id]; ok {
		return blog, nil
	}
	return nil, blogcore.NewNotFoundError("blog not found")
}

func (f *fakeBlogStore) GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*blogcore.Blog, error) {
	blog, ok := f.blogs[id]
	if !ok || blog.AuthorID != authorID {
		return nil, blogcore.NewNotFoundError("blog not found")
	}
	return blog, nil
}

func (f *fakeBlogStore) Create(ctx context.Context, record *blogcore.Blog, criteria ...repository.InsertCriteria) (*blogcore.Blog, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.blogs[record.ID] = record
	return record, nil
}

func (f *fakeBlogStore) Save(ctx context.Context, record *blogcore.Blog) error {
	f.blogs[record.ID] = record
	return nil
}

func (f *fakeBlogStore) DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*blogcore.Blog, error) {
	blog, err := f.GetByIDAndAuthor(ctx, id, authorID)
	if err != nil {
		return nil, err
	}
	delete(f.blogs, id)
	return blog, nil
}

func (f *fakeBlogStore) DeleteByID(ctx context.Context, id uuid.UUID) (*blogcore.Blog, error) {
	blog, ok := f.blogs[id]
	if !ok {
		return nil, blogcore.NewNotFoundError("blog not found")
	}
	delete(f.blogs, id)
	return blog, nil
}

func (f *fakeBlogStore) ListPage(ctx context.Context, opts blogcore.ListOptions) ([]*blogcore.Blog, error) {
	out := []*blogcore.Blog{}
	for _, blog := range f.blogs {
		out = append(out, blog)
	}
	return pageBlogs(out, opts), nil
}

func (f *fakeBlogStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, opts blogcore.ListOptions) ([]*blogcore.Blog, error) {
	out := []*blogcore.Blog{}
	for _, blog := range f.blogs {
		if blog.AuthorID == authorID {
			out = append(out, blog)
		}
	}
	return pageBlogs(out, opts), nil
}

// pageBlogs applies sort, skip, and limit the way the bun-backed store does.
func pageBlogs(blogs []*blogcore.Blog, opts blogcore.ListOptions) []*blogcore.Blog {
	if opts.SortField == "createdAt" {
		sort.Slice(blogs, func(i, j int) bool {
			a, b := blogs[i].CreatedAt, blogs[j].CreatedAt
			if a == nil || b == nil {
				return b == nil
			}
			if opts.SortAsc {
				return a.Before(*b)
			}
			return a.After(*b)
		})
	}
	if opts.Skip > 0 {
		if opts.Skip >= len(blogs) {
			return []*blogcore.Blog{}
		}
		blogs = blogs[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(blogs) {
		blogs = blogs[:opts.Limit]
	}
	return blogs
}

// fakeCommentStore is an in-memory CommentStore.
type fakeCommentStore struct {
	comments map[uuid.UUID]*blogcore.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[uuid.UUID]*blogcore.Comment{}}
}

func (f *fakeCommentStore) FindByID(ctx context.Context, id uuid.UUID) (*blogcore.Comment, error) {
	if comment, ok := f.comments[id]; ok {
		return comment, nil
	}
	return nil, blogcore.NewNotFoundError("comment not found")
}

func (f *fakeCommentStore) GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*blogcore.Comment, error) {
	comment, ok := f.comments[id]
	if !ok || comment.AuthorID != authorID {
		return nil, blogcore.NewNotFoundError("comment not found")
	}
	return comment, nil
}

func (f *fakeCommentStore) Create(ctx context.Context, record *blogcore.Comment, criteria ...repository.InsertCriteria) (*blogcore.Comment, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.comments[record.ID] = record
	return record, nil
}

func (f *fakeCommentStore) Save(ctx context.Context, record *blogcore.Comment) error {
	f.comments[record.ID] = record
	return nil
}

func (f *fakeCommentStore) DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*blogcore.Comment, error) {
	comment, err := f.GetByIDAndAuthor(ctx, id, authorID)
	if err != nil {
		return nil, err
	}
	delete(f.comments, id)
	return comment, nil
}

func (f *fakeCommentStore) ListByBlog(ctx context.Context, blogID uuid.UUID, opts blogcore.ListOptions) ([]*blogcore.Comment, error) {
	out := []*blogcore.Comment{}
	for _, comment := range f.comments {
		if comment.BlogID == blogID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) DeleteByBlog(ctx context.Context, blogID uuid.UUID) error {
	for id, comment := range f.comments {
		if comment.BlogID == blogID {
			delete(f.comments, id)
		}
	}
	return nil
}

var (
	_ blogcore.UserStore          = (*fakeUserStore)(nil)
	_ blogcore.UserTokenResolver  = (*fakeUserStore)(nil)
	_ blogcore.AdminStore         = (*fakeAdminStore)(nil)
	_ blogcore.AdminTokenResolver = (*fakeAdminStore)(nil)
	_ blogcore.BlogStore          = (*fakeBlogStore)(nil)
	_ blogcore.CommentStore       = (*fakeCommentStore)(nil)
	_ blogcore.IdentityWriter     = (*memoryWriter)(nil)
)
