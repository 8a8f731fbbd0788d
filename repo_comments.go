package blogcore

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comments is the storage surface for Comment records.
type Comments interface {
	repository.Repository[*Comment]

	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*Comment, error)
	Save(ctx context.Context, record *Comment) error
	DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*Comment, error)
	ListByBlog(ctx context.Context, blogID uuid.UUID, opts ListOptions) ([]*Comment, error)
	DeleteByBlog(ctx context.Context, blogID uuid.UUID) error
}

type comments struct {
	repository.Repository[*Comment]
	db *bun.DB
}

var (
	_ Comments     = (*comments)(nil)
	_ CommentStore = (*comments)(nil)
)

func NewCommentsRepository(db *bun.DB) Comments {
	repo := repository.NewRepository[*Comment](db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &comments{
		Repository: repo,
		db:         db,
	}
}

func (a *comments) Create(ctx context.Context, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.Create(ctx, record, criteria...)
}

func (a *comments) FindByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	return a.Repository.GetByID(ctx, id.String())
}

func (a *comments) GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*Comment, error) {
	record := &Comment{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.author_id = ?", authorID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String(), "authorId": authorID.String()})
		}
		return nil, err
	}
	return record, nil
}

func (a *comments) Save(ctx context.Context, record *Comment) error {
	now := time.Now()
	record.UpdatedAt = &now
	_, err := a.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	return err
}

// DeleteOwned removes the comment only when the author matches, returning
// the deleted record.
func (a *comments) DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*Comment, error) {
	record, err := a.GetByIDAndAuthor(ctx, id, authorID)
	if err != nil {
		return nil, err
	}

	if _, err := a.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (a *comments) ListByBlog(ctx context.Context, blogID uuid.UUID, opts ListOptions) ([]*Comment, error) {
	records := []*Comment{}
	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.blog_id = ?", blogID)
	q = opts.Apply(q)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByBlog removes every comment attached to the blog. Used as the
// cascade when a blog is deleted.
func (a *comments) DeleteByBlog(ctx context.Context, blogID uuid.UUID) error {
	_, err := a.db.NewDelete().
		Model((*Comment)(nil)).
		Where("blog_id = ?", blogID).
		Exec(ctx)
	return err
}
