package blogcore

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Blogs is the storage surface for Blog records.
type Blogs interface {
	repository.Repository[*Blog]

	FindByID(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*Blog, error)
	Save(ctx context.Context, record *Blog) error
	DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*Blog, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*Blog, error)
	ListPage(ctx context.Context, opts ListOptions) ([]*Blog, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, opts ListOptions) ([]*Blog, error)
}

type blogs struct {
	repository.Repository[*Blog]
	db *bun.DB
}

var (
	_ Blogs     = (*blogs)(nil)
	_ BlogStore = (*blogs)(nil)
)

func NewBlogsRepository(db *bun.DB) Blogs {
	repo := repository.NewRepository[*Blog](db, repository.ModelHandlers[*Blog]{
		NewRecord: func() *Blog { return &Blog{} },
		GetID: func(b *Blog) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Blog, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
	})

	return &blogs{
		Repository: repo,
		db:         db,
	}
}

func (a *blogs) Create(ctx context.Context, record *Blog, criteria ...repository.InsertCriteria) (*Blog, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.Create(ctx, record, criteria...)
}

func (a *blogs) FindByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	return a.Repository.GetByID(ctx, id.String())
}

func (a *blogs) GetByIDAndAuthor(ctx context.Context, id, authorID uuid.UUID) (*Blog, error) {
	record := &Blog{}
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

func (a *blogs) Save(ctx context.Context, record *Blog) error {
	now := time.Now()
	record.UpdatedAt = &now
	_, err := a.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	return err
}

// DeleteOwned removes the blog only when the author matches, returning the
// deleted record.
func (a *blogs) DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (*Blog, error) {
	record, err := a.GetByIDAndAuthor(ctx, id, authorID)
	if err != nil {
		return nil, err
	}

	if _, err := a.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteByID removes the blog regardless of author, returning the deleted
// record.
func (a *blogs) DeleteByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	record, err := a.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := a.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// ListPage pages through blogs with the parsed sort and window options. The
// name avoids the promoted criteria-based List on the embedded repository.
func (a *blogs) ListPage(ctx context.Context, opts ListOptions) ([]*Blog, error) {
	records := []*Blog{}
	q := a.db.NewSelect().Model(&records)
	q = opts.Apply(q)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

func (a *blogs) ListByAuthor(ctx context.Context, authorID uuid.UUID, opts ListOptions) ([]*Blog, error) {
	records := []*Blog{}
	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.author_id = ?", authorID)
	q = opts.Apply(q)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}
