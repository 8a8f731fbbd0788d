package blogcore

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the storage surface for User records.
type Users interface {
	repository.Repository[*User]

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*User, error)
	Save(ctx context.Context, record *User) error
	DeleteByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListPage(ctx context.Context, opts ListOptions) ([]*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users             = (*users)(nil)
	_ UserStore         = (*users)(nil)
	_ UserTokenResolver = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.Create(ctx, record, criteria...)
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.Repository.GetByID(ctx, id.String())
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}
	return record, nil
}

// GetByIDAndToken requires both the id and token-list membership in one
// query; a revoked token fails here even while cryptographically valid.
func (a *users) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("EXISTS (SELECT 1 FROM json_each(?TableAlias.tokens) WHERE json_each.value = ?)", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

// Save persists the full record, zero values included, so a cleared token
// list sticks.
func (a *users) Save(ctx context.Context, record *User) error {
	now := time.Now()
	record.UpdatedAt = &now
	_, err := a.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	return err
}

// DeleteByID removes the record and returns what was deleted. Lookup and
// delete are two store calls, not a transaction.
func (a *users) DeleteByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record, err := a.Repository.GetByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	if _, err := a.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// ListPage pages through users with the parsed sort and window options. The
// name avoids the promoted criteria-based List on the embedded repository.
func (a *users) ListPage(ctx context.Context, opts ListOptions) ([]*User, error) {
	records := []*User{}
	q := a.db.NewSelect().Model(&records)
	q = opts.Apply(q)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}
