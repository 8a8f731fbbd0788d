package blogcore

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Admins is the storage surface for Admin records.
type Admins interface {
	repository.Repository[*Admin]

	GetByUserName(ctx context.Context, userName string) (*Admin, error)
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*Admin, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, record *Admin) error
}

type admins struct {
	repository.Repository[*Admin]
	db *bun.DB
}

var (
	_ Admins             = (*admins)(nil)
	_ AdminStore         = (*admins)(nil)
	_ AdminTokenResolver = (*admins)(nil)
)

func NewAdminsRepository(db *bun.DB) Admins {
	repo := repository.NewRepository[*Admin](db, repository.ModelHandlers[*Admin]{
		NewRecord: func() *Admin { return &Admin{} },
		GetID: func(a *Admin) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Admin, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "user_name"
		},
	})

	return &admins{
		Repository: repo,
		db:         db,
	}
}

func (a *admins) Create(ctx context.Context, record *Admin, criteria ...repository.InsertCriteria) (*Admin, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.Create(ctx, record, criteria...)
}

func (a *admins) GetByUserName(ctx context.Context, userName string) (*Admin, error) {
	record := &Admin{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_name = ?", userName).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"userName": userName})
		}
		return nil, err
	}
	return record, nil
}

func (a *admins) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*Admin, error) {
	record := &Admin{}
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

// Exists backs the per-request moderation authorization check.
func (a *admins) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return a.db.NewSelect().
		Model((*Admin)(nil)).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
}

func (a *admins) Save(ctx context.Context, record *Admin) error {
	now := time.Now()
	record.UpdatedAt = &now
	_, err := a.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	return err
}
