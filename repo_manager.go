package blogcore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Admins() Admins
	Blogs() Blogs
	Comments() Comments
	SaveIdentity(ctx context.Context, identity Identity) error
}

type mngr struct {
	db       *bun.DB
	users    Users
	admins   Admins
	blogs    Blogs
	comments Comments
}

var _ IdentityWriter = (*mngr)(nil)

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db),
		admins:   NewAdminsRepository(db),
		blogs:    NewBlogsRepository(db),
		comments: NewCommentsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.admins == nil {
		return errors.New("repository admins should be initialized")
	}

	if m.blogs == nil {
		return errors.New("repository blogs should be initialized")
	}

	if m.comments == nil {
		return errors.New("repository comments should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Admins() Admins {
	return m.admins
}

func (m mngr) Blogs() Blogs {
	return m.blogs
}

func (m mngr) Comments() Comments {
	return m.comments
}

// SaveIdentity persists token-list changes for either identity kind.
func (m mngr) SaveIdentity(ctx context.Context, identity Identity) error {
	switch record := identity.(type) {
	case *User:
		return m.users.Save(ctx, record)
	case *Admin:
		return m.admins.Save(ctx, record)
	default:
		return fmt.Errorf("unsupported identity type %T", identity)
	}
}
