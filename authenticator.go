package blogcore

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserTokenResolver looks a User up by id and token-list membership in one
// combined query.
type UserTokenResolver interface {
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*User, error)
}

// AdminTokenResolver is the Admin counterpart of UserTokenResolver, plus the
// per-request existence check used to authorize moderation endpoints.
type AdminTokenResolver interface {
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*Admin, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type sessionObject struct {
	identity Identity
	token    string
}

func (s sessionObject) Identity() Identity { return s.identity }
func (s sessionObject) Token() string      { return s.token }

// Auther resolves an inbound bearer token plus a declared role hint into an
// authenticated identity.
type Auther struct {
	tokens *TokenService
	users  UserTokenResolver
	admins AdminTokenResolver
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(tokens *TokenService, users UserTokenResolver, admins AdminTokenResolver) *Auther {
	return &Auther{
		tokens: tokens,
		users:  users,
		admins: admins,
		logger: defLogger{},
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	a.logger = logger
	return a
}

// Authenticate decodes the token, selects the identity collection named by
// the role hint, and requires both the decoded id and token-list membership
// to hold in a single lookup, so a cryptographically valid but revoked token
// is rejected. Every failure surfaces the same undifferentiated error; the
// design deliberately does not leak which check failed. Any hint other than
// RoleAdmin selects the user collection.
func (a *Auther) Authenticate(ctx context.Context, token string, role Role) (Session, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		a.logger.Debug("authenticate: token verification failed: %v", err)
		return nil, ErrNotAuthenticated
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		a.logger.Debug("authenticate: claims carry no usable subject: %v", err)
		return nil, ErrNotAuthenticated
	}

	var identity Identity
	if role == RoleAdmin {
		identity, err = a.admins.GetByIDAndToken(ctx, id, token)
	} else {
		identity, err = a.users.GetByIDAndToken(ctx, id, token)
	}
	if err != nil {
		a.logger.Debug("authenticate: %s lookup failed: %v", role, err)
		return nil, ErrNotAuthenticated
	}

	return sessionObject{identity: identity, token: token}, nil
}

// RequireAdmin authorizes a moderation operation: an Admin record must exist
// with the resolved id. The check runs per-request and is never cached, so
// revoking Admin status takes effect on the next request.
func (a *Auther) RequireAdmin(ctx context.Context, id uuid.UUID) error {
	ok, err := a.admins.Exists(ctx, id)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "admin lookup failed")
	}
	if !ok {
		return ErrAdminRequired
	}
	return nil
}

var _ Authenticator = (*Auther)(nil)
