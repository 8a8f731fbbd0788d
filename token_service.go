package blogcore

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenExpiration is the token lifetime in hours (90 days) used when
// the config does not override it.
const DefaultTokenExpiration = 90 * 24

// SessionClaims is the payload encoded in every issued token.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID string `json:"uid,omitempty"`
}

// UserID returns the bound identity id.
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// TokenService is the token authority: it mints, verifies, and revokes the
// opaque bearer tokens bound to an identity. Verification checks signature
// and expiry only; membership in the identity's stored token list is the
// request authenticator's job, which is what makes server-side revocation
// work independently of expiry.
type TokenService struct {
	signingKey      []byte
	tokenExpiration int
	store           IdentityWriter
	logger          Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, store IdentityWriter) *TokenService {
	expiration := cfg.GetTokenExpiration()
	if expiration <= 0 {
		expiration = DefaultTokenExpiration
	}

	return &TokenService{
		signingKey:      []byte(cfg.GetSigningKey()),
		tokenExpiration: expiration,
		store:           store,
		logger:          defLogger{},
	}
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	ts.logger = logger
	return ts
}

// Issue mints a signed token bound to the identity, appends it to the
// identity's token list, and persists the record. An identity may hold many
// concurrent tokens, one per active session.
func (ts *TokenService) Issue(ctx context.Context, identity Identity) (string, error) {
	token, err := ts.sign(identity)
	if err != nil {
		return "", err
	}

	identity.SetSessionTokens(append(identity.SessionTokens(), token))
	if err := ts.store.SaveIdentity(ctx, identity); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to persist issued token")
	}

	return token, nil
}

func (ts *TokenService) sign(identity Identity) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.IdentityID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		UID: identity.IdentityID().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Verify decodes the token and checks signature and expiry. It does not
// consult the identity's stored token list.
func (ts *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RevokeOne removes exactly one matching entry from the identity's token
// list and persists. A token that is not in the list is a no-op, not an
// error.
func (ts *TokenService) RevokeOne(ctx context.Context, identity Identity, tokenString string) error {
	tokens := identity.SessionTokens()
	for i, t := range tokens {
		if t == tokenString {
			identity.SetSessionTokens(append(tokens[:i:i], tokens[i+1:]...))
			return ts.store.SaveIdentity(ctx, identity)
		}
	}
	return nil
}

// RevokeAll clears the entire token list, invalidating every session for the
// identity regardless of expiry.
func (ts *TokenService) RevokeAll(ctx context.Context, identity Identity) error {
	identity.SetSessionTokens([]string{})
	return ts.store.SaveIdentity(ctx, identity)
}
