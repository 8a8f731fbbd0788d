package blogcore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Role selects which identity collection an operation targets.
type Role = string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the shared surface of User and Admin records.
type Identity interface {
	IdentityID() uuid.UUID
	DisplayName() string
	IdentityRole() Role
	SessionTokens() []string
	SetSessionTokens(tokens []string)
}

// Session is the resolved outcome of authenticating a bearer token: the
// identity that holds the token plus the literal token string that matched,
// which callers need for logout-by-token semantics.
type Session interface {
	Identity() Identity
	Token() string
}

// Authenticator resolves inbound tokens into identities.
type Authenticator interface {
	Authenticate(ctx context.Context, token string, role Role) (Session, error)
	RequireAdmin(ctx context.Context, id uuid.UUID) error
}

// Config holds the options the core needs. It is constructed once at process
// start and passed by reference; core logic never reads the environment.
type Config interface {
	GetSigningKey() string
	// GetTokenExpiration is the token lifetime in hours.
	GetTokenExpiration() int
}

// IdentityWriter persists identity records after their token list changed.
type IdentityWriter interface {
	SaveIdentity(ctx context.Context, identity Identity) error
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// NewDefaultLogger returns the stdout logger services fall back to when no
// custom logger is provided.
func NewDefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] BLOGCORE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] BLOGCORE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] BLOGCORE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] BLOGCORE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
