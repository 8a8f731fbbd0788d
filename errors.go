package blogcore

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidCreds     = "invalid_credentials"
	TextCodeInvalidToken     = "invalid_token"
	TextCodeNotAuthenticated = "not_authenticated"
	TextCodeAdminRequired    = "admin_required"
	TextCodeUserBlocked      = "user_blocked"
	TextCodeEmailRegistered  = "email_registered"
	TextCodeEmptyPassword    = "empty_password"
	TextCodeEmptyPatch       = "empty_patch"
	TextCodeUnknownField     = "unknown_field"
)

// ErrInvalidCredentials is returned whether the lookup key does not exist or
// the password is wrong. The message is deliberately undifferentiated to avoid
// user enumeration.
var ErrInvalidCredentials = errors.New("unable to login", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNotAuthenticated is the single error surfaced for every token resolution
// failure: missing token, bad signature, expiry, role mismatch, or a revoked
// token that no longer sits in the identity's token list. Which check failed
// is never leaked.
var ErrNotAuthenticated = errors.New("please authenticate properly", errors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken is returned by token verification on any cryptographic or
// expiry failure.
var ErrInvalidToken = errors.New("token is invalid or expired", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrAdminRequired is returned when an authenticated caller lacks an Admin
// record for a moderation operation.
var ErrAdminRequired = errors.New("user must be an admin", errors.CategoryAuthz).
	WithTextCode(TextCodeAdminRequired).
	WithCode(errors.CodeForbidden)

// ErrUserBlocked gates social content mutation for blocked users. Blocked
// users can still authenticate and read.
var ErrUserBlocked = errors.New("user is blocked", errors.CategoryAuthz).
	WithTextCode(TextCodeUserBlocked).
	WithCode(errors.CodeForbidden)

// ErrEmailRegistered is the uniqueness violation on User email.
var ErrEmailRegistered = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailRegistered).
	WithCode(errors.CodeConflict)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrEmptyPatch rejects update calls that carry no fields.
var ErrEmptyPatch = errors.New("no update(s) are provided", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPatch).
	WithCode(errors.CodeBadRequest)

// NewValidationError wraps a field-level validation failure.
func NewValidationError(msg string) *errors.Error {
	return errors.New(msg, errors.CategoryValidation).
		WithCode(errors.CodeBadRequest)
}

// NewNotFoundError reports an absent referenced entity.
func NewNotFoundError(msg string) *errors.Error {
	return errors.New(msg, errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}
