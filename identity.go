package blogcore

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UserStore is the persistence surface the identity service needs for User
// records.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	Save(ctx context.Context, record *User) error
	DeleteByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListPage(ctx context.Context, opts ListOptions) ([]*User, error)
}

// AdminStore is the persistence surface for Admin records.
type AdminStore interface {
	GetByUserName(ctx context.Context, userName string) (*Admin, error)
	Create(ctx context.Context, record *Admin, criteria ...repository.InsertCriteria) (*Admin, error)
	Save(ctx context.Context, record *Admin) error
}

// RegisterInput carries the fields accepted at registration. Kind selects the
// identity collection; Email, Age, and Phone apply to users only.
type RegisterInput struct {
	Kind     Role   `json:"kind"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age"`
	Phone    string `json:"phone"`
}

// allowedUserUpdates is the only field set UpdateFields will patch.
var allowedUserUpdates = map[string]bool{
	"userName": true,
	"age":      true,
	"email":    true,
	"password": true,
	"phone":    true,
}

// IdentityService owns identity records: registration, credential
// verification, blocking, and allow-listed profile updates. Credentials are
// hashed before persistence and re-hashed only when the password field
// changes.
type IdentityService struct {
	users  UserStore
	admins AdminStore
	hasher PasswordAuthenticator
	logger Logger
}

// NewIdentityService returns a new IdentityService backed by the given
// stores.
func NewIdentityService(users UserStore, admins AdminStore) *IdentityService {
	return &IdentityService{
		users:  users,
		admins: admins,
		hasher: NewPasswordAuthenticator(),
		logger: defLogger{},
	}
}

func (s *IdentityService) WithLogger(logger Logger) *IdentityService {
	s.logger = logger
	return s
}

func (s *IdentityService) WithPasswordAuthenticator(hasher PasswordAuthenticator) *IdentityService {
	s.hasher = hasher
	return s
}

// Register creates a new identity of the requested kind. User emails are
// normalized and checked for uniqueness before the write; the check and the
// create are separate store calls, so a duplicate admitted between them is an
// accepted race at this scale.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (Identity, error) {
	if input.Kind == RoleAdmin {
		return s.registerAdmin(ctx, input)
	}
	return s.registerUser(ctx, input)
}

func (s *IdentityService) registerUser(ctx context.Context, input RegisterInput) (*User, error) {
	userName := normalizeUserName(input.UserName)
	if err := validateUserName(userName); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateAge(input.Age); err != nil {
		return nil, err
	}
	if err := validatePhone(input.Phone); err != nil {
		return nil, err
	}

	if err := s.ensureEmailUnregistered(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		Age:          input.Age,
		Phone:        input.Phone,
		Tokens:       []string{},
	}

	// The id derives from the normalized email, so the same address always
	// maps to the same record id.
	if id, err := hashid.NewUUID(email); err == nil {
		user.ID = id
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
	}

	return created, nil
}

func (s *IdentityService) registerAdmin(ctx context.Context, input RegisterInput) (*Admin, error) {
	userName := normalizeUserName(input.UserName)
	if err := validateUserName(userName); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	admin := &Admin{
		UserName:     userName,
		PasswordHash: hash,
		Tokens:       []string{},
	}

	created, err := s.admins.Create(ctx, admin)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create admin")
	}

	return created, nil
}

// VerifyCredential finds the identity of the given kind by its lookup key
// (email for users, userName for admins) and compares the password. Whether
// the key does not exist or the password is wrong, the caller sees the same
// error.
func (s *IdentityService) VerifyCredential(ctx context.Context, kind Role, lookupKey, password string) (Identity, error) {
	if kind == RoleAdmin {
		admin, err := s.admins.GetByUserName(ctx, lookupKey)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, ErrInvalidCredentials
			}
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve admin during verification")
		}
		if err := s.hasher.ComparePasswordAndHash(password, admin.PasswordHash); err != nil {
			return nil, ErrInvalidCredentials
		}
		return admin, nil
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(lookupKey))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}
	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SetBlocked flips the user's blocked flag. Blocking gates social content
// mutation only, never authentication or reads. Idempotent. Authorization is
// the caller's job.
func (s *IdentityService) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) (*User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no user found by this ID")
		}
		return nil, err
	}

	user.Blocked = blocked
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateFields patches a User record. Only userName, age, email, password,
// and phone may appear in the patch; any other key fails validation before a
// single store call is made. Email re-runs the uniqueness check; password is
// re-hashed.
func (s *IdentityService) UpdateFields(ctx context.Context, userID uuid.UUID, patch map[string]any) (*User, error) {
	if len(patch) == 0 {
		return nil, ErrEmptyPatch
	}

	for key := range patch {
		if !allowedUserUpdates[key] {
			return nil, errors.New("one or more fields are not existed to update", errors.CategoryValidation).
				WithTextCode(TextCodeUnknownField).
				WithCode(errors.CodeBadRequest)
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no user found by this ID")
		}
		return nil, err
	}

	if err := s.applyUserPatch(ctx, user, patch); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *IdentityService) applyUserPatch(ctx context.Context, user *User, patch map[string]any) error {
	if v, ok := patch["userName"]; ok {
		raw, ok := v.(string)
		if !ok {
			return NewValidationError("userName must be a string")
		}
		name := normalizeUserName(raw)
		if err := validateUserName(name); err != nil {
			return err
		}
		user.UserName = name
	}

	if v, ok := patch["email"]; ok {
		raw, ok := v.(string)
		if !ok {
			return NewValidationError("email must be a string")
		}
		email := normalizeEmail(raw)
		if err := validateEmail(email); err != nil {
			return err
		}
		if err := s.ensureEmailUnregistered(ctx, email); err != nil {
			return err
		}
		user.Email = email
	}

	if v, ok := patch["password"]; ok {
		password, ok := v.(string)
		if !ok {
			return NewValidationError("password must be a string")
		}
		if err := validatePassword(password); err != nil {
			return err
		}
		hash, err := s.hasher.HashPassword(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	if v, ok := patch["age"]; ok {
		age, err := patchAge(v)
		if err != nil {
			return err
		}
		if err := validateAge(age); err != nil {
			return err
		}
		user.Age = age
	}

	if v, ok := patch["phone"]; ok {
		phone, ok := v.(string)
		if !ok {
			return NewValidationError("phone must be a string")
		}
		if err := validatePhone(phone); err != nil {
			return err
		}
		user.Phone = phone
	}

	return nil
}

// patchAge accepts JSON numbers, native ints, or an explicit null that
// clears the field.
func patchAge(v any) (*int, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		age := int(n)
		return &age, nil
	case int:
		age := n
		return &age, nil
	default:
		return nil, NewValidationError("age must be a number")
	}
}

// DeleteUser removes a User record. Cascading removal of the user's blogs
// and comments is the caller's responsibility.
func (s *IdentityService) DeleteUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.users.DeleteByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, NewNotFoundError("no user found by this ID")
		}
		return nil, err
	}
	return user, nil
}

// ensureEmailUnregistered is a check-then-write uniqueness guard. Any user
// holding the email, including the caller's own record, conflicts; this
// mirrors the original lookup which never excluded the updating user.
func (s *IdentityService) ensureEmailUnregistered(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailRegistered
	}
	if errors.IsNotFound(err) {
		return nil
	}
	return errors.Wrap(err, errors.CategoryInternal, "email uniqueness check failed")
}
