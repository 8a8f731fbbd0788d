package blogcore

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// MaxContentLength bounds blog bodies, comments, and replies.
const MaxContentLength = 100

// MinPasswordLength is enforced on the plaintext, before hashing.
const MinPasswordLength = 8

// ValidateContent enforces the shared text rule for blogs, comments, and
// replies: required, at most MaxContentLength characters, and not a pure
// integer or decimal. The numeric rejection keeps bodies textual.
func ValidateContent(field, text string) error {
	err := validation.Validate(text,
		validation.Required,
		validation.Length(1, MaxContentLength),
		validation.By(textualRule),
	)
	if err != nil {
		return NewValidationError(field + " " + err.Error())
	}
	return nil
}

func textualRule(value any) error {
	s, _ := value.(string)
	if isNumericText(s) {
		return errors.New("must be string", errors.CategoryValidation)
	}
	return nil
}

func isNumericText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func validateUserName(name string) error {
	if err := validation.Validate(name, validation.Required, validation.Length(3, 20)); err != nil {
		return NewValidationError("userName " + err.Error())
	}
	return nil
}

func validateEmail(email string) error {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return NewValidationError("email " + err.Error())
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrNoEmptyString
	}
	if err := validation.Validate(password, validation.Length(MinPasswordLength, 0)); err != nil {
		return NewValidationError("password " + err.Error())
	}
	return nil
}

func validateAge(age *int) error {
	if age == nil {
		return nil
	}
	if *age <= 0 {
		return NewValidationError("age must be positive")
	}
	return nil
}

// validatePhone accepts an absent phone. Present values must parse as an
// international number; numbers without a country prefix are tried as US.
func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	region := ""
	if !strings.HasPrefix(phone, "+") {
		region = "US"
	}
	num, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return NewValidationError("phone is not a valid number")
	}
	return nil
}

// normalizeEmail applies the storage form: trimmed and lower-cased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeUserName trims surrounding whitespace before the length check, so
// padding cannot smuggle an under-length name through.
func normalizeUserName(name string) string {
	return strings.TrimSpace(name)
}
