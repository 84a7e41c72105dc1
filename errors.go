package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrDuplicateIdentity is returned when a registration collides with an
// existing email. The store's unique index is the authority; the pre-check
// in Register is only an optimization.
var ErrDuplicateIdentity = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode("DUPLICATE_IDENTITY").
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is the login-time failure. Unknown email and wrong
// password deliberately share this one error so callers cannot tell which
// check failed.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredential is the token-time failure. Malformed, forged, expired,
// and wrong-kind tokens all collapse into it at the package boundary.
var ErrInvalidCredential = errors.New("invalid or expired credential", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIAL").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound covers the window where a credential still verifies
// cryptographically but the user record it references no longer exists.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects empty password input before hashing.
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryBadInput).
	WithTextCode("EMPTY_STRING").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the internal bcrypt comparison failure;
// the orchestrator converts it to ErrInvalidCredentials before it escapes.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// IsUniqueViolation reports whether err is a unique-constraint violation from
// the underlying driver. Matches sqlite ("UNIQUE constraint failed") and
// postgres (SQLSTATE 23505 / "duplicate key value") phrasings.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "23505")
}
