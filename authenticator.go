package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AuthResult is what register and login hand back to the transport: the
// credential pair plus the public projection of the user. Clients hold all
// three together and drop them together on logout.
type AuthResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *PublicUser `json:"user"`
}

// Authenticator coordinates the user store and the token service. It keeps
// no state between requests; every method is a self-contained flow over a
// single user record.
type Authenticator struct {
	store  UserStore
	tokens *TokenService
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store UserStore, tokens *TokenService) *Authenticator {
	return &Authenticator{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// TokenService returns the TokenService instance used by this Authenticator
func (a *Authenticator) TokenService() *TokenService {
	return a.tokens
}

// Register creates a user and issues both credentials. The email existence
// pre-check is an optimization only: two concurrent registrations can both
// pass it, and the store's unique index then decides, so a late unique
// violation maps to ErrDuplicateIdentity as well.
func (a *Authenticator) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	existing, err := a.store.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrDuplicateIdentity
	}
	if err != nil && !errors.IsNotFound(err) {
		a.logger.Error("Register existence check failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check existing email")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := a.store.Register(ctx, &User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		a.logger.Error("Register create failed", "email", email, "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return a.issuePair(user)
}

// Login verifies the password and issues a fresh credential pair. Unknown
// email and wrong password return the identical error.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("Login lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a.issuePair(user)
}

// Refresh verifies the refresh credential, confirms the identity still
// exists, and issues a new access credential only. The refresh credential is
// never rotated.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := a.fetchByClaims(ctx, claims)
	if err != nil {
		return "", err
	}

	return a.tokens.IssueAccess(user.Identity())
}

// Profile verifies the access credential and returns the public projection.
func (a *Authenticator) Profile(ctx context.Context, accessToken string) (*PublicUser, error) {
	claims, err := a.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := a.fetchByClaims(ctx, claims)
	if err != nil {
		return nil, err
	}

	return user.Public(), nil
}

// Logout acknowledges the teardown. Sessions are stateless, so the actual
// work is the client discarding its tokens and cached profile.
func (a *Authenticator) Logout(ctx context.Context, accessToken string) error {
	_, err := a.tokens.VerifyAccess(accessToken)
	return err
}

func (a *Authenticator) issuePair(user *User) (*AuthResult, error) {
	identity := user.Identity()

	access, err := a.tokens.IssueAccess(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := a.tokens.IssueRefresh(identity)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.Public(),
	}, nil
}

// fetchByClaims resolves the embedded identity against the store, covering
// the record-vanished-after-issuance window.
func (a *Authenticator) fetchByClaims(ctx context.Context, claims *TokenClaims) (*User, error) {
	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := a.store.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		a.logger.Error("identity lookup failed", "user_id", claims.UserID(), "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return user, nil
}

var _ SessionAuthenticator = (*Authenticator)(nil)
