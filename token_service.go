package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const (
	// DefaultAccessTTL is the lifetime of an access credential
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL is the lifetime of a refresh credential
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenService issues and verifies signed credential pairs. It is pure over
// its secrets and clock: no I/O, no record of issued tokens. The two secrets
// are distinct so an access token never verifies as a refresh token and vice
// versa.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
	logger        Logger
}

// NewTokenService creates a TokenService with the default lifetimes.
func NewTokenService(accessSecret, refreshSecret []byte, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     DefaultAccessTTL,
		refreshTTL:    DefaultRefreshTTL,
		now:           time.Now,
		logger:        logger,
	}
}

// NewTokenServiceFromConfig wires a TokenService from process configuration,
// including the development-only fallback secrets.
func NewTokenServiceFromConfig(cfg *Config, logger Logger) *TokenService {
	ts := NewTokenService(cfg.AccessSecretBytes(), cfg.RefreshSecretBytes(), logger)
	ts.issuer = cfg.Issuer
	if cfg.AccessTokenTTL > 0 {
		ts.accessTTL = cfg.AccessTokenTTL
	}
	if cfg.RefreshTokenTTL > 0 {
		ts.refreshTTL = cfg.RefreshTokenTTL
	}
	return ts
}

// WithIssuer sets the issuer claim stamped into and required from tokens.
func (ts *TokenService) WithIssuer(issuer string) *TokenService {
	ts.issuer = issuer
	return ts
}

// WithAccessTTL overrides the access credential lifetime.
func (ts *TokenService) WithAccessTTL(ttl time.Duration) *TokenService {
	ts.accessTTL = ttl
	return ts
}

// WithRefreshTTL overrides the refresh credential lifetime.
func (ts *TokenService) WithRefreshTTL(ttl time.Duration) *TokenService {
	ts.refreshTTL = ttl
	return ts
}

// WithTimeFunc overrides the clock used for issuance and expiry checks.
func (ts *TokenService) WithTimeFunc(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// IssueAccess signs a short-lived access credential for identity.
func (ts *TokenService) IssueAccess(identity Identity) (string, error) {
	return ts.issue(identity, KindAccess, ts.accessSecret, ts.accessTTL)
}

// IssueRefresh signs a long-lived refresh credential for identity.
func (ts *TokenService) IssueRefresh(identity Identity) (string, error) {
	return ts.issue(identity, KindRefresh, ts.refreshSecret, ts.refreshTTL)
}

// VerifyAccess checks the signature, expiry, and kind of an access credential
// and returns its claims. Every failure cause collapses into
// ErrInvalidCredential.
func (ts *TokenService) VerifyAccess(token string) (*TokenClaims, error) {
	return ts.verify(token, KindAccess, ts.accessSecret)
}

// VerifyRefresh is VerifyAccess for refresh credentials.
func (ts *TokenService) VerifyRefresh(token string) (*TokenClaims, error) {
	return ts.verify(token, KindRefresh, ts.refreshSecret)
}

func (ts *TokenService) issue(identity Identity, kind TokenKind, secret []byte, ttl time.Duration) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}

	now := ts.now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:   identity.ID(),
		Email: identity.Email(),
		Kind:  kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

func (ts *TokenService) verify(tokenString string, kind TokenKind, secret []byte) (*TokenClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
		jwt.WithExpirationRequired(),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, parserOptions...)

	if err != nil {
		// Expired, forged, malformed, and wrong-secret tokens are
		// indistinguishable to callers. Only the kind is logged.
		ts.logger.Debug("%s token verification failed: %v", kind, err)
		return nil, ErrInvalidCredential
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("%s token verification could not decode claims", kind)
		return nil, ErrInvalidCredential
	}

	if claims.Kind != kind {
		ts.logger.Debug("token kind mismatch: want %s got %s", kind, claims.Kind)
		return nil, ErrInvalidCredential
	}

	return claims, nil
}
