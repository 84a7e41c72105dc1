package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// DefaultContextKey is where RequireAccess stores verified claims in the
// fiber locals.
const DefaultContextKey = "user"

// ErrMissingToken is returned when a protected route gets no usable bearer
// token. Distinct from ErrInvalidCredential: the request never carried a
// credential to verify.
var ErrMissingToken = errors.New("missing or malformed bearer token", errors.CategoryAuth).
	WithTextCode("MISSING_TOKEN").
	WithCode(errors.CodeUnauthorized)

// HTTPControllerRoutes lets consumers remount the endpoints.
type HTTPControllerRoutes struct {
	Register string
	Login    string
	Refresh  string
	Me       string
	Logout   string
}

// HTTPController is the JSON transport over the session flows. It owns
// nothing but parsing, validation, and error rendering; every decision is
// delegated to the SessionAuthenticator.
type HTTPController struct {
	Auther SessionAuthenticator
	Logger Logger
	Routes *HTTPControllerRoutes
}

type HTTPControllerOption func(*HTTPController) *HTTPController

func WithHTTPLogger(l Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func NewHTTPController(auther SessionAuthenticator, opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Auther: auther,
		Logger: defLogger{},
		Routes: &HTTPControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Refresh:  "/auth/refresh",
			Me:       "/auth/me",
			Logout:   "/auth/logout",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing SessionAuthenticator in HTTP controller...")
	}

	return c
}

// RegisterRoutes mounts the session endpoints on the given router.
func (a *HTTPController) RegisterRoutes(app fiber.Router) {
	app.Post(a.Routes.Register, a.RegisterPost)
	app.Post(a.Routes.Login, a.LoginPost)
	app.Post(a.Routes.Refresh, a.RefreshPost)
	app.Get(a.Routes.Me, a.MeGet)
	app.Post(a.Routes.Logout, a.LogoutPost)
}

// RegisterRequest payload
type RegisterRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Name     string `form:"name" json:"name"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Name, validation.Length(0, 120)),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (a *HTTPController) RegisterPost(c *fiber.Ctx) error {
	req := RegisterRequest{}
	if err := c.BodyParser(&req); err != nil {
		return a.renderError(c, errors.Wrap(err, errors.CategoryBadInput, "could not parse registration payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := req.Validate(); err != nil {
		return a.renderError(c, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload").
			WithCode(errors.CodeBadRequest))
	}

	result, err := a.Auther.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (a *HTTPController) LoginPost(c *fiber.Ctx) error {
	req := LoginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return a.renderError(c, errors.Wrap(err, errors.CategoryBadInput, "could not parse login payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := req.Validate(); err != nil {
		return a.renderError(c, errors.Wrap(err, errors.CategoryValidation, "invalid login payload").
			WithCode(errors.CodeBadRequest))
	}

	result, err := a.Auther.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(result)
}

func (a *HTTPController) RefreshPost(c *fiber.Ctx) error {
	req := RefreshRequest{}
	if err := c.BodyParser(&req); err != nil {
		return a.renderError(c, errors.Wrap(err, errors.CategoryBadInput, "could not parse refresh payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := req.Validate(); err != nil {
		return a.renderError(c, errors.Wrap(err, errors.CategoryValidation, "invalid refresh payload").
			WithCode(errors.CodeBadRequest))
	}

	access, err := a.Auther.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(fiber.Map{"access_token": access})
}

func (a *HTTPController) MeGet(c *fiber.Ctx) error {
	token, err := TokenFromHeader(c)
	if err != nil {
		return a.renderError(c, err)
	}

	user, err := a.Auther.Profile(c.UserContext(), token)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(user)
}

func (a *HTTPController) LogoutPost(c *fiber.Ctx) error {
	token, err := TokenFromHeader(c)
	if err != nil {
		return a.renderError(c, err)
	}

	if err := a.Auther.Logout(c.UserContext(), token); err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (a *HTTPController) renderError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"request failed",
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
	)

	return c.Status(statusFor(richErr)).JSON(fiber.Map{
		"error": fiber.Map{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}

func statusFor(richErr *errors.Error) int {
	if richErr.Code > 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return fiber.StatusUnauthorized
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// TokenFromHeader extracts the bearer token from the Authorization header.
func TokenFromHeader(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMissingToken
	}

	return strings.TrimSpace(token), nil
}

// RequireAccess verifies the bearer access credential on every request,
// stores the claims in locals under contextKey, and threads them through the
// request-scoped Go context for downstream handlers.
func RequireAccess(verifier CredentialVerifier, contextKey string) fiber.Handler {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}

	return func(c *fiber.Ctx) error {
		token, err := TokenFromHeader(c)
		if err != nil {
			return unauthorized(c, err)
		}

		claims, err := verifier.VerifyAccess(token)
		if err != nil {
			return unauthorized(c, err)
		}

		c.Locals(contextKey, claims)
		c.SetUserContext(WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
			WithCode(errors.CodeUnauthorized)
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": fiber.Map{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}
