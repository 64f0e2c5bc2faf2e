package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"brgydocs/internal/config"
	"brgydocs/internal/model"
)

// ActorLocalKey is the key used to store the authenticated model.Actor in Fiber's context locals.
const ActorLocalKey = "actor"

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidActor = errors.New("token does not identify an actor")
)

// Claims are issued by the portal's auth service. Subject is the numeric user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and turns them into actors.
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(cfg config.AuthConfig) (*Authenticator, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth jwt secret is required")
	}
	return &Authenticator{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}, nil
}

func (a *Authenticator) actor(header string) (model.Actor, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return model.Actor{}, errMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...); err != nil {
		return model.Actor{}, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return model.Actor{}, errInvalidActor
	}
	role := model.Role(claims.Role)
	switch role {
	case model.RoleStaff, model.RoleAdmin, model.RoleResident:
	default:
		return model.Actor{}, errInvalidActor
	}
	return model.Actor{ID: id, Role: role}, nil
}

// Require rejects the request with 401 unless it carries a valid token.
func (a *Authenticator) Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		act, err := a.actor(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid bearer token")
		}
		c.Locals(ActorLocalKey, act)
		return c.Next()
	}
}

// Optional attaches the actor when a valid token is present. Requests without
// one proceed anonymously; the release routes rely on this.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if act, err := a.actor(c.Get(fiber.HeaderAuthorization)); err == nil {
			c.Locals(ActorLocalKey, act)
		}
		return c.Next()
	}
}

// RequireRole must run after Require.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		act, ok := ActorFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid bearer token")
		}
		for _, r := range roles {
			if act.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// ActorFrom returns the actor stored by Require or Optional.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	act, ok := c.Locals(ActorLocalKey).(model.Actor)
	return act, ok
}
