// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "restaurantops_backend/internals/helpers"
	"restaurantops_backend/internals/helpers/logger"
)

// ActiveChecker reports whether the token owner may still act. Nil skips the check.
type ActiveChecker func(ctx context.Context, userID uuid.UUID) error

type AuthJWTOpts struct {
	Secret              string
	ActiveChecker       ActiveChecker
	AllowCookieFallback bool
	Skew                time.Duration
	// SkipPaths are served without a token.
	SkipPaths []string
}

// AuthJWT verifies the HMAC access token and stores id and role in Locals.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	if opts.Secret == "" {
		panic("auth: empty JWT secret")
	}
	if opts.Skew == 0 {
		opts.Skew = 30 * time.Second
	}
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}

		tokenString, err := extractBearerToken(c, opts.AllowCookieFallback)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{"HS256", "HS384", "HS512"}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(opts.Secret), nil
		}); err != nil {
			logger.L().Debug().Err(err).Str("path", c.Path()).Msg("token parse failed")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, opts.Skew); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}

		if opts.ActiveChecker != nil {
			if err := opts.ActiveChecker(c.UserContext(), userID); err != nil {
				if errors.Is(err, ErrInactive) {
					return fiber.NewError(fiber.StatusForbidden, "Account is deactivated")
				}
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
		}

		c.Locals(helper.LocUserID, userID.String())
		storeBasicClaimsToLocals(c, claims)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}

// ErrInactive is returned by an ActiveChecker for a disabled account.
var ErrInactive = errors.New("user inactive")
