package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	helper "restaurantops_backend/internals/helpers"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newApp(opts AuthJWTOpts) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(AuthJWT(opts))
	app.Get("/me", func(c *fiber.Ctx) error {
		id, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String() + "|" + helper.GetRoleFromToken(c))
	})
	app.Get("/admin", OnlyRoles("admins only", "admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT(t *testing.T) {
	t.Parallel()

	app := newApp(AuthJWTOpts{Secret: secret})
	id := uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	require.Equal(t, fiber.StatusOK, get(t, app, "/me", sign(t, jwt.MapClaims{"id": id.String(), "role": "employee", "exp": exp})))
	require.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", ""))
	require.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "not-a-token"))
	require.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", sign(t, jwt.MapClaims{"id": id.String(), "exp": time.Now().Add(-time.Hour).Unix()})))
	require.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", sign(t, jwt.MapClaims{"role": "admin", "exp": exp})))
}

func TestOnlyRoles(t *testing.T) {
	t.Parallel()

	app := newApp(AuthJWTOpts{Secret: secret})
	exp := time.Now().Add(time.Hour).Unix()

	require.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", sign(t, jwt.MapClaims{"id": uuid.NewString(), "role": "Director", "exp": exp})))
	require.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", sign(t, jwt.MapClaims{"id": uuid.NewString(), "role": "admin", "exp": exp})))
}

func TestActiveChecker(t *testing.T) {
	t.Parallel()

	app := newApp(AuthJWTOpts{Secret: secret, ActiveChecker: func(context.Context, uuid.UUID) error { return ErrInactive }})
	tok := sign(t, jwt.MapClaims{"id": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix()})
	require.Equal(t, fiber.StatusForbidden, get(t, app, "/me", tok))
}

func TestAuthJWTPanicsWithoutSecret(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { AuthJWT(AuthJWTOpts{}) })
}
