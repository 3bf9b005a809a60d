package helper

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
)

func TestResolvePaging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  Paging
	}{
		{"", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
		{"?page=3&per_page=10", Paging{Page: 3, PerPage: 10, Offset: 20, Limit: 10}},
		{"?page=0&limit=500", Paging{Page: 1, PerPage: 100, Offset: 0, Limit: 100}},
	}
	for _, tt := range tests {
		app := fiber.New()
		var got Paging
		app.Get("/", func(c *fiber.Ctx) error {
			got = ResolvePaging(c, 20, 100)
			return nil
		})
		_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.query)
	}
}

func TestBuildPagination(t *testing.T) {
	t.Parallel()

	p := BuildPagination(45, Paging{Page: 2, PerPage: 20}, 20)
	require.Equal(t, 3, p.TotalPages)
	require.True(t, p.HasNext)
	require.True(t, p.HasPrev)
}

func TestValidationErrorMapUsesJSONNames(t *testing.T) {
	t.Parallel()

	type body struct {
		EvaluatorID string `json:"evaluatorId" validate:"required,uuid"`
	}
	fields := ValidationErrorMap(Validate.Struct(body{EvaluatorID: "nope"}))
	require.Equal(t, []string{"must be a UUID"}, fields["evaluatorId"])
}

func TestErrorHandlerShape(t *testing.T) {
	t.Parallel()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusUnauthorized, "Invalid token") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	require.False(t, body.Success)
	require.Equal(t, "UNAUTHORIZED", body.ErrorCode)
	require.Equal(t, "Invalid token", body.Message)
}

func TestGetUserIDFromToken(t *testing.T) {
	t.Parallel()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/:v", func(c *fiber.Ctx) error {
		if v := c.Params("v"); v != "none" {
			c.Locals(LocUserID, v)
		}
		id, err := GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})

	for path, code := range map[string]int{
		"/none":                                 fiber.StatusUnauthorized,
		"/garbage":                              fiber.StatusBadRequest,
		"/0b4f4c5c-8a36-4b8e-9b8e-1d2f3a4b5c6d": fiber.StatusOK,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		require.Equal(t, code, resp.StatusCode, path)
	}
}

func TestJsonDomainError(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/:kind", func(c *fiber.Ctx) error {
		switch c.Params("kind") {
		case "missing":
			return JsonDomainError(c, &lifecycle.ValidationError{Missing: []lifecycle.MissingAnswer{{Label: "Section 1 - Upsells"}}})
		case "guard":
			return JsonDomainError(c, lifecycle.NewGuardViolation("acknowledge", "in_review_session", "not completed"))
		case "gone":
			return JsonDomainError(c, lifecycle.NewNotFound("evaluation", "x"))
		default:
			return JsonDomainError(c, lifecycle.NewTransient("db", errors.New("down")))
		}
	})

	cases := map[string]struct {
		status int
		code   string
	}{
		"missing": {fiber.StatusBadRequest, "VALIDATION_ERROR"},
		"guard":   {fiber.StatusForbidden, "GUARD_VIOLATION"},
		"gone":    {fiber.StatusNotFound, "NOT_FOUND"},
		"flaky":   {fiber.StatusServiceUnavailable, "TRANSIENT"},
	}
	for path, want := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+path, nil))
		require.NoError(t, err)
		require.Equal(t, want.status, resp.StatusCode, path)

		raw, _ := io.ReadAll(resp.Body)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		require.Equal(t, want.code, body.ErrorCode, path)
		if path == "missing" {
			require.Equal(t, []string{"Section 1 - Upsells"}, body.Errors["missing"])
		}
	}
}
