package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/constants"
	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/evaluations/controller"
	"restaurantops_backend/internals/features/evaluations/evaluations/dto"
	"restaurantops_backend/internals/features/evaluations/evaluations/repository"
	"restaurantops_backend/internals/features/evaluations/evaluations/route"
	"restaurantops_backend/internals/features/evaluations/evaluations/service"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	tmodel "restaurantops_backend/internals/features/evaluations/templates/model"
	umodel "restaurantops_backend/internals/features/users/user/model"
	uservice "restaurantops_backend/internals/features/users/user/service"
	helper "restaurantops_backend/internals/helpers"
	authMiddleware "restaurantops_backend/internals/middlewares/auth"
)

const secret = "controller-test-secret"

type env struct {
	app       *fiber.App
	tpl       tmodel.Template
	employee  uuid.UUID
	evaluator uuid.UUID
	admin     uuid.UUID
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Code    string              `json:"error_code"`
	Errors  map[string][]string `json:"errors"`
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	scale := tmodel.GradingScale{Name: "3-point", Grades: []tmodel.Grade{
		{Value: 1, Label: "Low"}, {Value: 2, Label: "Mid"}, {Value: 3, Label: "High"},
	}}
	require.NoError(t, store.CreateGradingScale(ctx, &scale))
	sid := scale.ID
	tpl := tmodel.Template{Name: "Kitchen", Sections: []tmodel.Section{
		{Title: "Prep", Questions: []tmodel.Question{
			{Text: "Knife skills", Type: tmodel.QuestionRating, Required: true, GradingScaleID: &sid},
			{Text: "Mise en place", Type: tmodel.QuestionRating, Required: true, GradingScaleID: &sid},
		}},
	}}
	require.NoError(t, store.CreateTemplate(ctx, &tpl))

	e := &env{tpl: tpl, employee: uuid.New(), evaluator: uuid.New(), admin: uuid.New()}
	dir := uservice.NewMemoryDirectory(
		umodel.UserModel{ID: e.employee, UserName: "line", FullName: "Line Cook", Role: constants.RoleEmployee, IsActive: true},
		umodel.UserModel{ID: e.evaluator, UserName: "chef", FullName: "Head Chef", Role: constants.RoleLeader, IsActive: true},
		umodel.UserModel{ID: e.admin, UserName: "ops", Role: constants.RoleAdmin, IsActive: true},
	)

	ctrl := controller.NewEvaluationController(service.New(store, dir, nil, zerolog.Nop()))
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	auth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{Secret: secret})
	route.EvaluationUserRoutes(app.Group("/api/u", auth), ctrl)
	route.EvaluationAdminRoutes(app.Group("/api/a", auth), ctrl)
	e.app = app
	return e
}

func token(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func (e *env) do(t *testing.T, as uuid.UUID, role, method, path string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+token(t, as, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out envelope
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func decode(t *testing.T, env envelope) dto.EvaluationResponse {
	t.Helper()
	var d dto.EvaluationResponse
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d
}

func (e *env) create(t *testing.T) uuid.UUID {
	t.Helper()
	code, out := e.do(t, e.admin, constants.RoleAdmin, "POST", "/api/a/evaluations", map[string]any{
		"employeeId":    e.employee,
		"evaluatorId":   e.evaluator,
		"templateId":    e.tpl.ID,
		"scheduledDate": "2026-07-01",
	})
	require.Equal(t, fiber.StatusCreated, code, out.Message)
	d := decode(t, out)
	require.Equal(t, lifecycle.StatusPendingSelfEvaluation, d.Status)
	return d.ID
}

func TestEvaluationHTTPLifecycle(t *testing.T) {
	t.Parallel()
	e := setup(t)
	id := e.create(t)
	base := "/api/u/evaluations/" + id.String()

	code, out := e.do(t, e.employee, constants.RoleEmployee, "GET", base, nil)
	require.Equal(t, fiber.StatusOK, code)
	d := decode(t, out)
	require.Equal(t, "Line Cook", d.Employee.Name)
	require.Len(t, d.GradingScales, 1)
	require.NotNil(t, d.Editable)
	require.Contains(t, d.AllowedActions, lifecycle.ActionSubmitSelfEvaluation)

	code, out = e.do(t, e.employee, constants.RoleEmployee, "POST", base+"/self-evaluation",
		map[string]any{"evaluation": map[string]any{"0-0": 2}})
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Equal(t, []string{"Section 1 - Mise en place"}, out.Errors["missing"])

	code, _ = e.do(t, e.employee, constants.RoleEmployee, "POST", base+"/self-evaluation",
		map[string]any{"evaluation": map[string]any{"0-0": 2, "0-1": 3}})
	require.Equal(t, fiber.StatusOK, code)

	code, out = e.do(t, e.employee, constants.RoleEmployee, "POST", base+"/schedule-review",
		map[string]any{"reviewSessionDate": "2026-07-02"})
	require.Equal(t, fiber.StatusForbidden, code)
	require.Equal(t, "GUARD_VIOLATION", out.Code)

	code, out = e.do(t, e.evaluator, constants.RoleLeader, "POST", base+"/schedule-review",
		map[string]any{"reviewSessionDate": "next tuesday"})
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, out.Errors, "reviewSessionDate")

	code, out = e.do(t, e.evaluator, constants.RoleLeader, "POST", base+"/schedule-review",
		map[string]any{"reviewSessionDate": "2026-07-02T15:00:00Z"})
	require.Equal(t, fiber.StatusOK, code)
	d = decode(t, out)
	require.Equal(t, lifecycle.StatusPendingManagerReview, d.Status)
	require.NotNil(t, d.ReviewSessionDate)

	code, _ = e.do(t, e.evaluator, constants.RoleLeader, "POST", base+"/start-review", nil)
	require.Equal(t, fiber.StatusOK, code)

	code, out = e.do(t, e.evaluator, constants.RoleLeader, "PUT", base+"/draft", map[string]any{
		"managerEvaluation":   map[string]any{"0-0": 3},
		"overallComments":     "halfway",
		"preventStatusChange": true,
	})
	require.Equal(t, fiber.StatusOK, code)
	d = decode(t, out)
	require.Equal(t, lifecycle.StatusInReviewSession, d.Status)
	require.Equal(t, "halfway", d.DraftComments)

	empty := ""
	code, out = e.do(t, e.evaluator, constants.RoleLeader, "PUT", base+"/draft", dto.SaveDraftRequest{
		ManagerEvaluation: answers.Map{},
		OverallComments:   &empty,
	})
	require.Equal(t, fiber.StatusOK, code)
	d = decode(t, out)
	require.Equal(t, lifecycle.StatusInReviewSession, d.Status)
	require.Empty(t, d.DraftEvaluation)
	require.Empty(t, d.DraftComments)

	code, out = e.do(t, e.employee, constants.RoleEmployee, "GET", base, nil)
	require.Equal(t, fiber.StatusOK, code)
	require.Empty(t, decode(t, out).DraftEvaluation)

	code, out = e.do(t, e.evaluator, constants.RoleLeader, "POST", base+"/complete", map[string]any{
		"evaluation":      map[string]any{"0-0": 3, "0-1": 3},
		"overallComments": "strong prep",
	})
	require.Equal(t, fiber.StatusOK, code)
	d = decode(t, out)
	require.Equal(t, lifecycle.StatusCompleted, d.Status)
	require.NotNil(t, d.Scores.Manager)
	require.Equal(t, 100, d.Scores.Manager.Percentage)
	require.Equal(t, 83, d.Scores.Self.Percentage)

	code, _ = e.do(t, e.evaluator, constants.RoleLeader, "POST", base+"/complete", map[string]any{
		"evaluation":      map[string]any{"0-0": 3, "0-1": 3},
		"overallComments": "again",
	})
	require.Equal(t, fiber.StatusForbidden, code)

	code, _ = e.do(t, e.evaluator, constants.RoleLeader, "POST", base+"/notify-unacknowledged", nil)
	require.Equal(t, fiber.StatusOK, code)

	code, out = e.do(t, e.employee, constants.RoleEmployee, "POST", base+"/acknowledge", nil)
	require.Equal(t, fiber.StatusOK, code)
	require.True(t, decode(t, out).Acknowledgement.Acknowledged)
}

func TestEvaluationHTTPErrors(t *testing.T) {
	t.Parallel()
	e := setup(t)

	code, _ := e.do(t, uuid.Nil, "", "GET", "/api/u/evaluations/"+uuid.NewString(), nil)
	require.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = e.do(t, e.employee, constants.RoleEmployee, "GET", "/api/u/evaluations/"+uuid.NewString(), nil)
	require.Equal(t, fiber.StatusNotFound, code)

	code, _ = e.do(t, e.employee, constants.RoleEmployee, "GET", "/api/u/evaluations/nope", nil)
	require.Equal(t, fiber.StatusBadRequest, code)

	stranger := uuid.New()
	code, _ = e.do(t, stranger, constants.RoleAdmin, "GET", "/api/u/evaluations?scope=mine", nil)
	require.Equal(t, fiber.StatusForbidden, code)

	code, out := e.do(t, e.employee, constants.RoleEmployee, "GET", "/api/u/evaluations?status=archived", nil)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, out.Errors, "status")

	code, _ = e.do(t, e.employee, constants.RoleEmployee, "POST", "/api/a/evaluations", map[string]any{})
	require.Equal(t, fiber.StatusForbidden, code)
}

func TestEvaluationHTTPListAndReassign(t *testing.T) {
	t.Parallel()
	e := setup(t)
	id := e.create(t)

	code, out := e.do(t, e.employee, constants.RoleEmployee, "GET", "/api/u/evaluations?scope=mine&status=pending_self_evaluation", nil)
	require.Equal(t, fiber.StatusOK, code)
	var rows []dto.EvaluationSummary
	require.NoError(t, json.Unmarshal(out.Data, &rows))
	require.Len(t, rows, 1)
	require.Equal(t, id, rows[0].ID)

	code, out = e.do(t, e.evaluator, constants.RoleLeader, "GET", "/api/u/evaluations?scope=team", nil)
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(out.Data, &rows))
	require.Len(t, rows, 1)

	code, out = e.do(t, e.admin, constants.RoleAdmin, "PATCH", "/api/a/evaluations/"+id.String()+"/evaluator",
		map[string]any{"evaluatorId": "not-a-uuid"})
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, out.Errors, "evaluatorId")

	code, out = e.do(t, e.admin, constants.RoleAdmin, "PATCH", "/api/a/evaluations/"+id.String()+"/evaluator",
		map[string]any{"evaluatorId": e.employee})
	require.Equal(t, fiber.StatusForbidden, code, out.Message)

	code, _ = e.do(t, e.evaluator, constants.RoleLeader, "PATCH", "/api/a/evaluations/"+id.String()+"/evaluator",
		map[string]any{"evaluatorId": e.evaluator})
	require.Equal(t, fiber.StatusForbidden, code)
}
