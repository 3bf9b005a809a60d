package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/evaluations/dto"
	"restaurantops_backend/internals/features/evaluations/evaluations/service"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	helper "restaurantops_backend/internals/helpers"
)

type EvaluationController struct {
	Service *service.Service
}

func NewEvaluationController(svc *service.Service) *EvaluationController {
	return &EvaluationController{Service: svc}
}

// actor resolves the caller from JWT locals against the directory.
func (ctrl *EvaluationController) actor(c *fiber.Ctx) (lifecycle.Actor, error) {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return lifecycle.Actor{}, err
	}
	return ctrl.Service.ResolveActor(c.UserContext(), lifecycle.Actor{ID: id, Role: helper.GetRoleFromToken(c)})
}

// begin extracts the caller and the :id param, rendering any failure itself.
// ok=false means the response is already written.
func (ctrl *EvaluationController) begin(c *fiber.Ctx) (lifecycle.Actor, uuid.UUID, bool, error) {
	actor, err := ctrl.actor(c)
	if err != nil {
		return actor, uuid.Nil, false, renderErr(c, err)
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return actor, uuid.Nil, false, helper.JsonDomainError(c, err)
	}
	return actor, id, true, nil
}

func renderErr(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	return helper.JsonDomainError(c, err)
}

func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, helper.JsonValidationError(c, "invalid body", map[string][]string{"body": {err.Error()}})
	}
	if err := helper.Validate.Struct(out); err != nil {
		return false, helper.JsonValidationError(c, "invalid request", helper.ValidationErrorMap(err))
	}
	return true, nil
}

func (ctrl *EvaluationController) reply(c *fiber.Ctx, message string, d service.Detail, err error) error {
	if err != nil {
		return renderErr(c, err)
	}
	return helper.JsonOK(c, message, dto.FromDetail(d))
}

// GET /api/u/evaluations/:id
func (ctrl *EvaluationController) GetEvaluation(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	d, err := ctrl.Service.Get(c.UserContext(), actor, id)
	return ctrl.reply(c, "evaluation", d, err)
}

// GET /api/u/evaluations?scope=mine|team|all&status=a,b
func (ctrl *EvaluationController) ListEvaluations(c *fiber.Ctx) error {
	actor, err := ctrl.actor(c)
	if err != nil {
		return renderErr(c, err)
	}

	var statuses []lifecycle.Status
	for _, raw := range strings.Split(c.Query("status"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		st := lifecycle.Status(raw)
		if !st.Valid() {
			return helper.JsonValidationError(c, "invalid status filter", map[string][]string{"status": {"unknown status " + raw}})
		}
		statuses = append(statuses, st)
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctrl.Service.List(c.UserContext(), actor, service.ListQuery{
		Scope:    service.Scope(strings.ToLower(c.Query("scope", string(service.ScopeMine)))),
		Statuses: statuses,
		Offset:   p.Offset,
		Limit:    p.Limit,
	})
	if err != nil {
		return renderErr(c, err)
	}
	return helper.JsonList(c, "evaluations", dto.ToSummaries(rows), helper.BuildPagination(total, p, len(rows)))
}

// POST /api/u/evaluations/:id/self-evaluation
func (ctrl *EvaluationController) SubmitSelfEvaluation(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	var req dto.SubmitSelfEvaluationRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	d, err := ctrl.Service.SubmitSelfEvaluation(c.UserContext(), actor, id, req.Evaluation)
	return ctrl.reply(c, "self-evaluation submitted", d, err)
}

// POST /api/u/evaluations/:id/schedule-review
func (ctrl *EvaluationController) ScheduleReview(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	var req dto.ScheduleReviewRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	at, err := dto.ParseDate("reviewSessionDate", req.ReviewSessionDate)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	d, err := ctrl.Service.ScheduleReview(c.UserContext(), actor, id, at)
	return ctrl.reply(c, "review scheduled", d, err)
}

// POST /api/u/evaluations/:id/start-review
func (ctrl *EvaluationController) StartReview(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	d, err := ctrl.Service.StartReview(c.UserContext(), actor, id)
	return ctrl.reply(c, "review started", d, err)
}

// PUT /api/u/evaluations/:id/draft
func (ctrl *EvaluationController) SaveDraft(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	var req dto.SaveDraftRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	d, err := ctrl.Service.SaveDraft(c.UserContext(), actor, id, req.ToPayload())
	return ctrl.reply(c, "draft saved", d, err)
}

// POST /api/u/evaluations/:id/complete
func (ctrl *EvaluationController) CompleteReview(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	var req dto.CompleteReviewRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	d, err := ctrl.Service.CompleteReview(c.UserContext(), actor, id, req.Evaluation, req.OverallComments)
	return ctrl.reply(c, "review completed", d, err)
}

// POST /api/u/evaluations/:id/acknowledge
func (ctrl *EvaluationController) Acknowledge(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	d, err := ctrl.Service.Acknowledge(c.UserContext(), actor, id)
	return ctrl.reply(c, "evaluation acknowledged", d, err)
}

// POST /api/u/evaluations/:id/notify-unacknowledged
func (ctrl *EvaluationController) NotifyUnacknowledged(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	d, err := ctrl.Service.NotifyUnacknowledged(c.UserContext(), actor, id)
	return ctrl.reply(c, "reminder sent", d, err)
}

// PATCH /api/a/evaluations/:id/evaluator
func (ctrl *EvaluationController) ReassignEvaluator(c *fiber.Ctx) error {
	actor, id, ok, err := ctrl.begin(c)
	if !ok {
		return err
	}
	var req dto.ReassignEvaluatorRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	d, err := ctrl.Service.ReassignEvaluator(c.UserContext(), actor, id, uuid.MustParse(req.EvaluatorID))
	return ctrl.reply(c, "evaluator reassigned", d, err)
}

// POST /api/a/evaluations
func (ctrl *EvaluationController) CreateEvaluation(c *fiber.Ctx) error {
	actor, err := ctrl.actor(c)
	if err != nil {
		return renderErr(c, err)
	}
	var req dto.CreateEvaluationRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	d, err := ctrl.Service.Create(c.UserContext(), actor, in)
	if err != nil {
		return renderErr(c, err)
	}
	return helper.JsonCreated(c, "evaluation created", dto.FromDetail(d))
}
