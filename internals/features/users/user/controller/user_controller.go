package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"restaurantops_backend/internals/features/users/user/dto"
	"restaurantops_backend/internals/features/users/user/service"
	helper "restaurantops_backend/internals/helpers"
)

type UserController struct {
	Staff  service.Staff
	Logger zerolog.Logger
}

func NewUserController(staff service.Staff, log zerolog.Logger) *UserController {
	return &UserController{Staff: staff, Logger: log}
}

// GET /api/u/users/me
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	u, err := uc.Staff.Lookup(c.UserContext(), id)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonOK(c, "me", dto.FromModel(u))
}

// GET /api/a/users?role=Director
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := uc.Staff.ListUsers(c.UserContext(), strings.TrimSpace(c.Query("role")), p.Offset, p.Limit)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonList(c, "users", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// POST /api/a/users
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonValidationError(c, "invalid body", map[string][]string{"body": {err.Error()}})
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, "invalid user", helper.ValidationErrorMap(err))
	}
	u := req.ToModel()
	if err := uc.Staff.CreateUser(c.UserContext(), &u); err != nil {
		return helper.JsonDomainError(c, err)
	}
	uc.Logger.Info().Str("user_id", u.ID.String()).Str("role", u.Role).Msg("user registered")
	return helper.JsonCreated(c, "user created", dto.FromModel(u))
}

// PATCH /api/a/users/:id
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonValidationError(c, "invalid body", map[string][]string{"body": {err.Error()}})
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, "invalid user", helper.ValidationErrorMap(err))
	}
	u, err := uc.Staff.UpdateUser(c.UserContext(), id, req.Role, req.IsActive)
	if err != nil {
		return helper.JsonDomainError(c, err)
	}
	return helper.JsonUpdated(c, "user updated", dto.FromModel(u))
}
