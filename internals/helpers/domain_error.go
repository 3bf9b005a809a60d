package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
)

// JsonDomainError renders a lifecycle error with the status lifecycle.HTTPStatus picks.
// Validation errors list unanswered questions under errors.missing.
func JsonDomainError(c *fiber.Ctx, err error) error {
	var ve *lifecycle.ValidationError
	if errors.As(err, &ve) {
		fields := map[string][]string{}
		if labels := ve.Labels(); len(labels) > 0 {
			fields["missing"] = labels
		}
		for k, msg := range ve.Fields {
			fields[k] = append(fields[k], msg)
		}
		return JsonValidationError(c, err.Error(), fields)
	}

	status := lifecycle.HTTPStatus(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	code := ""
	switch lifecycle.KindOf(err) {
	case lifecycle.KindGuard:
		code = "GUARD_VIOLATION"
	case lifecycle.KindTransient:
		if fe == nil {
			code = "TRANSIENT"
		}
	}
	return JsonErrorDetail(c, status, err.Error(), code, nil)
}

// ParamUUID parses a path parameter; a malformed value is a ValidationError.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, lifecycle.FieldError("parse_params", name, "must be a UUID")
	}
	return id, nil
}
