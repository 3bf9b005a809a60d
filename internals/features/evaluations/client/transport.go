package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
)

// Transport sends one JSON request to the evaluation API. On success out
// receives the "data" field of the response envelope. Failures are lifecycle
// errors so callers can branch on lifecycle.KindOf.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// HTTPTransport talks to the Fiber API with fiber.Agent. The context deadline
// becomes the request timeout; cancellation without a deadline is only checked
// before the request is sent.
type HTTPTransport struct {
	BaseURL string
	// Token returns the bearer token for each request. Nil sends none.
	Token     func() string
	UserAgent string
}

func NewHTTPTransport(baseURL string, token func() string) *HTTPTransport {
	return &HTTPTransport{BaseURL: strings.TrimRight(baseURL, "/"), Token: token, UserAgent: "restaurantops-client"}
}

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Data      json.RawMessage     `json:"data"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
}

func (t *HTTPTransport) Do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path
	if err := ctx.Err(); err != nil {
		return lifecycle.NewTransient(op, err)
	}

	var raw []byte
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		raw = b
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(t.BaseURL + path)
	a.Name = t.UserAgent
	if t.Token != nil {
		if tok := t.Token(); tok != "" {
			a.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}
	if raw != nil {
		a.ContentType(fiber.MIMEApplicationJSON)
		a.Body(raw)
	}
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			fiber.ReleaseAgent(a)
			return lifecycle.NewTransient(op, context.DeadlineExceeded)
		}
		a.Timeout(left)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return lifecycle.NewTransient(op, err)
	}

	// Bytes releases the agent.
	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return lifecycle.NewTransient(op, errors.Join(errs...))
	}
	return decodeResponse(op, code, resp, out)
}

func decodeResponse(op string, code int, resp []byte, out any) error {
	var env envelope
	if len(resp) > 0 {
		if err := sonic.Unmarshal(resp, &env); err != nil && code < 300 {
			return lifecycle.NewTransient(op, fmt.Errorf("decode response: %w", err))
		}
	}
	if code >= 200 && code < 300 {
		if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := sonic.Unmarshal(env.Data, out); err != nil {
			return lifecycle.NewTransient(op, fmt.Errorf("decode data: %w", err))
		}
		return nil
	}
	return errorFromStatus(op, code, env)
}

// errorFromStatus rebuilds the typed failure from the error envelope.
func errorFromStatus(op string, code int, env envelope) error {
	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("status %d", code)
	}
	switch {
	case code == fiber.StatusBadRequest:
		ve := &lifecycle.ValidationError{Fields: map[string]string{}}
		for field, msgs := range env.Errors {
			if field == "missing" {
				for _, label := range msgs {
					ve.Missing = append(ve.Missing, lifecycle.MissingAnswer{Label: label})
				}
				continue
			}
			ve.Fields[field] = strings.Join(msgs, "; ")
		}
		if len(ve.Missing) == 0 && len(ve.Fields) == 0 {
			ve.Fields["request"] = msg
		}
		return ve
	case code == fiber.StatusUnauthorized || code == fiber.StatusForbidden:
		return &lifecycle.GuardViolation{Reason: msg}
	case code == fiber.StatusNotFound:
		return lifecycle.NewNotFound("resource", op)
	default:
		return lifecycle.NewTransient(op, errors.New(msg))
	}
}
