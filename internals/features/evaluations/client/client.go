// Package client is the consumer-side mutation layer for the evaluation API.
// Every mutation snapshots the cached document, optionally applies a local
// update whose result is known in advance, restores the snapshot exactly on
// failure and refetches the document after it settles.
package client

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/evaluations/dto"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
)

const (
	UserPrefix  = "/api/u"
	AdminPrefix = "/api/a"

	DefaultTimeout = 30 * time.Second
)

// ErrInFlight rejects a second copy of an action that has not settled yet.
var ErrInFlight = errors.New("client: action already in flight")

type Options struct {
	// Timeout bounds every request. A timeout is a failure and rolls back. Default 30s.
	Timeout time.Duration
	Logger  zerolog.Logger
}

type Client struct {
	transport Transport
	cache     *Cache
	timeout   time.Duration
	log       zerolog.Logger

	fetches singleflight.Group

	mu       sync.Mutex
	inflight map[string]bool
}

func New(t Transport, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		transport: t,
		cache:     NewCache(),
		timeout:   opts.Timeout,
		log:       opts.Logger,
		inflight:  map[string]bool{},
	}
}

func (c *Client) Cache() *Cache { return c.cache }

func evaluationPath(id uuid.UUID) string {
	return UserPrefix + "/evaluations/" + id.String()
}

// Get always asks the server. Concurrent calls for the same id share one request.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (dto.EvaluationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.fetch(ctx, id)
}

// Cached returns the last known document without a request.
func (c *Client) Cached(id uuid.UUID) (dto.EvaluationResponse, bool) {
	return c.cache.Get(id)
}

func (c *Client) fetch(ctx context.Context, id uuid.UUID) (dto.EvaluationResponse, error) {
	v, err, _ := c.fetches.Do(id.String(), func() (any, error) {
		var ev dto.EvaluationResponse
		if err := c.transport.Do(ctx, fiber.MethodGet, evaluationPath(id), nil, &ev); err != nil {
			if lifecycle.KindOf(err) == lifecycle.KindNotFound {
				c.cache.Delete(id)
			}
			return nil, err
		}
		c.cache.Put(ev)
		return ev, nil
	})
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	return CloneEvaluation(v.(dto.EvaluationResponse)), nil
}

type ListQuery struct {
	Scope   string
	Status  lifecycle.Status
	Page    int
	PerPage int
}

func (q ListQuery) path() string {
	v := url.Values{}
	if q.Scope != "" {
		v.Set("scope", q.Scope)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	p := UserPrefix + "/evaluations"
	if enc := v.Encode(); enc != "" {
		p += "?" + enc
	}
	return p
}

// List serves a cached page until a mutation invalidates the list caches.
func (c *Client) List(ctx context.Context, q ListQuery) ([]dto.EvaluationSummary, error) {
	key := q.path()
	if rows, ok := c.cache.List(key); ok {
		return rows, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	var rows []dto.EvaluationSummary
	if err := c.transport.Do(ctx, fiber.MethodGet, key, nil, &rows); err != nil {
		return nil, err
	}
	c.cache.PutList(key, rows)
	return rows, nil
}

type mutation struct {
	id     uuid.UUID
	action lifecycle.Action
	method string
	path   string
	body   any
	// optimistic edits the cached copy before the request. Nil waits for the server.
	optimistic func(*dto.EvaluationResponse)
}

func (c *Client) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return false
	}
	c.inflight[key] = true
	return true
}

func (c *Client) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

func (c *Client) mutate(ctx context.Context, m mutation) (dto.EvaluationResponse, error) {
	key := m.id.String() + ":" + string(m.action)
	if !c.acquire(key) {
		return dto.EvaluationResponse{}, ErrInFlight
	}
	defer c.release(key)

	snapshot, cached := c.cache.Get(m.id)
	if cached && m.optimistic != nil {
		next := CloneEvaluation(snapshot)
		m.optimistic(&next)
		c.cache.restore(next)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	var out dto.EvaluationResponse
	err := c.transport.Do(reqCtx, m.method, m.path, m.body, &out)
	cancel()

	if err != nil {
		var gv *lifecycle.GuardViolation
		if errors.As(err, &gv) && gv.Action == "" {
			gv.Action = m.action
		}
		var ve *lifecycle.ValidationError
		if errors.As(err, &ve) && ve.Action == "" {
			ve.Action = m.action
		}
		if cached {
			c.cache.restore(snapshot)
		} else {
			c.cache.Delete(m.id)
		}
		c.log.Warn().Err(err).
			Str("evaluation_id", m.id.String()).
			Str("action", string(m.action)).
			Str("kind", string(lifecycle.KindOf(err))).
			Msg("mutation failed, rolled back")
		c.settle(m.id)
		return dto.EvaluationResponse{}, err
	}

	if out.ID == m.id {
		c.cache.Put(out)
	}
	c.settle(m.id)
	if latest, ok := c.cache.Get(m.id); ok {
		return latest, nil
	}
	return out, nil
}

// settle invalidates the document and every list, then refetches the document.
// A failed refetch leaves the current value in place, marked stale.
func (c *Client) settle(id uuid.UUID) {
	c.cache.InvalidateLists()
	c.cache.Invalidate(id)
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if _, err := c.fetch(ctx, id); err != nil {
		c.log.Debug().Err(err).Str("evaluation_id", id.String()).Msg("refetch after settle failed")
	}
}

func (c *Client) SubmitSelfEvaluation(ctx context.Context, id uuid.UUID, ans answers.Map) (dto.EvaluationResponse, error) {
	return c.mutate(ctx, mutation{
		id:     id,
		action: lifecycle.ActionSubmitSelfEvaluation,
		method: fiber.MethodPost,
		path:   evaluationPath(id) + "/self-evaluation",
		body:   dto.SubmitSelfEvaluationRequest{Evaluation: ans},
	})
}

func (c *Client) ScheduleReview(ctx context.Context, id uuid.UUID, at time.Time) (dto.EvaluationResponse, error) {
	at = at.UTC()
	return c.mutate(ctx, mutation{
		id:     id,
		action: lifecycle.ActionScheduleReview,
		method: fiber.MethodPost,
		path:   evaluationPath(id) + "/schedule-review",
		body:   dto.ScheduleReviewRequest{ReviewSessionDate: at.Format(time.RFC3339)},
		optimistic: func(ev *dto.EvaluationResponse) {
			ev.ReviewSessionDate = &at
		},
	})
}

func (c *Client) StartReview(ctx context.Context, id uuid.UUID) (dto.EvaluationResponse, error) {
	return c.mutate(ctx, mutation{
		id:     id,
		action: lifecycle.ActionStartReview,
		method: fiber.MethodPost,
		path:   evaluationPath(id) + "/start-review",
		optimistic: func(ev *dto.EvaluationResponse) {
			ev.Status = lifecycle.StatusInReviewSession
		},
	})
}

func (c *Client) SaveDraft(ctx context.Context, id uuid.UUID, req dto.SaveDraftRequest) (dto.EvaluationResponse, error) {
	action := req.ToPayload().DraftAction()
	return c.mutate(ctx, mutation{
		id:     id,
		action: action,
		method: fiber.MethodPut,
		path:   evaluationPath(id) + "/draft",
		body:   req,
		optimistic: func(ev *dto.EvaluationResponse) {
			var ans answers.Map
			if action == lifecycle.ActionSaveManagerDraft {
				ans = req.ManagerEvaluation.Clone()
				ev.DraftEvaluation = ans
				if req.OverallComments != nil {
					ev.DraftComments = *req.OverallComments
				}
			} else {
				ans = req.SelfEvaluation.Clone()
				ev.SelfEvaluation = ans
			}
			if ev.Editable != nil {
				ev.Editable.Answers = ans.Clone()
				if req.OverallComments != nil {
					ev.Editable.Comments = *req.OverallComments
				}
			}
		},
	})
}

// CompleteReview is never applied locally: completion depends on server-side checks.
func (c *Client) CompleteReview(ctx context.Context, id uuid.UUID, ans answers.Map, comments string) (dto.EvaluationResponse, error) {
	return c.mutate(ctx, mutation{
		id:     id,
		action: lifecycle.ActionCompleteReview,
		method: fiber.MethodPost,
		path:   evaluationPath(id) + "/complete",
		body:   dto.CompleteReviewRequest{Evaluation: ans, OverallComments: comments},
	})
}

func (c *Client) Acknowledge(ctx context.Context, id uuid.UUID) (dto.EvaluationResponse, error) {
	return c.mutate(ctx, mutation{
		id:     id,
		action: lifecycle.ActionAcknowledge,
		method: fiber.MethodPost,
		path:   evaluationPath(id) + "/acknowledge",
	})
}

func (c *Client) NotifyUnacknowledged(ctx context.Context, id uuid.UUID) (dto.EvaluationResponse, error) {
	return c.mutate(ctx, mutation{
		id:     id,
		action: lifecycle.ActionNotifyUnacknowledged,
		method: fiber.MethodPost,
		path:   evaluationPath(id) + "/notify-unacknowledged",
	})
}

func (c *Client) ReassignEvaluator(ctx context.Context, id, evaluatorID uuid.UUID) (dto.EvaluationResponse, error) {
	return c.mutate(ctx, mutation{
		id:     id,
		action: lifecycle.ActionReassignEvaluator,
		method: fiber.MethodPatch,
		path:   AdminPrefix + "/evaluations/" + id.String() + "/evaluator",
		body:   dto.ReassignEvaluatorRequest{EvaluatorID: evaluatorID.String()},
		optimistic: func(ev *dto.EvaluationResponse) {
			ev.Evaluator = dto.PersonResponse{ID: evaluatorID}
		},
	})
}
