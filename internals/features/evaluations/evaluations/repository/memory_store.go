package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
	trepo "restaurantops_backend/internals/features/evaluations/templates/repository"
)

// MemoryStore keeps evaluations in process with the same compare-and-swap
// semantics as GormStore. Selected with EVALUATION_STORE=memory.
type MemoryStore struct {
	*trepo.Memory

	mu    sync.RWMutex
	evals map[uuid.UUID]lifecycle.Evaluation
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Memory: trepo.NewMemory(),
		evals:  map[uuid.UUID]lifecycle.Evaluation{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) GetEvaluation(_ context.Context, id uuid.UUID) (lifecycle.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.evals[id]
	if !ok {
		return lifecycle.Evaluation{}, lifecycle.NewNotFound("evaluation", id.String())
	}
	return ev.Clone(), nil
}

func (s *MemoryStore) CreateEvaluation(_ context.Context, ev *lifecycle.Evaluation) error {
	s.mu.Lock()
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	now := s.now()
	ev.CreatedAt, ev.UpdatedAt = now, now
	s.evals[ev.ID] = ev.Clone()
	s.mu.Unlock()

	s.Memory.Reference(ev.TemplateID)
	return nil
}

func (s *MemoryStore) UpdateEvaluation(_ context.Context, action lifecycle.Action, prev, next lifecycle.Evaluation) (lifecycle.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.evals[prev.ID]
	if !ok {
		return prev, lifecycle.NewNotFound("evaluation", prev.ID.String())
	}
	if cur.Status != prev.Status || cur.EvaluatorID != prev.EvaluatorID ||
		cur.Acknowledgement.Acknowledged != prev.Acknowledgement.Acknowledged {
		return cur.Clone(), lifecycle.NewGuardViolation(action, cur.Status,
			fmt.Sprintf("evaluation changed concurrently (was %s)", prev.Status))
	}

	stored := next.Clone()
	stored.ID, stored.EmployeeID, stored.TemplateID = cur.ID, cur.EmployeeID, cur.TemplateID
	stored.ScheduledDate, stored.CreatedAt = cur.ScheduledDate, cur.CreatedAt
	stored.UpdatedAt = s.now()
	s.evals[cur.ID] = stored
	return stored.Clone(), nil
}

func (s *MemoryStore) ListEvaluations(_ context.Context, f ListFilter) ([]lifecycle.Evaluation, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := []lifecycle.Evaluation{}
	for _, ev := range s.evals {
		if f.EmployeeID != nil && ev.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.EvaluatorID != nil && ev.EvaluatorID != *f.EvaluatorID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, ev.Status) {
			continue
		}
		match = append(match, ev.Clone())
	}
	sort.Slice(match, func(i, j int) bool { return match[i].ScheduledDate.Before(match[j].ScheduledDate) })

	total := int64(len(match))
	if f.Offset >= len(match) {
		return []lifecycle.Evaluation{}, total, nil
	}
	end := len(match)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return match[f.Offset:end], total, nil
}

func (s *MemoryStore) ListUnacknowledged(_ context.Context, completedBefore, remindedBefore time.Time, limit int) ([]lifecycle.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []lifecycle.Evaluation{}
	for _, ev := range s.evals {
		if ev.Status != lifecycle.StatusCompleted || ev.Acknowledgement.Acknowledged {
			continue
		}
		if ev.CompletedAt == nil || !ev.CompletedAt.Before(completedBefore) {
			continue
		}
		if ev.LastReminderAt != nil && !ev.LastReminderAt.Before(remindedBefore) {
			continue
		}
		out = append(out, ev.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(*out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func containsStatus(list []lifecycle.Status, s lifecycle.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
