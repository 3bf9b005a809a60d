// file: internals/features/evaluations/evaluations/repository/evaluation_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"restaurantops_backend/internals/features/evaluations/evaluations/model"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	trepo "restaurantops_backend/internals/features/evaluations/templates/repository"
)

type ListFilter struct {
	EmployeeID  *uuid.UUID
	EvaluatorID *uuid.UUID
	Statuses    []lifecycle.Status
	Offset      int
	Limit       int
}

// Store persists evaluations. UpdateEvaluation is a compare-and-swap on prev's
// status, evaluator and acknowledgement; a lost race surfaces as a GuardViolation.
type Store interface {
	trepo.Store

	GetEvaluation(ctx context.Context, id uuid.UUID) (lifecycle.Evaluation, error)
	CreateEvaluation(ctx context.Context, ev *lifecycle.Evaluation) error
	UpdateEvaluation(ctx context.Context, action lifecycle.Action, prev, next lifecycle.Evaluation) (lifecycle.Evaluation, error)
	ListEvaluations(ctx context.Context, f ListFilter) ([]lifecycle.Evaluation, int64, error)
	// ListUnacknowledged returns completed, unacknowledged evaluations completed before
	// completedBefore whose last reminder (if any) is older than remindedBefore.
	ListUnacknowledged(ctx context.Context, completedBefore, remindedBefore time.Time, limit int) ([]lifecycle.Evaluation, error)
}

type GormStore struct {
	*trepo.Repository
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{Repository: trepo.New(db), DB: db}
}

func (s *GormStore) GetEvaluation(ctx context.Context, id uuid.UUID) (lifecycle.Evaluation, error) {
	var m model.EvaluationModel
	err := s.DB.WithContext(ctx).Where("evaluation_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.Evaluation{}, lifecycle.NewNotFound("evaluation", id.String())
	}
	if err != nil {
		return lifecycle.Evaluation{}, lifecycle.NewTransient("load evaluation", err)
	}
	return m.ToDomain()
}

func (s *GormStore) CreateEvaluation(ctx context.Context, ev *lifecycle.Evaluation) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	m := model.FromDomain(*ev)
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return lifecycle.NewTransient("create evaluation", err)
	}
	ev.CreatedAt, ev.UpdatedAt = m.EvaluationCreatedAt, m.EvaluationUpdatedAt
	return nil
}

func (s *GormStore) UpdateEvaluation(ctx context.Context, action lifecycle.Action, prev, next lifecycle.Evaluation) (lifecycle.Evaluation, error) {
	m := model.FromDomain(next)
	m.EvaluationUpdatedAt = time.Now().UTC()

	res := s.DB.WithContext(ctx).
		Model(&model.EvaluationModel{}).
		Where("evaluation_id = ? AND evaluation_status = ? AND evaluation_evaluator_id = ? AND evaluation_acknowledged = ?",
			prev.ID, string(prev.Status), prev.EvaluatorID, prev.Acknowledgement.Acknowledged).
		Select(model.MutableColumns).
		Updates(&m)
	if res.Error != nil {
		return prev, lifecycle.NewTransient("save evaluation", res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := s.GetEvaluation(ctx, prev.ID)
		if err != nil {
			return prev, err
		}
		return current, lifecycle.NewGuardViolation(action, current.Status,
			fmt.Sprintf("evaluation changed concurrently (was %s)", prev.Status))
	}
	return s.GetEvaluation(ctx, prev.ID)
}

func (s *GormStore) ListEvaluations(ctx context.Context, f ListFilter) ([]lifecycle.Evaluation, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.EvaluationModel{})
	if f.EmployeeID != nil {
		q = q.Where("evaluation_employee_id = ?", *f.EmployeeID)
	}
	if f.EvaluatorID != nil {
		q = q.Where("evaluation_evaluator_id = ?", *f.EvaluatorID)
	}
	if len(f.Statuses) > 0 {
		st := make([]string, 0, len(f.Statuses))
		for _, v := range f.Statuses {
			st = append(st, string(v))
		}
		q = q.Where("evaluation_status = ANY(?)", pq.Array(st))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("count evaluations", err)
	}

	var rows []model.EvaluationModel
	if err := q.Order("evaluation_scheduled_date ASC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("list evaluations", err)
	}
	out, err := toDomain(rows)
	return out, total, err
}

func (s *GormStore) ListUnacknowledged(ctx context.Context, completedBefore, remindedBefore time.Time, limit int) ([]lifecycle.Evaluation, error) {
	var rows []model.EvaluationModel
	err := s.DB.WithContext(ctx).
		Where("evaluation_status = ? AND evaluation_acknowledged = FALSE", string(lifecycle.StatusCompleted)).
		Where("evaluation_completed_at < ?", completedBefore).
		Where("evaluation_last_reminder_at IS NULL OR evaluation_last_reminder_at < ?", remindedBefore).
		Order("evaluation_completed_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, lifecycle.NewTransient("list unacknowledged", err)
	}
	return toDomain(rows)
}

func toDomain(rows []model.EvaluationModel) ([]lifecycle.Evaluation, error) {
	out := make([]lifecycle.Evaluation, 0, len(rows))
	for _, m := range rows {
		ev, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
