package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/evaluations/templates/model"
)

// Memory is an in-process Store used for local runs without Postgres and in tests.
type Memory struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]model.Template
	scales    map[uuid.UUID]model.GradingScale
	refs      map[uuid.UUID]int
}

func NewMemory() *Memory {
	return &Memory{
		templates: map[uuid.UUID]model.Template{},
		scales:    map[uuid.UUID]model.GradingScale{},
		refs:      map[uuid.UUID]int{},
	}
}

// Reference records that an evaluation uses the template.
func (m *Memory) Reference(templateID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[templateID]++
}

func (m *Memory) GetTemplate(_ context.Context, id uuid.UUID) (model.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	if !ok {
		return model.Template{}, lifecycle.NewNotFound("template", id.String())
	}
	return t, nil
}

func (m *Memory) ListTemplates(_ context.Context, offset, limit int) ([]model.Template, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]model.Template, 0, len(m.templates))
	for _, t := range m.templates {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *Memory) CreateTemplate(_ context.Context, t *model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.templates[t.ID] = *t
	return nil
}

func (m *Memory) UpdateTemplate(_ context.Context, t model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[t.ID]; !ok {
		return lifecycle.NewNotFound("template", t.ID.String())
	}
	m.templates[t.ID] = t
	return nil
}

func (m *Memory) TemplateReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refs[id] > 0, nil
}

func (m *Memory) GetGradingScale(_ context.Context, id uuid.UUID) (model.GradingScale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.scales[id]
	if !ok {
		return model.GradingScale{}, lifecycle.NewNotFound("grading scale", id.String())
	}
	return g, nil
}

func (m *Memory) GetGradingScales(_ context.Context, ids []uuid.UUID) (model.ScaleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := model.ScaleSet{}
	for _, id := range ids {
		g, ok := m.scales[id]
		if !ok {
			return nil, lifecycle.NewNotFound("grading scale", id.String())
		}
		out[id] = g
	}
	return out, nil
}

func (m *Memory) ListGradingScales(_ context.Context, offset, limit int) ([]model.GradingScale, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]model.GradingScale, 0, len(m.scales))
	for _, g := range m.scales {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *Memory) CreateGradingScale(_ context.Context, g *model.GradingScale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	m.scales[g.ID] = *g
	return nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
