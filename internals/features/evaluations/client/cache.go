package client

import (
	"sync"

	"github.com/google/uuid"

	"restaurantops_backend/internals/features/evaluations/evaluations/dto"
)

// Cache holds the last known evaluation documents and list pages. Reads and
// writes go through deep copies, so a snapshot taken with Get can be restored
// exactly with Put.
type Cache struct {
	mu    sync.RWMutex
	items map[uuid.UUID]dto.EvaluationResponse
	stale map[uuid.UUID]bool
	lists map[string][]dto.EvaluationSummary
}

func NewCache() *Cache {
	return &Cache{
		items: map[uuid.UUID]dto.EvaluationResponse{},
		stale: map[uuid.UUID]bool{},
		lists: map[string][]dto.EvaluationSummary{},
	}
}

func (c *Cache) Get(id uuid.UUID) (dto.EvaluationResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ev, ok := c.items[id]
	if !ok {
		return dto.EvaluationResponse{}, false
	}
	return CloneEvaluation(ev), true
}

// Put stores a copy and clears the stale mark.
func (c *Cache) Put(ev dto.EvaluationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[ev.ID] = CloneEvaluation(ev)
	delete(c.stale, ev.ID)
}

// restore puts a snapshot back without touching the stale mark.
func (c *Cache) restore(ev dto.EvaluationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[ev.ID] = CloneEvaluation(ev)
}

func (c *Cache) Delete(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	delete(c.stale, id)
}

// Invalidate marks an entry as needing a refetch. The cached value stays readable.
func (c *Cache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; ok {
		c.stale[id] = true
	}
}

func (c *Cache) Stale(id uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale[id]
}

func (c *Cache) List(key string) ([]dto.EvaluationSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rows, ok := c.lists[key]
	if !ok {
		return nil, false
	}
	return cloneSummaries(rows), true
}

func (c *Cache) PutList(key string, rows []dto.EvaluationSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[key] = cloneSummaries(rows)
}

// InvalidateLists drops every cached list page.
func (c *Cache) InvalidateLists() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = map[string][]dto.EvaluationSummary{}
}

func cloneSummaries(rows []dto.EvaluationSummary) []dto.EvaluationSummary {
	out := make([]dto.EvaluationSummary, len(rows))
	for i, r := range rows {
		r.ReviewSessionDate = cloneTime(r.ReviewSessionDate)
		r.CompletedAt = cloneTime(r.CompletedAt)
		r.Acknowledgement.Date = cloneTime(r.Acknowledgement.Date)
		out[i] = r
	}
	return out
}
