package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/users/user/model"
)

// Directory is the identity/role provider behind evaluation guards.
type Directory interface {
	Lookup(ctx context.Context, id uuid.UUID) (model.UserModel, error)
}

// ActorFor resolves a user into the guard input. Inactive users are not found.
func ActorFor(ctx context.Context, d Directory, id uuid.UUID) (lifecycle.Actor, error) {
	u, err := d.Lookup(ctx, id)
	if err != nil {
		return lifecycle.Actor{}, err
	}
	return lifecycle.Actor{ID: u.ID, Role: u.Role}, nil
}

type GormDirectory struct {
	DB *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

func (d *GormDirectory) Lookup(ctx context.Context, id uuid.UUID) (model.UserModel, error) {
	var u model.UserModel
	err := d.DB.WithContext(ctx).
		Select("id", "user_name", "full_name", "email", "role", "is_active").
		Where("id = ? AND is_active = TRUE", id).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserModel{}, lifecycle.NewNotFound("user", id.String())
	}
	if err != nil {
		return model.UserModel{}, lifecycle.NewTransient("lookup user", err)
	}
	return u, nil
}

// MemoryDirectory backs local runs and tests.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.UserModel
}

func NewMemoryDirectory(users ...model.UserModel) *MemoryDirectory {
	d := &MemoryDirectory{users: map[uuid.UUID]model.UserModel{}}
	for _, u := range users {
		d.Put(u)
	}
	return d
}

func (d *MemoryDirectory) Put(u model.UserModel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	d.users[u.ID] = u
}

func (d *MemoryDirectory) Lookup(_ context.Context, id uuid.UUID) (model.UserModel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok || !u.IsActive {
		return model.UserModel{}, lifecycle.NewNotFound("user", id.String())
	}
	return u, nil
}
