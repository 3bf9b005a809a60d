package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/users/user/model"
)

// Staff is the writable side of the directory, used by admins to register
// people and their org roles.
type Staff interface {
	Directory
	ListUsers(ctx context.Context, role string, offset, limit int) ([]model.UserModel, int64, error)
	CreateUser(ctx context.Context, u *model.UserModel) error
	UpdateUser(ctx context.Context, id uuid.UUID, role *string, active *bool) (model.UserModel, error)
}

func (d *GormDirectory) ListUsers(ctx context.Context, role string, offset, limit int) ([]model.UserModel, int64, error) {
	q := d.DB.WithContext(ctx).Model(&model.UserModel{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("count users", err)
	}
	var rows []model.UserModel
	if err := q.Order("user_name ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, lifecycle.NewTransient("list users", err)
	}
	return rows, total, nil
}

func (d *GormDirectory) CreateUser(ctx context.Context, u *model.UserModel) error {
	if err := d.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return lifecycle.FieldError("create_user", "email", "already registered")
		}
		return lifecycle.NewTransient("create user", err)
	}
	return nil
}

func (d *GormDirectory) UpdateUser(ctx context.Context, id uuid.UUID, role *string, active *bool) (model.UserModel, error) {
	updates := map[string]any{}
	if role != nil {
		updates["role"] = *role
	}
	if active != nil {
		updates["is_active"] = *active
	}
	if len(updates) > 0 {
		res := d.DB.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return model.UserModel{}, lifecycle.NewTransient("update user", res.Error)
		}
		if res.RowsAffected == 0 {
			return model.UserModel{}, lifecycle.NewNotFound("user", id.String())
		}
	}
	var u model.UserModel
	if err := d.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.UserModel{}, lifecycle.NewNotFound("user", id.String())
		}
		return model.UserModel{}, lifecycle.NewTransient("reload user", err)
	}
	return u, nil
}

func (d *MemoryDirectory) ListUsers(_ context.Context, role string, offset, limit int) ([]model.UserModel, int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	all := []model.UserModel{}
	for _, u := range d.users {
		if role == "" || u.Role == role {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserName < all[j].UserName })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.UserModel{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (d *MemoryDirectory) CreateUser(_ context.Context, u *model.UserModel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return lifecycle.FieldError("create_user", "email", "already registered")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	d.users[u.ID] = *u
	return nil
}

func (d *MemoryDirectory) UpdateUser(_ context.Context, id uuid.UUID, role *string, active *bool) (model.UserModel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return model.UserModel{}, lifecycle.NewNotFound("user", id.String())
	}
	if role != nil {
		u.Role = *role
	}
	if active != nil {
		u.IsActive = *active
	}
	d.users[id] = u
	return u, nil
}
