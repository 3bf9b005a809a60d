package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/constants"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	"restaurantops_backend/internals/features/users/user/model"
)

func TestMemoryDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	active := model.UserModel{ID: uuid.New(), UserName: "chef", FullName: "Head Chef", Role: constants.RoleDirector, IsActive: true}
	gone := model.UserModel{ID: uuid.New(), UserName: "former", Role: constants.RoleLeader}
	d := NewMemoryDirectory(active, gone)

	a, err := ActorFor(ctx, d, active.ID)
	require.NoError(t, err)
	require.Equal(t, lifecycle.Actor{ID: active.ID, Role: constants.RoleDirector}, a)

	_, err = ActorFor(ctx, d, gone.ID)
	require.Equal(t, lifecycle.KindNotFound, lifecycle.KindOf(err))

	_, err = d.Lookup(ctx, uuid.New())
	require.Equal(t, lifecycle.KindNotFound, lifecycle.KindOf(err))
}

func TestPutAssignsID(t *testing.T) {
	t.Parallel()

	d := NewMemoryDirectory()
	d.Put(model.UserModel{UserName: "new", IsActive: true})
	require.Len(t, d.users, 1)
}
