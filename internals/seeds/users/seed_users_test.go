package users

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/features/users/user/service"
)

func TestSeedUsersFromJSON(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := service.NewMemoryDirectory()
	require.NoError(t, SeedUsersFromJSON(ctx, dir, "data_users.json", zerolog.Nop()))
	require.NoError(t, SeedUsersFromJSON(ctx, dir, "data_users.json", zerolog.Nop()))

	rows, total, err := dir.ListUsers(ctx, "", 0, 100)
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.Len(t, rows, 4)

	leaders, _, err := dir.ListUsers(ctx, "Leader", 0, 100)
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	require.Equal(t, "7d0b5c52-5d5e-4b38-9d3a-2f4f0c7f6a03", leaders[0].ID.String())
}
