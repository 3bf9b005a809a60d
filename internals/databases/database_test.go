package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/configs"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	dsn := DSN(configs.Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "ops", DBSSLMode: "disable"})
	require.Equal(t, "postgres://u:p@h:5432/ops?sslmode=disable&application_name=restaurantops&options=-c%20statement_timeout=5000", dsn)
}
