package seeds

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	tservice "restaurantops_backend/internals/features/evaluations/templates/service"
	uservice "restaurantops_backend/internals/features/users/user/service"
	evaluations "restaurantops_backend/internals/seeds/evaluations"
	users "restaurantops_backend/internals/seeds/users"
)

// DefaultDir is relative to the repository root.
const DefaultDir = "internals/seeds"

type Deps struct {
	Templates *tservice.Service
	Staff     uservice.Staff
	Dir       string
	Logger    zerolog.Logger
}

func RunAllSeeds(ctx context.Context, d Deps) error {
	dir := d.Dir
	if dir == "" {
		dir = DefaultDir
	}

	//* Users
	if d.Staff != nil {
		if err := users.SeedUsersFromJSON(ctx, d.Staff, filepath.Join(dir, "users", "data_users.json"), d.Logger); err != nil {
			return err
		}
	}

	//* Grading scales + templates
	if d.Templates != nil {
		if err := evaluations.SeedFromJSON(ctx, d.Templates, filepath.Join(dir, "evaluations", "data_evaluations.json"), d.Logger); err != nil {
			return err
		}
	}
	return nil
}
