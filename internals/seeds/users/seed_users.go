package users

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"restaurantops_backend/internals/features/users/user/model"
	"restaurantops_backend/internals/features/users/user/service"
)

type UserSeed struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	UserName string     `json:"user_name"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
}

// SeedUsersFromJSON registers users whose email is not taken yet.
func SeedUsersFromJSON(ctx context.Context, staff service.Staff, filePath string, log zerolog.Logger) error {
	log.Info().Str("file", filePath).Msg("📥 reading user seeds")
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	var seeds []UserSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	existing, _, err := staff.ListUsers(ctx, "", 0, 10000)
	if err != nil {
		return err
	}
	taken := map[string]bool{}
	for _, u := range existing {
		taken[strings.ToLower(u.Email)] = true
	}

	inserted := 0
	for _, s := range seeds {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		if taken[email] {
			log.Info().Str("email", email).Msg("ℹ️ user exists, skipped")
			continue
		}
		u := model.UserModel{UserName: s.UserName, FullName: s.FullName, Email: email, Role: s.Role, IsActive: true}
		if s.ID != nil {
			u.ID = *s.ID
		}
		if u.Role == "" {
			u.Role = "employee"
		}
		if err := staff.CreateUser(ctx, &u); err != nil {
			return fmt.Errorf("seed user %q: %w", email, err)
		}
		taken[email] = true
		inserted++
	}
	log.Info().Int("inserted", inserted).Msg("✅ user seeds done")
	return nil
}
