// Package bootstrap seeds the initial admin account so a fresh deployment
// is usable without manual database surgery.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/soundvest/soundvest-api/internal/config"
	"github.com/soundvest/soundvest-api/internal/repository"
)

// EnsureAdmin creates the admin user from ADMIN_USERNAME/ADMIN_PASSWORD if
// it does not exist yet. When the env vars are unset the step is skipped,
// which is fine for deployments seeded some other way. An existing row is
// left untouched: this never resets a password.
func EnsureAdmin(ctx context.Context, cfg config.Config, users *repository.UserRepo) error {
	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" || cfg.AdminPassword == "" {
		log.Printf("bootstrap: admin seed skipped (ADMIN_USERNAME/ADMIN_PASSWORD not set)")
		return nil
	}

	if _, err := users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("bootstrap lookup admin: %w", err)
	}

	id, err := users.Create(ctx, username, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("bootstrap create admin: %w", err)
	}
	log.Printf("bootstrap: created admin user %q (id=%d)", username, id)
	return nil
}
