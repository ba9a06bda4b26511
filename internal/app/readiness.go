package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fairyhunter13/course-catalog/internal/config"
)

// Pinger is the minimal interface for a backend capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessChecks returns the store and session readiness probes. A nil
// probe means the configured backend needs none; memory sessions are always
// ready.
func BuildReadinessChecks(cfg config.Config, db Pinger, sessions Pinger) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	storeCheck := func(ctx context.Context) error {
		if cfg.UsesPostgres() {
			if db == nil {
				return fmt.Errorf("db not configured")
			}
			return db.Ping(ctx)
		}
		if _, err := os.Stat(filepath.Dir(cfg.CatalogPath)); err != nil {
			return fmt.Errorf("catalog directory: %w", err)
		}
		return nil
	}

	var sessionCheck func(ctx context.Context) error
	if cfg.UsesRedisSessions() {
		sessionCheck = func(ctx context.Context) error {
			if sessions == nil {
				return fmt.Errorf("redis not configured")
			}
			return sessions.Ping(ctx)
		}
	}
	return storeCheck, sessionCheck
}
