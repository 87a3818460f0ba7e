package main

import (
	"context"
	"errors"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"safari_backend/internal/platform/http/handler"
)

type readier interface {
	Ready() error
}

// readinessChecks はDBと指紋エンジンを必須、Redisを任意として登録します。
func readinessChecks(db *gorm.DB, rdb *redisv9.Client, bio readier) []handler.Check {
	checks := []handler.Check{
		{
			Name: "db",
			Probe: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
		{
			Name:  "fingerprint",
			Probe: func(context.Context) error { return bio.Ready() },
		},
	}

	checks = append(checks, handler.Check{
		Name:     "redis",
		Optional: true,
		Probe: func(ctx context.Context) error {
			if rdb == nil {
				return errors.New("not configured")
			}
			return rdb.Ping(ctx).Err()
		},
	})
	return checks
}
