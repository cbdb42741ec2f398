package app

import (
	"strings"

	"github.com/campuspulse/campuspulse/internal/store"
	"github.com/campuspulse/campuspulse/internal/store/postgres"
	"github.com/campuspulse/campuspulse/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.FeedbackStore, error) {
	if strings.HasPrefix(dsn, "postgres") {
		return postgres.NewPostgresStore(dsn, migrationsDir)
	}
	return sqlite.NewSQLiteStore(dsn, migrationsDir)
}
