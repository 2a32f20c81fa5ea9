// Package dbtest opens throwaway SQLite databases for store tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/duesledger/internal/platform/db"
	"github.com/fatflowers/duesledger/pkg/config"
)

// New returns a migrated in-memory database closed when t ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = "sqlite::memory:"
	log := zap.NewNop().Sugar()

	gdb, err := db.NewDB(log, cfg)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(log, gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
