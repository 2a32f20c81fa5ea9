package db

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fatflowers/duesledger/internal/models"
	cfgpkg "github.com/fatflowers/duesledger/pkg/config"
	gormzap "github.com/fatflowers/duesledger/pkg/gormlog"
)

const sqlitePrefix = "sqlite:"

// Dialector picks the driver from the DSN: "sqlite:<path>" and "file:..."
// open SQLite, anything else is handed to postgres.
func Dialector(dsn string) (gorm.Dialector, string) {
	switch {
	case strings.HasPrefix(dsn, sqlitePrefix):
		return sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), "sqlite"
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn), "sqlite"
	default:
		return postgres.Open(dsn), "postgres"
	}
}

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	dialector, driver := Dialector(cfg.Database.DSN)
	var gl gormlogger.Interface = gormzap.New(l)
	if cfg.Env == cfgpkg.EnvDev {
		gl = gl.LogMode(gormlogger.Info)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gl})
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	if driver == "sqlite" {
		// one writer at a time; also keeps ":memory:" databases on a single connection
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	l.Infow("connected to database", "driver", driver)
	return db, nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&models.Member{},
		&models.PaymentLogEntry{},
		&models.MemberStatusLog{},
		&models.Option{},
		&models.PaymentNotificationLog{},
	}
}

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing database connection pool")
			return sqlDB.Close()
		},
	})
}
