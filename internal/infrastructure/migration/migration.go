// Package migration applies the versioned SQL schema with goose. Scripts are
// embedded per dialect so the binary migrates without a source checkout.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/shared/config"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

//go:embed scripts/sqlite/*.sql scripts/mysql/*.sql
var scripts embed.FS

// goose keeps dialect, base FS and logger in package state.
var gooseMu sync.Mutex

type GooseStrategy struct {
	dialect    string
	scriptsDir string
	logger     logger.Interface
}

func NewGooseStrategy(driver string, log logger.Interface) (*GooseStrategy, error) {
	s := &GooseStrategy{logger: log.With("component", "migration.goose")}
	switch driver {
	case config.DriverSQLite:
		s.dialect = "sqlite3"
		s.scriptsDir = "scripts/sqlite"
	case config.DriverMySQL:
		s.dialect = "mysql"
		s.scriptsDir = "scripts/mysql"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return s, nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

// ScriptsDir is the dialect's directory inside the source tree, used when
// creating new migrations.
func (s *GooseStrategy) ScriptsDir() string {
	return "internal/infrastructure/migration/" + s.scriptsDir
}

func (s *GooseStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	s.logger.Infow("starting goose migration", "dialect", s.dialect)

	return s.run(db, func(sqlDB *sql.DB) error {
		currentVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
		if err != nil {
			s.logger.Errorw("failed to get current version", "error", err)
			return fmt.Errorf("failed to get current version: %w", err)
		}

		if err := goose.UpContext(ctx, sqlDB, s.scriptsDir); err != nil {
			s.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		finalVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}

		s.logger.Infow("migration completed successfully",
			"from_version", currentVersion,
			"to_version", finalVersion)
		return nil
	})
}

func (s *GooseStrategy) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	s.logger.Infow("starting down migration", "steps", steps)

	return s.run(db, func(sqlDB *sql.DB) error {
		for i := 0; i < steps; i++ {
			if err := goose.DownContext(ctx, sqlDB, s.scriptsDir); err != nil {
				s.logger.Errorw("down migration failed", "error", err)
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}
		s.logger.Infow("down migration completed successfully")
		return nil
	})
}

func (s *GooseStrategy) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	var version int64
	err := s.run(db, func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// Status prints the applied/pending state of every migration through the
// strategy's logger.
func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) error {
	return s.run(db, func(sqlDB *sql.DB) error {
		if err := goose.StatusContext(ctx, sqlDB, s.scriptsDir); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		return nil
	})
}

// Create writes a new timestamped SQL migration into the source tree.
func (s *GooseStrategy) Create(name string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Create(nil, s.ScriptsDir(), name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	s.logger.Infow("migration created successfully", "name", name)
	return nil
}

func (s *GooseStrategy) run(db *gorm.DB, fn func(sqlDB *sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scripts)
	goose.SetLogger(&gooseLogger{logger: s.logger})
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return fn(sqlDB)
}

// gooseLogger routes goose's printf output into the structured logger.
type gooseLogger struct {
	logger logger.Interface
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	if msg == "" {
		return
	}
	l.logger.Infow(msg)
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Errorw(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
