package migration

import (
	"errors"
	"fmt"
	"strings"

	"antaracc/internal/config"

	"github.com/golang-migrate/migrate/v4"
	// Драйвер postgres и файловый источник регистрируются через init.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/exp/slog"
)

// Migrator - подмножество migrate.Migrate, которым мы пользуемся.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// MigrationEngine создает мигратор; в тестах подменяется моком.
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

type Migration struct {
	source string
	dbURI  string
	engine MigrationEngine
	log    *slog.Logger
}

func NewMigration(cfg *config.Config, engine MigrationEngine, log *slog.Logger) *Migration {
	source := cfg.DB.Migrations
	if !strings.Contains(source, "://") {
		source = "file://" + source
	}
	return &Migration{
		source: source,
		dbURI:  cfg.DB.DatabaseURI,
		engine: engine,
		log:    log.With("component", "migration"),
	}
}

// Up применяет все новые миграции схемы индекса. Отсутствие изменений не ошибка.
func (mg *Migration) Up() error {
	return mg.run("up", func(m Migrator) error { return m.Up() })
}

// Down откатывает схему целиком.
func (mg *Migration) Down() error {
	return mg.run("down", func(m Migrator) error { return m.Down() })
}

func (mg *Migration) run(direction string, step func(Migrator) error) (err error) {
	m, err := mg.engine(mg.source, mg.dbURI)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("migration source: %w", serr))
		}
		if dberr != nil {
			err = errors.Join(err, fmt.Errorf("migration database: %w", dberr))
		}
	}()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Debug("schema is up to date", "direction", direction)
			return nil
		}
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", verr)
	}
	mg.log.Info("schema migrated", "direction", direction, "version", version, "dirty", dirty)
	return nil
}
