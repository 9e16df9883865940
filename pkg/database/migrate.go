package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migrator applies ordered SQL files and records them in schema_migrations.
type Migrator struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMigrator creates a Migrator.
func NewMigrator(db *sqlx.DB, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, logger: logger}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// Version is the prefix before the first underscore, "0001_init.sql" is version "0001".
func Version(filename string) string {
	return strings.SplitN(filepath.Base(filename), "_", 2)[0]
}

// ApplyFile runs one migration file inside a transaction unless its version was already applied.
func (m *Migrator) ApplyFile(ctx context.Context, path string) (err error) {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}

	version := Version(path)
	var applied bool
	const existsQuery = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := m.db.GetContext(ctx, &applied, existsQuery, version); err != nil {
		return fmt.Errorf("check migration %s: %w", version, err)
	}
	if applied {
		m.logger.Debug("migration already applied", zap.String("file", filepath.Base(path)))
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", path, err)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute migration %s: %w", version, err)
	}
	const recordQuery = `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, recordQuery, version, time.Now().UTC()); err != nil {
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", version, err)
	}

	m.logger.Info("migration applied", zap.String("file", filepath.Base(path)))
	return nil
}

// ApplyDir applies every .sql file in dir in lexical order.
func (m *Migrator) ApplyDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		if err := m.ApplyFile(ctx, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
