// File path: internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/common/telemetry"
	"github.com/plandeck/plandeck/internal/domain"
)

var (
	// ErrNotFound reports a missing project id.
	ErrNotFound = errors.New("project not found")
	// ErrConflict reports a concurrent write detected by the version check.
	ErrConflict = errors.New("project modified concurrently")
)

// Store is the explicit state container for projects. Callers never mutate a
// retrieved project in place: every change goes through Update, which applies
// a copy-on-write function to a fresh snapshot and persists the result.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store backed by the SQLite database at the provided path.
// The schema is migrated on first use.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("store path required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=1", abs, busy)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BusyTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	common.Logger().Info("store: opened", "path", abs)
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`CREATE TABLE IF NOT EXISTS projects (
                id TEXT PRIMARY KEY,
                payload TEXT NOT NULL,
                version INTEGER NOT NULL,
                created_at DATETIME NOT NULL,
                updated_at DATETIME NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS model_config (
                id INTEGER PRIMARY KEY CHECK (id = 1),
                model TEXT NOT NULL,
                last_updated DATETIME NOT NULL
        );`,
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

type projectRow struct {
	ID      string `db:"id"`
	Payload string `db:"payload"`
	Version int    `db:"version"`
}

func decodeRow(row projectRow) (domain.Project, error) {
	var p domain.Project
	if err := json.Unmarshal([]byte(row.Payload), &p); err != nil {
		return domain.Project{}, fmt.Errorf("decode project %s: %w", row.ID, err)
	}
	return p, nil
}

// Create persists a new project.
func (s *Store) Create(ctx context.Context, p domain.Project) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, payload, version, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, string(payload), p.Version, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	common.Logger().Debug("store: project created", "project", p.ID)
	return nil
}

// Get returns a full snapshot of one project.
func (s *Store) Get(ctx context.Context, id string) (domain.Project, error) {
	var row projectRow
	err := s.db.GetContext(ctx, &row, `SELECT id, payload, version FROM projects WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Project{}, ErrNotFound
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("load project: %w", err)
	}
	return decodeRow(row)
}

// List returns all projects, most recently updated first.
func (s *Store) List(ctx context.Context) ([]domain.Project, error) {
	var rows []projectRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, payload, version FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		p, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Update applies fn to a deep copy of the stored project and persists the
// result. The version increments exactly once per successful update and the
// updated timestamp is refreshed; a concurrent writer surfaces as
// ErrConflict.
func (s *Store) Update(ctx context.Context, id string, fn func(domain.Project) domain.Project) (domain.Project, error) {
	var next domain.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var row projectRow
		err := tx.GetContext(ctx, &row, `SELECT id, payload, version FROM projects WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load project: %w", err)
		}
		prev, err := decodeRow(row)
		if err != nil {
			return err
		}

		next = fn(prev.Clone())
		next.ID = prev.ID
		next.CreatedAt = prev.CreatedAt
		next.Version = prev.Version + 1
		next.UpdatedAt = time.Now().UTC()

		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE projects SET payload = ?, version = ?, updated_at = ? WHERE id = ? AND version = ?`,
			string(payload), next.Version, next.UpdatedAt, id, prev.Version)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		if affected == 0 {
			telemetry.RecordStoreConflict()
			return ErrConflict
		}
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	common.Logger().Debug("store: project updated", "project", id, "version", next.Version)
	return next, nil
}

// Delete removes a project permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Duplicate creates a deep, independent copy of a project under a new id.
// Report history is not carried over and the version restarts at 1.
func (s *Store) Duplicate(ctx context.Context, id string) (domain.Project, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	copyProject := source.Clone()
	fresh := domain.NewProject(source.Name+" (copy)", source.Client, source.ProjectDate, source.Notes)
	copyProject.ID = fresh.ID
	copyProject.Name = fresh.Name
	copyProject.Reports = nil
	copyProject.Version = 1
	copyProject.CreatedAt = fresh.CreatedAt
	copyProject.UpdatedAt = fresh.UpdatedAt
	if err := s.Create(ctx, copyProject); err != nil {
		return domain.Project{}, err
	}
	return copyProject, nil
}

// AppendReport adds a report record to the project's append-only history.
func (s *Store) AppendReport(ctx context.Context, id string, meta domain.ReportMeta) (domain.Project, error) {
	return s.Update(ctx, id, func(p domain.Project) domain.Project {
		p.Reports = append(p.Reports, meta)
		return p
	})
}

// ModelConfig returns the generation backend configuration, or a zero value
// when none has been saved yet.
func (s *Store) ModelConfig(ctx context.Context) (domain.ModelConfig, error) {
	var row struct {
		Model       string    `db:"model"`
		LastUpdated time.Time `db:"last_updated"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT model, last_updated FROM model_config WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ModelConfig{}, nil
	}
	if err != nil {
		return domain.ModelConfig{}, fmt.Errorf("load model config: %w", err)
	}
	return domain.ModelConfig{Model: row.Model, LastUpdated: row.LastUpdated}, nil
}

// SetModelConfig stores the generation backend configuration.
func (s *Store) SetModelConfig(ctx context.Context, cfg domain.ModelConfig) error {
	cfg.LastUpdated = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO model_config (id, model, last_updated) VALUES (1, ?, ?)
                 ON CONFLICT(id) DO UPDATE SET model = excluded.model, last_updated = excluded.last_updated`,
		cfg.Model, cfg.LastUpdated)
	if err != nil {
		return fmt.Errorf("save model config: %w", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
