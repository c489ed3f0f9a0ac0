package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskapi/internal/models"
	"taskapi/internal/storage"
)

// DefaultDSN keeps the database entirely in memory, so nothing
// survives a restart unless an explicit file path is configured.
const DefaultDSN = ":memory:"

// Store backs the task collection with a SQLite database. The tasks
// table uses AUTOINCREMENT, so ids are monotonic and never reused
// even after deletion.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes the database and runs the schema migration.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if logger == nil {
		logger = slog.Default()
	}

	if dsn != DefaultDSN {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps the :memory: database alive and
	// serializes all store operations.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmt := `CREATE TABLE IF NOT EXISTS tasks (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        completed INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME NOT NULL
    );`

	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Create validates the input and inserts a new task. The id comes
// from the AUTOINCREMENT counter; created_at is set here, once.
func (s *Store) Create(ctx context.Context, input models.TaskCreate) (models.Task, error) {
	if err := input.Validate(); err != nil {
		return models.Task{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks(title, description, completed, created_at) VALUES(?, ?, ?, ?)`,
		input.Title, input.Description, input.Completed, time.Now().UTC())
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	return s.Get(ctx, id)
}

// List returns all tasks ordered by id.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, completed, created_at FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Get retrieves a task by id.
func (s *Store) Get(ctx context.Context, id int64) (models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, completed, created_at FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update merges the supplied fields onto the stored record. The id
// and created_at columns are never written.
func (s *Store) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	title := current.Title
	description := current.Description
	completed := current.Completed

	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.Completed != nil {
		completed = *patch.Completed
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ? WHERE id = ?`,
		title, description, completed, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a task by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}
